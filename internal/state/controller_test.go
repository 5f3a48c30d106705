package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestController(t *testing.T, screensaver time.Duration) (*Controller, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.Local)}
	return NewController(Options{Screensaver: screensaver, Now: clock.Now}), clock
}

func call(tg int, caller string, st CallState, at time.Time) Call {
	return NewCall(caller, tg, "", st, at)
}

func TestNewController_StartsIdle(t *testing.T) {
	c, clock := newTestController(t, 0)

	snap := c.Snapshot()
	assert.Empty(t, snap.Calls)
	assert.Equal(t, 0, snap.Talkgroup)
	assert.False(t, snap.Connected)
	assert.True(t, snap.Current.isIdle())
	assert.Equal(t, clock.Now(), snap.Current.EntryTime)
	assert.True(t, c.ContrastLocked())
}

func TestDrainAndAdvance_FiltersByCurrentTalkgroup(t *testing.T) {
	c, clock := newTestController(t, 0)
	now := clock.Now()

	c.RecordCall(call(5, "SP1AAA", CallStart, now))
	c.SelectTalkgroup(7)
	c.RecordCall(call(7, "SP2BBB", CallStart, now))
	c.RecordCall(call(5, "SP3CCC", CallStop, now))
	c.RecordCall(call(7, "SP4DDD", CallStop, now))

	require.True(t, c.DrainAndAdvance())

	snap := c.Snapshot()
	assert.Empty(t, snap.Calls)
	assert.Equal(t, "SP4DDD", snap.Current.Caller)
	assert.True(t, snap.ShowLast)
}

func TestDrainAndAdvance_OnlyMatchingCallsAreDisplayedInOrder(t *testing.T) {
	c, clock := newTestController(t, 0)
	now := clock.Now()
	c.SelectTalkgroup(9)

	var shown []string
	for _, in := range []Call{
		call(9, "A", CallStart, now),
		call(1, "X", CallStart, now),
		call(9, "B", CallStop, now),
		call(2, "Y", CallStop, now),
	} {
		c.RecordCall(in)
		if c.DrainAndAdvance() {
			shown = append(shown, c.Snapshot().Current.Caller)
		}
	}
	assert.Equal(t, []string{"A", "B"}, shown)
}

func TestDrainAndAdvance_NoTalkgroupShowsEverything(t *testing.T) {
	c, clock := newTestController(t, 0)
	c.RecordCall(call(1, "A", CallStart, clock.Now()))
	c.RecordCall(call(2, "B", CallStop, clock.Now()))

	assert.True(t, c.DrainAndAdvance())
	assert.Equal(t, "B", c.Snapshot().Current.Caller)
}

func TestDrainAndAdvance_NonMatchingIsConsumedNotShown(t *testing.T) {
	c, clock := newTestController(t, 0)
	c.SelectTalkgroup(3)
	c.RecordCall(call(4, "A", CallStart, clock.Now()))

	assert.False(t, c.DrainAndAdvance())
	snap := c.Snapshot()
	assert.Empty(t, snap.Calls)
	assert.True(t, snap.Current.isIdle())
}

func TestResets_AreIdempotent(t *testing.T) {
	tests := []struct {
		name      string
		reset     func(*Controller)
		connected bool
	}{
		{"link down", (*Controller).LinkDown, false},
		{"link up", (*Controller).LinkUp, true},
		{"logic start", (*Controller).LogicStart, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, clock := newTestController(t, 0)
			c.SelectTalkgroup(5)
			c.RecordCall(call(5, "A", CallStart, clock.Now()))
			c.DrainAndAdvance()
			c.RecordCall(call(5, "B", CallStop, clock.Now()))

			clock.Advance(time.Second)
			tt.reset(c)
			first := c.Snapshot()
			tt.reset(c)
			second := c.Snapshot()

			for _, snap := range []Snapshot{first, second} {
				assert.Empty(t, snap.Calls)
				assert.True(t, snap.Current.isIdle())
				assert.Equal(t, clock.Now(), snap.Current.EntryTime)
				assert.Equal(t, 0, snap.Talkgroup)
				assert.False(t, snap.ShowLast)
				assert.Equal(t, tt.connected, snap.Connected)
			}
		})
	}
}

func TestNodeActivity_KeepsQueue(t *testing.T) {
	c, clock := newTestController(t, 0)
	c.SelectTalkgroup(5)
	c.RecordCall(call(5, "A", CallStart, clock.Now()))
	c.RecordCall(call(5, "B", CallStop, clock.Now()))

	before := c.Snapshot()
	c.NodeActivity()
	after := c.Snapshot()

	assert.Len(t, after.Calls, len(before.Calls))
	assert.Equal(t, before.Calls, after.Calls)
	assert.Equal(t, 5, after.Talkgroup)
	assert.True(t, after.Connected)
}

func TestIdlePanelPolicy_ShowLastWindow(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		want    Panel
	}{
		{"just ended", 0, PanelTalker},
		{"within window", 4900 * time.Millisecond, PanelTalker},
		{"at boundary", 5 * time.Second, PanelTalker},
		{"after window", 5100 * time.Millisecond, PanelClock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, clock := newTestController(t, 0)
			c.RecordCall(call(5, "A", CallStop, clock.Now()))
			require.True(t, c.DrainAndAdvance())

			clock.Advance(tt.elapsed)
			assert.Equal(t, tt.want, c.IdlePanelPolicy())
			assert.Equal(t, tt.want == PanelTalker, c.Snapshot().ShowLast)
		})
	}
}

func TestIdlePanelPolicy_FutureEntryFallsBackToClock(t *testing.T) {
	c, clock := newTestController(t, 0)
	c.RecordCall(call(5, "A", CallStop, clock.Now().Add(time.Minute)))
	require.True(t, c.DrainAndAdvance())

	assert.Equal(t, PanelClock, c.IdlePanelPolicy())
}

func TestIdlePanelPolicy_ActiveTalkerIsSticky(t *testing.T) {
	c, clock := newTestController(t, 0)
	c.RecordCall(call(5, "A", CallStart, clock.Now()))
	require.True(t, c.DrainAndAdvance())

	clock.Advance(10 * time.Minute)
	assert.Equal(t, PanelTalker, c.IdlePanelPolicy())
}

func TestIdlePanelPolicy_IdleShowsClock(t *testing.T) {
	c, _ := newTestController(t, 0)
	assert.Equal(t, PanelClock, c.IdlePanelPolicy())
}

func TestNextPanel(t *testing.T) {
	c, clock := newTestController(t, 0)
	c.NodeActivity()
	c.SelectTalkgroup(260)
	c.RecordCall(NewCall("SP2AM", 260, "Poland", CallStart, clock.Now()))

	v := c.NextPanel()
	assert.Equal(t, PanelTalker, v.Panel)
	assert.Equal(t, "SP2AM", v.Call.Caller)
	assert.Equal(t, "Poland", v.Call.TalkgroupName)
	assert.Equal(t, 260, v.Talkgroup)
	assert.True(t, v.Connected)
	assert.True(t, v.ShowLast)

	c.RecordCall(NewCall("SP2AM", 260, "Poland", CallStop, clock.Now()))
	clock.Advance(6 * time.Second)
	v = c.NextPanel()
	assert.Equal(t, PanelTalker, v.Panel, "freshly drained call is shown even when old")

	v = c.NextPanel()
	assert.Equal(t, PanelClock, v.Panel)
	assert.False(t, v.ShowLast)
}

func TestShouldBlank(t *testing.T) {
	c, clock := newTestController(t, 30*time.Second)

	clock.Advance(29 * time.Second)
	assert.False(t, c.ShouldBlank())
	clock.Advance(2 * time.Second)
	assert.True(t, c.ShouldBlank())

	c.RecordCall(call(1, "A", CallStop, clock.Now().Add(-time.Hour)))
	assert.False(t, c.ShouldBlank(), "pending calls keep the display on")
}

func TestShouldBlank_NeverDuringCall(t *testing.T) {
	c, clock := newTestController(t, 30*time.Second)
	c.RecordCall(call(1, "A", CallStart, clock.Now()))
	c.DrainAndAdvance()

	clock.Advance(time.Hour)
	assert.False(t, c.ShouldBlank())
}

func TestShouldBlank_DisabledWhenZero(t *testing.T) {
	c, clock := newTestController(t, 0)
	for _, d := range []time.Duration{0, time.Minute, 24 * time.Hour} {
		clock.Advance(d)
		assert.False(t, c.ShouldBlank())
	}
}

func TestContrastLock(t *testing.T) {
	c, clock := newTestController(t, 0)
	require.True(t, c.ContrastLocked())

	clock.Advance(59 * time.Second)
	c.ExpireContrastLock()
	assert.True(t, c.ContrastLocked())

	clock.Advance(2 * time.Second)
	assert.False(t, c.ContrastLocked())
	c.ExpireContrastLock()
	assert.False(t, c.ContrastLocked())

	c.RecordCall(call(1, "A", CallStop, clock.Now()))
	c.DrainAndAdvance()
	assert.True(t, c.ContrastLocked(), "displaying a call locks contrast")
}

func TestProcessGone(t *testing.T) {
	c, clock := newTestController(t, 0)
	c.LinkUp()
	c.RecordCall(call(1, "A", CallStart, clock.Now()))

	clock.Advance(time.Second)
	c.ProcessGone()
	snap := c.Snapshot()
	assert.False(t, snap.Connected)
	assert.Empty(t, snap.Calls)
	stamped := snap.Current.EntryTime

	clock.Advance(time.Minute)
	c.ProcessGone()
	assert.Equal(t, stamped, c.Snapshot().Current.EntryTime, "idle entry time keeps aging")
}

func TestKeepLatestForCurrentTalkgroup(t *testing.T) {
	c, clock := newTestController(t, 0)
	now := clock.Now()
	c.RecordCall(call(5, "A", CallStart, now))
	c.RecordCall(call(6, "B", CallStart, now))
	c.RecordCall(call(5, "C", CallStop, now))
	c.SelectTalkgroup(5)

	c.KeepLatestForCurrentTalkgroup()
	snap := c.Snapshot()
	require.Len(t, snap.Calls, 1)
	assert.Equal(t, "C", snap.Calls[0].Caller)
}

func TestKeepLatestForCurrentTalkgroup_NoSelectionKeepsNothing(t *testing.T) {
	c, clock := newTestController(t, 0)
	c.RecordCall(call(5, "A", CallStart, clock.Now()))

	c.KeepLatestForCurrentTalkgroup()
	assert.Empty(t, c.Snapshot().Calls)
}

func TestNewCall_PanicsOnUnknownState(t *testing.T) {
	assert.Panics(t, func() { NewCall("A", 1, "", CallState("hold"), time.Now()) })
}

func TestParseCallState(t *testing.T) {
	st, err := ParseCallState("start")
	require.NoError(t, err)
	assert.Equal(t, CallStart, st)

	_, err = ParseCallState("STOP")
	assert.Error(t, err)
}
