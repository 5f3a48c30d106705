package app

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/sp2ong/oledsvx/internal/config"
	"github.com/sp2ong/oledsvx/internal/display"
	"github.com/sp2ong/oledsvx/internal/state"
)

type recordingDevice struct {
	frames    []*image1bit.VerticalLSB
	contrasts []uint8
	powers    []bool
	events    []string
}

func (d *recordingDevice) Draw(frame *image1bit.VerticalLSB) error {
	d.frames = append(d.frames, frame)
	d.events = append(d.events, "draw")
	return nil
}

func (d *recordingDevice) SetContrast(level uint8) error {
	d.contrasts = append(d.contrasts, level)
	return nil
}

func (d *recordingDevice) SetPower(on bool) error {
	d.powers = append(d.powers, on)
	if on {
		d.events = append(d.events, "on")
	} else {
		d.events = append(d.events, "off")
	}
	return nil
}

func (d *recordingDevice) Close() error { return nil }

func (d *recordingDevice) lastFrame(t *testing.T) *image1bit.VerticalLSB {
	t.Helper()
	require.NotEmpty(t, d.frames)
	return d.frames[len(d.frames)-1]
}

type fakeSensors struct{}

func (fakeSensors) CPULoad() string      { return " 7%" }
func (fakeSensors) SoCTemp() string      { return "45" }
func (fakeSensors) ExternalTemp() string { return "?" }

type fakeProbe struct{ alive bool }

func (p *fakeProbe) Alive() bool { return p.alive }

type fakeNames map[int]string

func (n fakeNames) Name(tg int) string { return n[tg] }

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type fixture struct {
	r     *renderer
	dev   *recordingDevice
	ctrl  *state.Controller
	clock *fakeClock
	probe *fakeProbe
	addrs int
}

func newFixture(t *testing.T, screensaver time.Duration) *fixture {
	t.Helper()
	v, err := display.VariantFor(config.DriverSH1106)
	require.NoError(t, err)

	f := &fixture{
		dev:   &recordingDevice{},
		clock: &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local)},
		probe: &fakeProbe{alive: true},
	}
	f.ctrl = state.NewController(state.Options{Screensaver: screensaver, Now: f.clock.Now})
	f.r = &renderer{
		screen:  display.NewScreen(f.dev, v.Geometry),
		ctrl:    f.ctrl,
		names:   fakeNames{0: "No active group"},
		sensors: fakeSensors{},
		probe:   f.probe,
		addrs: func() []string {
			f.addrs++
			return []string{"192.168.1.10"}
		},
		now:            f.clock.Now,
		contrastNormal: 128,
		contrastLow:    5,
		interval:       time.Millisecond,
	}
	return f
}

func TestTalkgroupLabel(t *testing.T) {
	f := newFixture(t, 0)
	now := f.clock.Now()

	tests := []struct {
		name string
		snap state.Snapshot
		want string
	}{
		{"idle without group", state.Snapshot{}, "No active group"},
		{"idle on group", state.Snapshot{Talkgroup: 260}, "Active TG: 260"},
		{"talker active", state.Snapshot{
			Talkgroup: 260,
			Current:   state.NewCall("SP2AM", 260, "Poland", state.CallStart, now),
		}, "TG: 260"},
		{"showing last", state.Snapshot{Talkgroup: 91, ShowLast: true}, "TG: 91"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.r.talkgroupLabel(tt.snap))
		})
	}
}

func TestRender_TalkerUsesNormalContrast(t *testing.T) {
	f := newFixture(t, 0)
	f.ctrl.RecordCall(state.NewCall("SP2AM", 260, "Poland", state.CallStart, f.clock.Now()))

	f.r.render()

	assert.Equal(t, []uint8{128}, f.dev.contrasts)
	assert.Equal(t, []bool{true}, f.dev.powers)
	require.Len(t, f.dev.frames, 1)
	assert.Equal(t, "SP2AM", f.ctrl.Snapshot().Current.Caller)
}

func TestRender_ClockDimsOnlyAfterLock(t *testing.T) {
	f := newFixture(t, 0)

	f.r.render()
	assert.Empty(t, f.dev.contrasts, "locked contrast is not dimmed")

	f.clock.Advance(61 * time.Second)
	f.r.render()
	assert.Equal(t, []uint8{5}, f.dev.contrasts)

	f.r.render()
	assert.Equal(t, []uint8{5}, f.dev.contrasts, "unchanged contrast is not rewritten")
}

func TestRender_BlankPowersOff(t *testing.T) {
	f := newFixture(t, 30*time.Second)

	f.r.render()
	f.clock.Advance(31 * time.Second)
	f.r.render()

	assert.Equal(t, []bool{true, false}, f.dev.powers)
	assert.Len(t, f.dev.frames, 1, "blank ticks do not draw")
}

func TestRender_DeadProcessDisconnects(t *testing.T) {
	f := newFixture(t, 0)
	f.ctrl.LinkUp()
	f.probe.alive = false

	f.r.render()

	assert.False(t, f.ctrl.Snapshot().Connected)
}

func TestRender_CallShownOnTickProcessDies(t *testing.T) {
	f := newFixture(t, 0)
	f.ctrl.LinkUp()
	f.ctrl.RecordCall(state.NewCall("SP2AM", 260, "Poland", state.CallStart, f.clock.Now()))
	f.probe.alive = false

	f.r.render()

	assert.Equal(t, []uint8{128}, f.dev.contrasts, "talker panel was drawn")
	snap := f.ctrl.Snapshot()
	assert.False(t, snap.Connected)
	assert.True(t, snap.Current.EntryTime.Equal(f.clock.Now()))
	assert.Empty(t, snap.Current.Caller, "reset after the frame was composed")

	px := image.Pt(107+1, 43)
	assert.False(t, bool(f.dev.lastFrame(t).BitAt(px.X, px.Y)), "no link icon once disconnected")
}

func TestRender_LinkIcon(t *testing.T) {
	// First lit pixel of the antenna icon's top row.
	px := image.Pt(107+1, 43)

	f := newFixture(t, 0)
	f.r.render()
	assert.False(t, bool(f.dev.lastFrame(t).BitAt(px.X, px.Y)))

	f.ctrl.LinkUp()
	f.r.render()
	assert.True(t, bool(f.dev.lastFrame(t).BitAt(px.X, px.Y)))
}

func TestDrawStrip_AlternatesEveryFiveSeconds(t *testing.T) {
	f := newFixture(t, 0)
	f.clock.t = time.Unix(1_700_000_000, 0) // ends in 0: IP half

	f.r.render()
	assert.Equal(t, 1, f.addrs)

	f.clock.Advance(5 * time.Second)
	f.r.render()
	assert.Equal(t, 1, f.addrs, "second half shows the talkgroup")
}

func TestRun_ShutdownSequence(t *testing.T) {
	f := newFixture(t, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stopped := false
	f.r.run(ctx, func() error {
		stopped = true
		return errors.New("already stopped")
	})

	assert.True(t, stopped)
	assert.Equal(t, []string{"on", "draw", "off"}, f.dev.events)
}

func TestRun_WritesNormalContrastAtStartup(t *testing.T) {
	f := newFixture(t, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f.r.run(ctx, func() error { return nil })

	assert.Equal(t, []uint8{128}, f.dev.contrasts)
}

func TestRun_RendersUntilCancelled(t *testing.T) {
	f := newFixture(t, 0)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		f.r.run(ctx, func() error { return nil })
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("render loop did not stop")
	}
	assert.Equal(t, "off", f.dev.events[len(f.dev.events)-1])
}

func TestRun_MissingConfigIsFatal(t *testing.T) {
	err := Run(context.Background(), Options{ConfigPath: t.TempDir() + "/missing.toml"})
	assert.ErrorContains(t, err, "load config")
}
