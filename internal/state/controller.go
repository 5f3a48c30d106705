package state

import (
	"sync"
	"time"
)

const (
	// ShowLastWindow is how long the last caller stays on screen after the
	// call ended.
	ShowLastWindow = 5 * time.Second
	// ContrastLockDuration suppresses dimming after activity.
	ContrastLockDuration = time.Minute
)

// Panel selects what the main area of the display shows.
type Panel int

const (
	PanelClock Panel = iota
	PanelTalker
)

func (p Panel) String() string {
	if p == PanelTalker {
		return "talker"
	}
	return "clock"
}

// View is everything the render loop needs to draw one frame.
type View struct {
	Panel     Panel
	Call      Call
	Talkgroup int
	Connected bool
	ShowLast  bool
}

// Snapshot is a copy of the controller state.
type Snapshot struct {
	Calls     []Call
	Current   Call
	Talkgroup int
	Connected bool
	ShowLast  bool
}

// Options configure a Controller.
type Options struct {
	// Screensaver blanks the display after this much idle time. Zero disables it.
	Screensaver time.Duration
	// Now overrides the clock; nil uses time.Now.
	Now func() time.Time
}

// Controller owns the display state shared by the log tailer and the render
// loop. All methods are safe for concurrent use.
type Controller struct {
	mu          sync.Mutex
	now         func() time.Time
	screensaver time.Duration

	calls        []Call
	current      Call
	talkgroup    int
	connected    bool
	showLast     bool
	contrastLock time.Time
}

// NewController returns a controller in the idle state with the contrast
// locked, so the display starts at normal brightness.
func NewController(opts Options) *Controller {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	c := &Controller{now: now, screensaver: opts.Screensaver}
	c.resetCalls()
	c.contrastLock = now()
	return c
}

func (c *Controller) resetCalls() {
	c.calls = nil
	c.current = idleCall(c.now())
	c.talkgroup = 0
	c.showLast = false
}

// RecordCall queues a talker event.
func (c *Controller) RecordCall(call Call) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, call)
}

// SelectTalkgroup sets the active talkgroup.
func (c *Controller) SelectTalkgroup(tg int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.talkgroup = tg
}

// NodeActivity marks the reflector as connected and leaves the queue alone.
func (c *Controller) NodeActivity() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = true
}

// LinkUp marks the reflector as connected and resets to the idle state.
func (c *Controller) LinkUp() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = true
	c.resetCalls()
}

// LinkDown marks the reflector as disconnected and resets to the idle state.
// Shutdown lines share this transition.
func (c *Controller) LinkDown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	c.resetCalls()
}

// LogicStart resets to the idle state without touching connectivity.
func (c *Controller) LogicStart() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetCalls()
}

// ProcessGone forces the disconnected state after a failed liveness probe.
// Once the controller is already disconnected and idle it is a no-op, so the
// idle entry time keeps aging and the screensaver can engage.
func (c *Controller) ProcessGone() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected && len(c.calls) == 0 && c.talkgroup == 0 && !c.showLast && c.current.isIdle() {
		return
	}
	c.connected = false
	c.resetCalls()
}

// KeepLatestForCurrentTalkgroup trims the queue after the startup backfill to
// the last call on the active talkgroup. With no such call (including when no
// talkgroup is selected) the queue is emptied.
func (c *Controller) KeepLatestForCurrentTalkgroup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var last *Call
	for i := range c.calls {
		if c.calls[i].Talkgroup == c.talkgroup {
			last = &c.calls[i]
		}
	}
	if last == nil {
		c.calls = nil
		return
	}
	c.calls = []Call{*last}
}

// DrainAndAdvance consumes the queue in arrival order. Calls on the active
// talkgroup (or any talkgroup when none is selected) become the current call;
// the rest are dropped. It reports whether any call was taken.
func (c *Controller) DrainAndAdvance() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.drain()
}

func (c *Controller) drain() bool {
	shown := false
	for _, call := range c.calls {
		if c.talkgroup != 0 && call.Talkgroup != c.talkgroup {
			continue
		}
		c.current = call
		c.showLast = true
		c.contrastLock = c.now()
		shown = true
	}
	c.calls = nil
	return shown
}

// IdlePanelPolicy picks the panel for a tick in which nothing new was drained.
func (c *Controller) IdlePanelPolicy() Panel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.idlePanel()
}

func (c *Controller) idlePanel() Panel {
	if c.current.State == CallStart {
		return PanelTalker
	}
	if c.showLast {
		elapsed := c.now().Sub(c.current.EntryTime)
		if elapsed >= 0 && elapsed <= ShowLastWindow {
			return PanelTalker
		}
		c.showLast = false
	}
	return PanelClock
}

// NextPanel drains the queue and applies the idle policy atomically.
func (c *Controller) NextPanel() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	panel := PanelTalker
	if !c.drain() {
		panel = c.idlePanel()
	}
	return View{
		Panel:     panel,
		Call:      c.current,
		Talkgroup: c.talkgroup,
		Connected: c.connected,
		ShowLast:  c.showLast,
	}
}

// ShouldBlank reports whether the screensaver should turn the display off.
// It never blanks with calls pending or while a talker is active.
func (c *Controller) ShouldBlank() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.screensaver <= 0 || len(c.calls) > 0 || c.current.State == CallStart {
		return false
	}
	return c.now().Sub(c.current.EntryTime) > c.screensaver
}

// ContrastLocked reports whether dimming is currently suppressed.
func (c *Controller) ContrastLocked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.contrastLock.IsZero() && c.now().Sub(c.contrastLock) <= ContrastLockDuration
}

// LockContrast suppresses dimming for ContrastLockDuration from now.
func (c *Controller) LockContrast() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.contrastLock = c.now()
}

// ExpireContrastLock clears a lock older than ContrastLockDuration.
func (c *Controller) ExpireContrastLock() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.contrastLock.IsZero() && c.now().Sub(c.contrastLock) > ContrastLockDuration {
		c.contrastLock = time.Time{}
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	var calls []Call
	if len(c.calls) > 0 {
		calls = make([]Call, len(c.calls))
		copy(calls, c.calls)
	}
	return Snapshot{
		Calls:     calls,
		Current:   c.current,
		Talkgroup: c.talkgroup,
		Connected: c.connected,
		ShowLast:  c.showLast,
	}
}
