// Package state holds the display state machine shared by the log tailer and
// the render loop.
//
// # Overview
//
// Two goroutines touch the same state: the tailer applies classified log
// events as the file grows, and the render loop drains them on a fixed tick.
// Controller serializes both behind a single mutex. Every exported method
// takes the lock exactly once, and NextPanel combines the drain with the idle
// policy so a frame is never composed from half-applied events.
//
//	Producer (tailer):              Consumer (render loop):
//	┌──────────────────┐           ┌──────────────────────┐
//	│ RecordCall()     │           │ ShouldBlank()        │
//	│ SelectTalkgroup()│──(mutex)─→│ NextPanel()          │
//	│ LinkUp/LinkDown()│           │ ContrastLocked()     │
//	└──────────────────┘           └──────────────────────┘
//
// # State
//
//   - Call queue: talker events in arrival order, drained once per tick
//   - Current call: the last displayed call, or an idle sentinel on tg 0
//   - Current talkgroup: set by "Selecting TG" lines, 0 when none
//   - Connected: reflector link flag, drives the antenna icon
//   - Show-last: keeps a finished call on screen for ShowLastWindow
//   - Contrast lock: suppresses dimming for ContrastLockDuration after activity
//
// # Resets
//
// LinkUp, LinkDown and LogicStart restore the idle state: empty queue, idle
// current call stamped with the current time, talkgroup 0, show-last off.
// NodeActivity only sets the connected flag.
//
// # Testing
//
// Options.Now injects the clock so the 5 second and screensaver boundaries
// can be checked exactly.
package state
