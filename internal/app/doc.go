// Package app is the composition root of the oledsvx daemon.
//
// # Overview
//
// Run loads the configuration, opens the display (or the terminal preview),
// starts the SvxLink log tailer and drives the render loop until the context
// is cancelled. Domain logic lives in the state, logtail and display
// packages; this package only wires them together and decides what each
// frame contains.
//
// # Components
//
//   - app.go: Run and display selection
//   - compose.go: frame composition (sensor row, strip, panel, link icon)
//   - loop.go: the 500 ms render cadence and the shutdown sequence
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()          Read /etc/oledsvx/oledsvx.toml
//	       ├─────> display.Open()         I²C panel, or preview.Start()
//	       ├─────> state.NewController()  Shared display state
//	       ├─────> logtail.Tailer.Start() Backfill, then fsnotify watch
//	       └─────> renderer.run()         Render loop (blocks)
//
//	Render tick (every 500 ms):
//	┌─────────────────────────────────────────┐
//	│  ├─> ShouldBlank()  → power off, skip   │
//	│  ├─> IP / talkgroup strip               │
//	│  ├─> CPU and temperature row            │
//	│  ├─> liveness probe, NextPanel()        │
//	│  ├─> talker or clock, link icon         │
//	│  ├─> ExpireContrastLock()               │
//	│  └─> Commit()                           │
//	└─────────────────────────────────────────┘
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Configuration file missing or invalid
//   - Unsupported driver or I²C bus that cannot be opened
//   - SvxLink log that cannot be opened at startup
//
// Recoverable errors (logged, the next tick retries):
//   - Display writes, contrast and power commands
//   - Sensor reads (rendered as "?")
//   - Log reopen and read failures inside the tailer
//
// # Shutdown
//
// When the context is cancelled the loop stops the tailer, shows "Shutdown"
// for two seconds and powers the panel off. Run also defers the tailer stop
// so early returns release the watch and the file handle.
package app
