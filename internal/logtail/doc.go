// Package logtail follows the SvxLink log and turns it into display state
// transitions.
//
// # Overview
//
// The Tailer owns the open log file and a partial-line buffer. Every change
// notification reads what was appended, splits off complete lines and runs
// each one through Classify. Recognized events are applied to a Sink,
// normally *state.Controller.
//
// # Event Grammar
//
// Every line starts with "YYYY-MM-DD HH:MM:SS[.mmm]: ". A missing fraction is
// read as .000. Rules are tried in this order and the first match wins:
//
//	LogicStart    Starting logic:
//	Talker        ReflectorLogic: Talker start|stop on TG #N: CALLER
//	TgSelected    ReflectorLogic: Selecting TG #N
//	NodeActivity  ReflectorLogic: Node joined|left
//	LinkUp        ReflectorLogic: Connection established
//	LinkDown      ReflectorLogic: Disconnected from
//	LinkDown      ... Shutting down application
//
// Anything else is ignored.
//
// # Startup Backfill
//
// Start seeks to the last BackfillBytes of the file before the first pass so
// startup cost does not depend on how large the log has grown. Afterwards
// only the newest talker event of the selected talkgroup is kept queued.
//
// # Rotation
//
// The containing directory is watched with fsnotify and events are filtered
// to the exact log path:
//
//   - Write: read the new bytes
//   - Create: reopen at offset 0 (logrotate create, or a rename onto the path)
//   - a file that shrank below the read offset is reopened at offset 0
//     (copytruncate)
//
// A failed open is logged and retried on the next notification. Only the
// initial open in Start is fatal.
package logtail
