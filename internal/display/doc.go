// Package display drives the 128x64 monochrome OLED panel.
//
// # Overview
//
// Three layers keep the hardware out of the render loop:
//
//   - Device: a chip transport that accepts 1-bit frames (periph ssd1306 for
//     SSD1306 and SSD1309, a page-mode writer for SH1106)
//   - Canvas: an image1bit frame with text and icon primitives
//   - Screen: commits canvases and caches contrast and power writes
//
// # Layout
//
//	y=0   ┌───────────────────────────────┐ sensor row (icons + values)
//	y=16  │ IP address / talkgroup strip  │
//	y=30  ├───────────────────────────────┤
//	      │ talker or clock panel    [ant]│
//	y=63  └───────────────────────────────┘
//
// # Fonts
//
// Text uses the Go Regular face rasterized at 11, 12, 14 and 20 px. Faces are
// parsed once per process.
//
// # Testing
//
// Any Device implementation can be passed to NewScreen, which is how the
// terminal preview and the tests observe frames without I²C hardware.
package display
