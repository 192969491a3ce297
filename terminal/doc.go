// Package terminal holds the cell model shared by every sink and the process-level
// terminal lifecycle around a render loop.
//
// Features:
//   - Cell, RGB and Attr value types, 256-color quantization
//   - Device: raw mode and window size for a controlling tty
//   - Session: alternate screen, auto-wrap and mouse capture enter/leave
//   - EmergencyReset for panic paths
//
// This package bypasses terminfo/termcap entirely, emitting direct ANSI sequences.
// Target environments: Linux, macOS, BSDs with xterm-compatible terminals.
package terminal
