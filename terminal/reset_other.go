//go:build !linux

package terminal

// resetTerminalMode is a no-op where TCGETS is unavailable
func resetTerminalMode() {}
