//go:build unix

package terminal

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// windowSize returns the terminal size for a given fd
func windowSize(fd int) (int, int, error) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, fmt.Errorf("winsize: %w", err)
	}
	return int(ws.Col), int(ws.Row), nil
}
