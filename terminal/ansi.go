package terminal

// Session and recovery sequences; cell output sequences live with the direct sink
var (
	csiSGR0 = []byte("\x1b[0m")
	csiRIS  = []byte("\x1bc") // Reset to Initial State (emergency)

	csiCursorShow = []byte("\x1b[?25h")
	csiClear      = []byte("\x1b[2J\x1b[H")

	csiAltScreenEnter = []byte("\x1b[?1049h")
	csiAltScreenExit  = []byte("\x1b[?1049l")
	// DECAWM: Auto-Wrap Mode
	// ?7l disables wrapping (cursor sticks at right edge), preventing scroll when writing to bottom-right corner
	csiAutoWrapOn  = []byte("\x1b[?7h")
	csiAutoWrapOff = []byte("\x1b[?7l")

	// Mouse reporting: click (1000), drag (1002), motion (1003), SGR extended coordinates (1006)
	csiMouseClickOn   = []byte("\x1b[?1000h")
	csiMouseClickOff  = []byte("\x1b[?1000l")
	csiMouseDragOn    = []byte("\x1b[?1002h")
	csiMouseDragOff   = []byte("\x1b[?1002l")
	csiMouseMotionOff = []byte("\x1b[?1003l")
	csiMouseSGROn     = []byte("\x1b[?1006h")
	csiMouseSGROff    = []byte("\x1b[?1006l")
)
