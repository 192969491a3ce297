package terminal

import (
	"os"
	"strings"
)

// ColorMode indicates terminal color capability
type ColorMode uint8

const (
	ColorMode256       ColorMode = iota // xterm-256 palette
	ColorModeTrueColor                  // 24-bit RGB
)

// String returns the config spelling of the mode
func (m ColorMode) String() string {
	if m == ColorModeTrueColor {
		return "truecolor"
	}
	return "256"
}

// ParseColorMode resolves a config or flag value, "auto" and unknown values fall back to detection
func ParseColorMode(s string) ColorMode {
	switch strings.ToLower(s) {
	case "256":
		return ColorMode256
	case "truecolor", "true", "24bit":
		return ColorModeTrueColor
	default:
		return DetectColorMode()
	}
}

// RGB represents a 24-bit color
type RGB struct {
	R, G, B uint8
}

// RGBBlack is the zero value black color
var RGBBlack = RGB{0, 0, 0}

// Color cube values for 6x6x6 palette (indices 16-231)
var cubeValues = [6]uint8{0, 95, 135, 175, 215, 255}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// cubeIndex returns the nearest cube level 0-5 for a channel value
func cubeIndex(v uint8) uint8 {
	best := 0
	bestDist := abs(int(v) - int(cubeValues[0]))
	for j := 1; j < len(cubeValues); j++ {
		if d := abs(int(v) - int(cubeValues[j])); d < bestDist {
			bestDist = d
			best = j
		}
	}
	return uint8(best)
}

// RGBTo256 converts RGB to nearest 256-color palette index
// Grayscale ramp 232-255 is preferred when it is a closer match than the cube
func RGBTo256(c RGB) uint8 {
	r, g, b := int(c.R), int(c.G), int(c.B)
	cr, cg, cb := cubeIndex(c.R), cubeIndex(c.G), cubeIndex(c.B)

	gray := (r + g + b) / 3
	if max(abs(r-gray), abs(g-gray), abs(b-gray)) < 10 {
		if gray < 4 {
			return 16
		}
		if gray > 243 {
			return 231
		}
		grayIdx := 232 + (gray-8)/10
		if grayIdx > 255 {
			grayIdx = 255
		}
		level := 8 + (grayIdx-232)*10
		grayDist := abs(r-level) + abs(g-level) + abs(b-level)
		cubeDist := abs(r-int(cubeValues[cr])) + abs(g-int(cubeValues[cg])) + abs(b-int(cubeValues[cb]))
		if grayDist < cubeDist {
			return uint8(grayIdx)
		}
	}

	return 16 + 36*cr + 6*cg + cb
}

// DetectColorMode determines terminal color capability from environment
func DetectColorMode() ColorMode {
	colorterm := os.Getenv("COLORTERM")
	if colorterm == "truecolor" || colorterm == "24bit" {
		return ColorModeTrueColor
	}

	for _, env := range []string{
		"KITTY_WINDOW_ID",
		"KONSOLE_VERSION",
		"ITERM_SESSION_ID",
		"ALACRITTY_WINDOW_ID",
		"WEZTERM_PANE",
	} {
		if os.Getenv(env) != "" {
			return ColorModeTrueColor
		}
	}

	term := strings.ToLower(os.Getenv("TERM"))
	if strings.Contains(term, "truecolor") ||
		strings.Contains(term, "24bit") ||
		strings.Contains(term, "direct") {
		return ColorModeTrueColor
	}

	return ColorMode256
}
