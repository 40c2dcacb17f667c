package tuitest

import "fmt"

// Key sequences as a terminal sends them.
var (
	KeyEnter      = []byte{'\r'}
	KeyTab        = []byte{'\t'}
	KeyShiftTab   = []byte("\x1b[Z")
	KeyEsc        = []byte{27}
	KeyCtrlC      = []byte{3}
	KeyCtrlR      = []byte{18}
	KeyArrowUp    = []byte("\x1b[A")
	KeyArrowDown  = []byte("\x1b[B")
	KeyArrowLeft  = []byte("\x1b[D")
	KeyArrowRight = []byte("\x1b[C")
)

// LeftClick encodes a press and release of the left button at the zero-based
// cell x, y in SGR mouse mode.
func LeftClick(x, y int) []byte {
	return []byte(fmt.Sprintf("\x1b[<0;%d;%dM\x1b[<0;%d;%dm", x+1, y+1, x+1, y+1))
}
