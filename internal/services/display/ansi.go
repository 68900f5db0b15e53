package display

import (
	"fmt"
)

const (
	Bell = "\a"

	ClearScreen = "\u001b[2J"  // clears entire screen
	ClearLine   = "\u001b[2K"  // clears entire line
	SetColumn   = "\u001b[%dG" // moves cursor to column n
	Home        = "\u001b[H"

	// Show / Hide cursor
	Show = "\u001b[?25h"
	Hide = "\u001b[?25l"
)

func (t *Terminal) Printf(format string, a ...interface{}) {
	_, _ = fmt.Fprintf(t.out, format, a...)
}

func (t *Terminal) Bell() {
	t.Printf(Bell)
}
func (t *Terminal) Cll() {
	t.Printf(ClearLine)
	t.Printf(SetColumn, 1)
}
func (t *Terminal) Cls() {
	t.Printf(ClearScreen)
	t.Printf(Home)
}
func (t *Terminal) HideCursor() {
	t.Printf(Hide)
}
func (t *Terminal) ShowCursor() {
	t.Printf(Show)
}
