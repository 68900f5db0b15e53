package display

// Halter blanks the indicators and keeps them blank.
type Halter interface {
	Halt()
}

// Emergency is registered once per session and fired from the interrupt path.
// It restores the tty and halts the renderer. Firing it more than once is harmless.
type Emergency struct {
	terminal *Terminal
	halter   Halter
}

func NewEmergency(terminal *Terminal, halter Halter) *Emergency {
	return &Emergency{
		terminal: terminal,
		halter:   halter,
	}
}

func (e *Emergency) Fire() {
	if e.halter != nil {
		e.halter.Halt()
	}
	if e.terminal != nil {
		e.terminal.Restore()
	}
}
