package input

type Event int

const (
	None Event = iota
	Quit
	SpeedUp
	SpeedDown
)

func (e Event) String() string {
	switch e {
	case None:
		return "none"
	case Quit:
		return "quit"
	case SpeedUp:
		return "speed-up"
	case SpeedDown:
		return "speed-down"
	default:
		return "unknown"
	}
}

const (
	esc        = 27
	csi        = '['
	cursorUp   = 'A'
	cursorDown = 'B'
)
