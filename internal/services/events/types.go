package events

// Event type constants for kelindar/event.
const (
	TypePatternStarted uint32 = iota + 1
	TypePatternStopped
	TypeSpeedChanged
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// PatternStartedEvent is published once a pattern owns the bank.
type PatternStartedEvent struct {
	Pattern string
	Channel string
	Delay   int
}

func (e PatternStartedEvent) Type() uint32 { return TypePatternStarted }

// PatternStoppedEvent carries the delay the run ended at. Cancelled is false
// when a finite pattern ran to completion.
type PatternStoppedEvent struct {
	Pattern   string
	Cancelled bool
	Delay     int
}

func (e PatternStoppedEvent) Type() uint32 { return TypePatternStopped }

// SpeedChangedEvent is published for every accepted speed key.
type SpeedChangedEvent struct {
	From int
	To   int
}

func (e SpeedChangedEvent) Type() uint32 { return TypeSpeedChanged }
