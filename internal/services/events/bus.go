package events

import (
	"github.com/kelindar/event"
)

// Bus wraps kelindar/event dispatcher for event broadcasting
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish publishes an event to all subscribers. A nil bus drops it.
func (b *Bus) Publish(ev Event) {
	if b == nil {
		return
	}
	switch e := ev.(type) {
	case PatternStartedEvent:
		event.Publish(b.dispatcher, e)
	case PatternStoppedEvent:
		event.Publish(b.dispatcher, e)
	case SpeedChangedEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe registers handler by its argument type and returns the
// unsubscribe func. Unknown handler types get a no-op.
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(PatternStartedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(PatternStoppedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(SpeedChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}
