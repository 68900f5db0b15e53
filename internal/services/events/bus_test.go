package events

import (
	"testing"
	"time"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := New()
	started := make(chan PatternStartedEvent, 1)
	stopped := make(chan PatternStoppedEvent, 1)

	unsub1 := bus.Subscribe(func(e PatternStartedEvent) { started <- e })
	defer unsub1()
	unsub2 := bus.Subscribe(func(e PatternStoppedEvent) { stopped <- e })
	defer unsub2()

	bus.Publish(PatternStartedEvent{Pattern: "danza", Channel: "local", Delay: 500})
	bus.Publish(PatternStoppedEvent{Pattern: "danza", Cancelled: true, Delay: 450})

	if got := <-started; got.Pattern != "danza" || got.Delay != 500 {
		t.Errorf("started = %+v", got)
	}
	if got := <-stopped; !got.Cancelled || got.Delay != 450 {
		t.Errorf("stopped = %+v", got)
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := New()
	received := make(chan SpeedChangedEvent, 1)

	unsub := bus.Subscribe(func(e SpeedChangedEvent) { received <- e })
	bus.Publish(SpeedChangedEvent{From: 500, To: 450})
	<-received

	unsub()
	bus.Publish(SpeedChangedEvent{From: 450, To: 400})
	select {
	case <-received:
		t.Fatal("received event after unsubscribe")
	case <-time.After(10 * time.Millisecond):
	}
}

func TestBus_NilAndUnknown(t *testing.T) {
	var bus *Bus
	bus.Publish(SpeedChangedEvent{})

	b := New()
	unsub := b.Subscribe(func(string) {})
	unsub()
}
