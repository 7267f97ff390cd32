package events

import (
	"sync"
	"testing"
)

func TestBus_SubscribeAll(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	var received []Event
	bus.Subscribe(func(e Event) {
		received = append(received, e)
	})

	bus.Publish(NewRoundStartedEvent("s-1", 1))
	bus.Publish(NewDebateErrorEvent("s-1", "boom"))

	if len(received) != 2 {
		t.Fatalf("received %d events, want 2", len(received))
	}
	if received[0].EventType() != TypeRoundStarted {
		t.Errorf("first event = %s, want %s", received[0].EventType(), TypeRoundStarted)
	}
	if received[0].SessionID() != "s-1" {
		t.Errorf("SessionID = %s, want s-1", received[0].SessionID())
	}
}

func TestBus_TypeFilter(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	var rounds int
	bus.Subscribe(func(Event) { rounds++ }, TypeRoundStarted)

	bus.Publish(NewRoundStartedEvent("s-1", 1))
	bus.Publish(NewSynthesisStartedEvent("s-1", 1))
	bus.Publish(NewRoundStartedEvent("s-1", 2))

	if rounds != 2 {
		t.Errorf("filtered handler got %d events, want 2", rounds)
	}
}

func TestBus_SynchronousDelivery(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	delivered := false
	bus.Subscribe(func(Event) { delivered = true })

	bus.Publish(NewRoundStartedEvent("s-1", 1))

	// Publish returns only after every handler ran.
	if !delivered {
		t.Error("handler did not run before Publish returned")
	}
}

func TestBus_PanicIsolation(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	var survived int
	bus.Subscribe(func(Event) { panic("subscriber bug") })
	bus.Subscribe(func(Event) { survived++ })

	bus.Publish(NewRoundStartedEvent("s-1", 1))
	bus.Publish(NewRoundStartedEvent("s-1", 2))

	if survived != 2 {
		t.Errorf("surviving handler got %d events, want 2", survived)
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	var count int
	unsubscribe := bus.Subscribe(func(Event) { count++ })

	bus.Publish(NewRoundStartedEvent("s-1", 1))
	unsubscribe()
	bus.Publish(NewRoundStartedEvent("s-1", 2))

	if count != 1 {
		t.Errorf("handler got %d events after unsubscribe, want 1", count)
	}
}

func TestBus_PublishAfterClose(t *testing.T) {
	bus := NewBus()

	var count int
	bus.Subscribe(func(Event) { count++ })
	bus.Close()

	bus.Publish(NewRoundStartedEvent("s-1", 1))
	if count != 0 {
		t.Errorf("handler ran after Close, count = %d", count)
	}
}

func TestBus_ConcurrentPublish(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	var mu sync.Mutex
	var count int
	bus.Subscribe(func(Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(round int) {
			defer wg.Done()
			bus.Publish(NewRoundStartedEvent("s-1", round))
		}(i)
	}
	wg.Wait()

	if count != 10 {
		t.Errorf("handler got %d events, want 10", count)
	}
}
