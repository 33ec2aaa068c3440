package events

import (
	"testing"

	"github.com/nicolebling/CupCircle-sub000/internal/models"
)

func TestBusDeliversToAllSubscribers(t *testing.T) {
	bus := NewBus()
	first, cancelFirst := bus.Subscribe(1)
	second, cancelSecond := bus.Subscribe(1)
	defer cancelFirst()
	defer cancelSecond()

	bus.Publish(Event{Type: TypeMatchCreated, Match: models.Match{ID: "m1"}})

	for _, ch := range []<-chan Event{first, second} {
		select {
		case event := <-ch:
			if event.Type != TypeMatchCreated || event.Match.ID != "m1" {
				t.Fatalf("unexpected event: %+v", event)
			}
		default:
			t.Fatal("expected buffered event")
		}
	}
}

func TestBusDropsWhenSubscriberFull(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe(1)
	defer cancel()

	bus.Publish(Event{Type: TypeMatchCreated, Match: models.Match{ID: "m1"}})
	bus.Publish(Event{Type: TypeMatchUpdated, Match: models.Match{ID: "m2"}})

	event := <-ch
	if event.Match.ID != "m1" {
		t.Fatalf("expected first event kept, got %+v", event)
	}
	select {
	case extra := <-ch:
		t.Fatalf("expected second event dropped, got %+v", extra)
	default:
	}
}

func TestBusCancelStopsDelivery(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe(1)
	cancel()

	// Publishing after cancel must not panic on the closed channel.
	bus.Publish(Event{Type: TypeMatchCreated})

	if _, open := <-ch; open {
		t.Fatal("expected channel closed after cancel")
	}
}

func TestBusCancelIsIdempotent(t *testing.T) {
	bus := NewBus()
	_, cancel := bus.Subscribe(1)
	cancel()
	cancel()
}
