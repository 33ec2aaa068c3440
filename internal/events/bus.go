// Package events is the explicit cross-component notification channel:
// services publish match lifecycle events, and consumers (the realtime
// hub, today) subscribe. It replaces ad hoc global flags with an injected
// dependency.
package events

import (
	"sync"

	"github.com/nicolebling/CupCircle-sub000/internal/models"
)

const (
	TypeMatchCreated = "match.created"
	TypeMatchUpdated = "match.updated"
)

type Event struct {
	Type  string       `json:"type"`
	Match models.Match `json:"match"`

	// Recipients are the user IDs this event concerns; delivery layers
	// fan out to them only.
	Recipients []string `json:"-"`
}

type Bus struct {
	mu          sync.RWMutex
	subscribers map[int]chan Event
	nextID      int
}

func NewBus() *Bus {
	return &Bus{subscribers: make(map[int]chan Event)}
}

// Subscribe registers a buffered subscription. The returned cancel func
// removes it and closes the channel.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	ch := make(chan Event, buffer)
	b.subscribers[id] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if ch, ok := b.subscribers[id]; ok {
			delete(b.subscribers, id)
			close(ch)
		}
	}
	return ch, cancel
}

// Publish never blocks; a subscriber that cannot keep up misses the event.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}
