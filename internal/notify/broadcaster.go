package notify

import (
	"sync"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-table/internal/entity"
)

type EventType string

const (
	EventState  EventType = "game:state"
	EventResult EventType = "game:result"
)

// Event is what the rendering side receives after the table changed.
type Event struct {
	Type    EventType   `json:"type"`
	Game    entity.Game `json:"game"`
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
}

// Broadcaster fans events out to subscribers.
type Broadcaster struct {
	mu     sync.Mutex
	buffer int
	subs   map[string]chan Event
}

func NewBroadcaster(buffer int) *Broadcaster {
	if buffer <= 0 {
		buffer = 1
	}

	return &Broadcaster{
		buffer: buffer,
		subs:   make(map[string]chan Event),
	}
}

// Subscribe - registers a subscriber and returns its id and event channel.
func (that *Broadcaster) Subscribe() (string, <-chan Event) {
	id := uuid.NewString()
	ch := make(chan Event, that.buffer)

	that.mu.Lock()
	that.subs[id] = ch
	that.mu.Unlock()

	return id, ch
}

// Unsubscribe - removes the subscriber and closes its channel.
func (that *Broadcaster) Unsubscribe(id string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if ch, ok := that.subs[id]; ok {
		delete(that.subs, id)
		close(ch)
	}
}

// Publish - delivers the event to every subscriber. A full buffer drops state events, since the next
// state carries the whole game. Result events are one-shot alerts, so they evict the oldest queued event instead.
func (that *Broadcaster) Publish(event Event) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for _, ch := range that.subs {
		select {
		case ch <- event:
			continue
		default:
		}

		if event.Type != EventResult {
			continue
		}

		select {
		case <-ch:
		default:
		}

		// Publish is the only sender and holds the lock, so the slot freed above is still free.
		ch <- event
	}
}

func (that *Broadcaster) Subscribers() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.subs)
}
