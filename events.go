package formflow

import (
	"sync"

	"github.com/aretw0/formflow/pkg/domain"
)

// broadcaster fans route changes out to subscribers.
// A subscriber whose buffer is full misses the event.
type broadcaster struct {
	mu          sync.RWMutex
	subscribers map[chan domain.RouteEvent]struct{}
	closed      bool
	dropped     func(domain.RouteEvent)
}

func newBroadcaster() *broadcaster {
	return &broadcaster{
		subscribers: make(map[chan domain.RouteEvent]struct{}),
	}
}

func (b *broadcaster) subscribe(buffer int) (<-chan domain.RouteEvent, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan domain.RouteEvent, buffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	b.subscribers[ch] = struct{}{}

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subscribers[ch]; ok {
			delete(b.subscribers, ch)
			close(ch)
		}
	}
}

func (b *broadcaster) publish(evt domain.RouteEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subscribers {
		select {
		case ch <- evt:
		default:
			// Drop event if channel is full (slow subscriber)
			if b.dropped != nil {
				b.dropped(evt)
			}
		}
	}
}

func (b *broadcaster) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subscribers {
		delete(b.subscribers, ch)
		close(ch)
	}
}
