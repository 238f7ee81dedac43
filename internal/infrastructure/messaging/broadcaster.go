// Package messaging provides the concrete change-notification broadcaster.
package messaging

import (
	"sync"

	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/observability/logging"
)

// ChangeBroadcaster fans out store change notifications to all subscribers.
type ChangeBroadcaster struct {
	subscribers map[int]chan Notification
	nextID      int
	mu          sync.Mutex
	logger      *logging.ChanneledLogger
}

// NewChangeBroadcaster creates a broadcaster with no subscribers.
func NewChangeBroadcaster(logger *logging.ChanneledLogger) *ChangeBroadcaster {
	return &ChangeBroadcaster{
		subscribers: make(map[int]chan Notification),
		logger:      logger,
	}
}

// Subscribe registers a new subscriber and returns its channel together
// with a cancel func that must be called on teardown.
func (b *ChangeBroadcaster) Subscribe() (<-chan Notification, func()) {
	ch := make(chan Notification, 16)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subscribers[id] = ch
	b.mu.Unlock()

	if b.logger != nil {
		b.logger.Stream().Debug("Change subscriber registered", "id", id)
	}

	cancel := func() {
		b.mu.Lock()
		if existing, ok := b.subscribers[id]; ok {
			delete(b.subscribers, id)
			close(existing)
		}
		b.mu.Unlock()

		if b.logger != nil {
			b.logger.Stream().Debug("Change subscriber unregistered", "id", id)
		}
	}

	return ch, cancel
}

// Publish delivers the notification to every subscriber without blocking
// the appending caller. Slow subscribers with a full channel miss the
// notification.
func (b *ChangeBroadcaster) Publish(n Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subscribers {
		select {
		case ch <- n:
		default:
			if b.logger != nil {
				b.logger.Stream().Warn("Subscriber channel full, notification dropped", "id", id, "kind", n.Kind)
			}
		}
	}
}

// SubscriberCount returns the number of active subscribers.
func (b *ChangeBroadcaster) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}
