package performance

import (
	"fmt"
	"sync"
	"time"
)

// Tracker manages performance markers with bounded retention.
type Tracker struct {
	markers    map[string]*Marker
	maxMarkers int
	counter    uint64
	mu         sync.RWMutex
	started    time.Time
}

// NewTracker creates a performance tracker.
func NewTracker() *Tracker {
	return &Tracker{
		markers:    make(map[string]*Marker),
		maxMarkers: 1000,
		started:    time.Now(),
	}
}

// StartOperation creates and registers a marker for an operation.
func (t *Tracker) StartOperation(operation string) *Marker {
	t.mu.Lock()
	defer t.mu.Unlock()

	marker := &Marker{
		Operation: operation,
		StartTime: time.Now(),
	}

	t.counter++
	id := fmt.Sprintf("%s-%d", operation, t.counter)

	if len(t.markers) >= t.maxMarkers {
		// Shed the oldest completed marker to stay bounded.
		var oldestID string
		var oldestTime time.Time
		for mid, m := range t.markers {
			if m.Completed && (oldestID == "" || m.StartTime.Before(oldestTime)) {
				oldestID = mid
				oldestTime = m.StartTime
			}
		}
		if oldestID != "" {
			delete(t.markers, oldestID)
		}
	}

	t.markers[id] = marker
	return marker
}

// CompletedCount returns the number of completed markers retained.
func (t *Tracker) CompletedCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	count := 0
	for _, m := range t.markers {
		if m.Completed {
			count++
		}
	}
	return count
}

// Uptime returns the time since the tracker was created.
func (t *Tracker) Uptime() time.Duration {
	return time.Since(t.started)
}
