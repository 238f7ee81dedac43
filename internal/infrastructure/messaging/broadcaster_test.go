package messaging

import (
	"testing"
	"time"

	"github.com/JdarlingGT/portoJD-fresh/internal/domain/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeBroadcaster_PublishReachesAllSubscribers(t *testing.T) {
	b := NewChangeBroadcaster(nil)

	ch1, cancel1 := b.Subscribe()
	defer cancel1()
	ch2, cancel2 := b.Subscribe()
	defer cancel2()

	assert.Equal(t, 2, b.SubscriberCount())

	event := &telemetry.Event{Type: telemetry.EventChatMessage, TS: 1}
	b.Publish(Notification{Kind: ChangeAppend, Event: event})

	for _, ch := range []<-chan Notification{ch1, ch2} {
		select {
		case n := <-ch:
			assert.Equal(t, ChangeAppend, n.Kind)
			require.NotNil(t, n.Event)
			assert.Equal(t, telemetry.EventChatMessage, n.Event.Type)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive the notification")
		}
	}
}

func TestChangeBroadcaster_CancelStopsDelivery(t *testing.T) {
	b := NewChangeBroadcaster(nil)

	ch, cancel := b.Subscribe()
	cancel()
	assert.Equal(t, 0, b.SubscriberCount())

	// The channel is closed on cancel.
	_, open := <-ch
	assert.False(t, open)

	// Cancel is idempotent.
	cancel()

	b.Publish(Notification{Kind: ChangeClear})
}

func TestChangeBroadcaster_SlowSubscriberNeverBlocksPublish(t *testing.T) {
	b := NewChangeBroadcaster(nil)

	_, cancel := b.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		// Overfill the buffered channel; the excess is dropped.
		for i := 0; i < 100; i++ {
			b.Publish(Notification{Kind: ChangeAppend, Event: &telemetry.Event{TS: int64(i)}})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}
