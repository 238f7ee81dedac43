// Package messaging defines the event store's change-notification contract.
package messaging

import "github.com/JdarlingGT/portoJD-fresh/internal/domain/telemetry"

// ChangeKind discriminates store change notifications.
type ChangeKind string

const (
	ChangeAppend ChangeKind = "append"
	ChangeClear  ChangeKind = "clear"
)

// Notification is published whenever the event list is replaced. Event is
// set for appends and nil for clears.
type Notification struct {
	Kind  ChangeKind       `json:"kind"`
	Event *telemetry.Event `json:"event,omitempty"`
}

// Broadcaster is the typed publish/subscribe contract owned by the event
// store. Consumers register direct subscriptions rather than listening on
// an ambient global signal.
type Broadcaster interface {
	Subscribe() (ch <-chan Notification, cancel func())
	Publish(n Notification)
	SubscriberCount() int
}
