// Package telemetry provides domain entities for the visitor telemetry core.
// It defines the closed event enumeration, session records, daily rollups,
// and the derived summary view consumed by the admin dashboard.
package telemetry

import "time"

// EventType enumerates the closed set of interaction events the store accepts.
type EventType string

const (
	EventPageView       EventType = "page_view"
	EventViewCaseStudy  EventType = "view_case_study"
	EventToolboxClick   EventType = "toolbox_click"
	EventChatMessage    EventType = "chat_message"
	EventVoiceQuery     EventType = "voice_query"
	EventCrazyBoy       EventType = "crazyboy_trigger"
	EventNapStart       EventType = "nap_start"
	EventWakeUp         EventType = "wake_up"
	EventReturnVisit    EventType = "return_visit"
	EventPlayCall       EventType = "play_call"
	EventEngagementPing EventType = "engagement_ping"
)

var validEventTypes = map[EventType]bool{
	EventPageView:       true,
	EventViewCaseStudy:  true,
	EventToolboxClick:   true,
	EventChatMessage:    true,
	EventVoiceQuery:     true,
	EventCrazyBoy:       true,
	EventNapStart:       true,
	EventWakeUp:         true,
	EventReturnVisit:    true,
	EventPlayCall:       true,
	EventEngagementPing: true,
}

// IsValid reports whether t belongs to the closed event enumeration.
func (t EventType) IsValid() bool {
	return validEventTypes[t]
}

// InteractionTypes is the fixed allowlist of event types that count as
// genuine interaction. Passive page_view is excluded so hotspots surface
// engagement, not navigation.
var InteractionTypes = []EventType{
	EventChatMessage,
	EventToolboxClick,
	EventVoiceQuery,
	EventPlayCall,
	EventCrazyBoy,
}

// Event is the atomic unit of telemetry. Events are immutable once appended;
// the store is append-only except for an explicit bulk clear.
type Event struct {
	Type      EventType      `json:"type"`
	TS        int64          `json:"ts"` // epoch milliseconds, stamped at append
	SessionID string         `json:"sessionId"`
	Path      string         `json:"path"`
	ID        string         `json:"id,omitempty"`     // entity reference, e.g. a project id
	Source    string         `json:"source,omitempty"` // origin subsystem, e.g. "hep-chat", "toolbox", "auto"
	Meta      map[string]any `json:"meta,omitempty"`   // free-form payload; never PII
}

// EventInput is the caller-supplied portion of an event. Timestamp, session
// id, and path are stamped by the store at append time.
type EventInput struct {
	Type   EventType      `json:"type"`
	Path   string         `json:"path,omitempty"`
	ID     string         `json:"id,omitempty"`
	Source string         `json:"source,omitempty"`
	Meta   map[string]any `json:"meta,omitempty"`
}

// EventFilter narrows a read of the event log. Zero values mean "no bound".
// Timestamp bounds are inclusive.
type EventFilter struct {
	Types  []EventType `json:"types,omitempty"`
	FromTS int64       `json:"fromTs,omitempty"`
	ToTS   int64       `json:"toTs,omitempty"`
}

// Matches reports whether e passes the filter.
func (f *EventFilter) Matches(e Event) bool {
	if f == nil {
		return true
	}
	if len(f.Types) > 0 {
		found := false
		for _, t := range f.Types {
			if e.Type == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.FromTS != 0 && e.TS < f.FromTS {
		return false
	}
	if f.ToTS != 0 && e.TS > f.ToTS {
		return false
	}
	return true
}

// FeatureForType maps an event type to the feature label used by rollups.
func FeatureForType(t EventType) string {
	switch t {
	case EventVoiceQuery:
		return "Voice Mode"
	case EventChatMessage:
		return "Chat"
	case EventToolboxClick:
		return "Toolbox"
	case EventViewCaseStudy:
		return "Case Studies"
	case EventCrazyBoy:
		return "CrazyBoy"
	case EventPlayCall:
		return "Play Calls"
	default:
		return "Other"
	}
}

// DateKey formats an epoch-millisecond timestamp as a YYYY-MM-DD key using
// the host's local wall clock. Rollup boundaries intentionally follow the
// local timezone, matching the site's original behavior.
func DateKey(ms int64) string {
	return time.UnixMilli(ms).Format("2006-01-02")
}

// SecondsBetween returns the whole seconds from a to b, clamped to >= 0.
func SecondsBetween(aMs, bMs int64) int {
	if bMs <= aMs {
		return 0
	}
	return int((bMs - aMs + 500) / 1000)
}
