package services

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/JdarlingGT/portoJD-fresh/internal/domain/telemetry"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/messaging"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/observability/logging"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/observability/performance"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/persistence/kv"
)

// EventServiceConfig carries the store's tunables.
type EventServiceConfig struct {
	// MaxEvents caps the retained event count; 0 keeps the log unbounded,
	// matching the original site's documented trade-off.
	MaxEvents int

	// ForwardEndpoint is the optional external metrics endpoint. Only
	// absolute http(s) URLs are forwarded to; the default is a local API
	// route and is not re-posted.
	ForwardEndpoint string
	ForwardEnabled  bool
	ForwardTimeout  time.Duration
}

// EventService owns the append-only event log. All mutations flow through
// it and every list replacement publishes a change notification.
type EventService struct {
	durable     kv.Store
	identity    *IdentityService
	broadcaster messaging.Broadcaster
	config      EventServiceConfig
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
	forwarder   *http.Client
	mu          sync.Mutex
}

// NewEventService creates the event store service.
func NewEventService(
	durable kv.Store,
	identity *IdentityService,
	broadcaster messaging.Broadcaster,
	config EventServiceConfig,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) *EventService {
	timeout := config.ForwardTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &EventService{
		durable:     durable,
		identity:    identity,
		broadcaster: broadcaster,
		config:      config,
		logger:      logger,
		perfTracker: perfTracker,
		forwarder:   &http.Client{Timeout: timeout},
	}
}

// Append stamps timestamp, session id, and path onto the input and
// persists it. Events with an unknown type are logged and dropped, never
// stored. Appends are followed by a change notification and, when
// configured, a fire-and-forget forward of the single event.
func (s *EventService) Append(input telemetry.EventInput) {
	s.AppendWithForward(input, true)
}

// AppendWithForward is Append with control over the best-effort network
// forward, used for the auto-generated finalize ping.
func (s *EventService) AppendWithForward(input telemetry.EventInput, forward bool) {
	marker := s.perfTracker.StartOperation("events:append")
	defer marker.Complete()

	if !input.Type.IsValid() {
		s.logger.Events().Warn("Dropping event with unknown type", "type", string(input.Type))
		marker.SetSuccess(false)
		return
	}

	path := input.Path
	if path == "" {
		path = "/"
	}

	event := telemetry.Event{
		Type:      input.Type,
		TS:        time.Now().UnixMilli(),
		SessionID: s.identity.GetOrCreateSessionID(),
		Path:      path,
		ID:        input.ID,
		Source:    input.Source,
		Meta:      input.Meta,
	}

	s.mu.Lock()
	var events []telemetry.Event
	kv.ReadJSON(s.durable, kv.KeyEvents, &events)
	events = append(events, event)
	if s.config.MaxEvents > 0 && len(events) > s.config.MaxEvents {
		events = events[len(events)-s.config.MaxEvents:]
	}
	kv.WriteJSON(s.durable, kv.KeyEvents, events)
	s.mu.Unlock()

	s.broadcaster.Publish(messaging.Notification{Kind: messaging.ChangeAppend, Event: &event})
	marker.SetSuccess(true)

	if forward {
		s.forwardEvent(event)
	}
}

// GetAll returns the full event log, optionally narrowed by filter.
// Reads are pure; a failed storage read yields an empty slice.
func (s *EventService) GetAll(filter *telemetry.EventFilter) []telemetry.Event {
	s.mu.Lock()
	var events []telemetry.Event
	kv.ReadJSON(s.durable, kv.KeyEvents, &events)
	s.mu.Unlock()

	if filter == nil {
		return events
	}

	filtered := make([]telemetry.Event, 0, len(events))
	for _, e := range events {
		if filter.Matches(e) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// Clear empties the store and emits a single change notification.
func (s *EventService) Clear() {
	s.mu.Lock()
	kv.WriteJSON(s.durable, kv.KeyEvents, []telemetry.Event{})
	s.mu.Unlock()

	s.broadcaster.Publish(messaging.Notification{Kind: messaging.ChangeClear})
	s.logger.Events().Info("Event store cleared")
}

// SessionInteractionCount counts the current session's events of the given
// types. A nil type set counts chat and toolbox interactions.
func (s *EventService) SessionInteractionCount(types []telemetry.EventType) int {
	if types == nil {
		types = []telemetry.EventType{telemetry.EventChatMessage, telemetry.EventToolboxClick}
	}

	sid := s.identity.GetOrCreateSessionID()
	count := 0
	for _, e := range s.GetAll(nil) {
		if e.SessionID != sid {
			continue
		}
		for _, t := range types {
			if e.Type == t {
				count++
				break
			}
		}
	}
	return count
}

// SessionHasViewedProject reports whether the current session opened any
// case study.
func (s *EventService) SessionHasViewedProject() bool {
	sid := s.identity.GetOrCreateSessionID()
	for _, e := range s.GetAll(nil) {
		if e.SessionID == sid && e.Type == telemetry.EventViewCaseStudy {
			return true
		}
	}
	return false
}

// forwardEvent posts the single event to the configured metrics endpoint,
// fire-and-forget. Failures are swallowed; the local append has already
// succeeded.
func (s *EventService) forwardEvent(event telemetry.Event) {
	if !s.config.ForwardEnabled {
		return
	}
	endpoint := s.config.ForwardEndpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return
	}

	go func() {
		resp, err := s.forwarder.Post(endpoint, "application/json", bytes.NewReader(payload))
		if err != nil {
			return
		}
		resp.Body.Close()
	}()
}
