package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/JdarlingGT/portoJD-fresh/internal/application/services"
	"github.com/JdarlingGT/portoJD-fresh/internal/domain/telemetry"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/observability/logging"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/observability/performance"
	"github.com/gin-gonic/gin"
)

// EventHandlers contains the event log HTTP handlers
type EventHandlers struct {
	eventService *services.EventService
	logger       *logging.ChanneledLogger
	perfTracker  *performance.Tracker
}

// NewEventHandlers creates event handlers with injected dependencies
func NewEventHandlers(eventService *services.EventService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *EventHandlers {
	return &EventHandlers{
		eventService: eventService,
		logger:       logger,
		perfTracker:  perfTracker,
	}
}

// PostEvent handles POST /api/v1/events - appends one event to the log and
// forwards it to the external metrics endpoint when that is configured.
func (h *EventHandlers) PostEvent(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("post_event_request")
	defer marker.Complete()

	var input telemetry.EventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Events().Error("Event request JSON binding failed", "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	if !input.Type.IsValid() {
		// Unknown types are dropped, not rejected; the caller should not
		// break when the event vocabulary drifts.
		h.logger.Events().Warn("Dropping event with unknown type", "type", string(input.Type))
		c.JSON(http.StatusAccepted, gin.H{"accepted": false})
		return
	}

	h.eventService.Append(input)

	marker.SetSuccess(true)
	h.logger.Events().Debug("Event appended", "type", string(input.Type), "duration", time.Since(start))

	c.JSON(http.StatusAccepted, gin.H{"accepted": true})
}

// PostMetricsSink handles POST /api/hep-metrics - the local terminus of
// forwarded metrics. It acknowledges and discards; the event is already in
// the store by the time it is forwarded.
func (h *EventHandlers) PostMetricsSink(c *gin.Context) {
	h.logger.Events().Debug("Metrics sink hit", "contentLength", c.Request.ContentLength)
	c.Status(http.StatusNoContent)
}

// GetEvents handles GET /api/v1/events - returns the event log, optionally
// filtered by type list and inclusive timestamp bounds.
func (h *EventHandlers) GetEvents(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_events_request")
	defer marker.Complete()

	filter := parseEventFilter(c)
	events := h.eventService.GetAll(filter)

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"count":  len(events),
	})
}

// DeleteEvents handles DELETE /api/v1/events - clears the event log.
func (h *EventHandlers) DeleteEvents(c *gin.Context) {
	marker := h.perfTracker.StartOperation("delete_events_request")
	defer marker.Complete()

	h.eventService.Clear()

	marker.SetSuccess(true)
	h.logger.Events().Info("Event log cleared via API")
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}

// parseEventFilter builds an EventFilter from query parameters. Returns
// nil when no filter parameters are present.
func parseEventFilter(c *gin.Context) *telemetry.EventFilter {
	var filter telemetry.EventFilter
	hasFilter := false

	if types, ok := c.GetQueryArray("type"); ok {
		for _, t := range types {
			filter.Types = append(filter.Types, telemetry.EventType(t))
		}
		hasFilter = len(filter.Types) > 0
	}
	if from := c.Query("from"); from != "" {
		if ts, err := strconv.ParseInt(from, 10, 64); err == nil {
			filter.FromTS = ts
			hasFilter = true
		}
	}
	if to := c.Query("to"); to != "" {
		if ts, err := strconv.ParseInt(to, 10, 64); err == nil {
			filter.ToTS = ts
			hasFilter = true
		}
	}

	if !hasFilter {
		return nil
	}
	return &filter
}
