package handlers

import (
	"net/http"

	"github.com/JdarlingGT/portoJD-fresh/internal/application/services"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/observability/logging"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/observability/performance"
	"github.com/gin-gonic/gin"
)

// BehaviorHandlers exposes the inferred visitor behavior state
type BehaviorHandlers struct {
	behaviorService *services.BehaviorService
	logger          *logging.ChanneledLogger
	perfTracker     *performance.Tracker
}

// NewBehaviorHandlers creates behavior handlers with injected dependencies
func NewBehaviorHandlers(behaviorService *services.BehaviorService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *BehaviorHandlers {
	return &BehaviorHandlers{
		behaviorService: behaviorService,
		logger:          logger,
		perfTracker:     perfTracker,
	}
}

// GetBehavior handles GET /api/v1/behavior - returns the current mood and
// any pending nudge prompt.
func (h *BehaviorHandlers) GetBehavior(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_behavior_request")
	defer marker.Complete()

	state := h.behaviorService.State()

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{
		"mood":   state.Mood,
		"prompt": state.Prompt,
	})
}
