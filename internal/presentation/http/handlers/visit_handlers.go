package handlers

import (
	"net/http"
	"time"

	"github.com/JdarlingGT/portoJD-fresh/internal/application/services"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/observability/logging"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/observability/performance"
	"github.com/gin-gonic/gin"
)

// VisitHandlers contains the visit lifecycle HTTP handlers
type VisitHandlers struct {
	visitService *services.VisitService
	logger       *logging.ChanneledLogger
	perfTracker  *performance.Tracker
}

// VisitRequest carries the page the visitor arrived on or is leaving from.
type VisitRequest struct {
	Path string `json:"path"`
}

// NewVisitHandlers creates visit handlers with injected dependencies
func NewVisitHandlers(visitService *services.VisitService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *VisitHandlers {
	return &VisitHandlers{
		visitService: visitService,
		logger:       logger,
		perfTracker:  perfTracker,
	}
}

// PostVisit handles POST /api/v1/visit - runs the arrival sequence and
// returns the visitor and session identifiers.
func (h *VisitHandlers) PostVisit(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("post_visit_request")
	defer marker.Complete()
	h.logger.Sessions().Debug("Received visit request", "method", c.Request.Method, "path", c.Request.URL.Path)

	// An empty or malformed body is fine; the path defaults to "/".
	var req VisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req.Path = "/"
	}

	result := h.visitService.Init(req.Path)

	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for PostVisit request", "duration", marker.Duration, "success", true)
	h.logger.Sessions().Info("Visit initialized", "sessionId", result.SessionID, "duration", time.Since(start))

	c.JSON(http.StatusOK, gin.H{
		"visitorId": result.VisitorID,
		"sessionId": result.SessionID,
	})
}

// PostVisitFinalize handles POST /api/v1/visit/finalize - the beacon fired
// when the visitor leaves. It stamps the session end and logs the
// engagement ping.
func (h *VisitHandlers) PostVisitFinalize(c *gin.Context) {
	marker := h.perfTracker.StartOperation("post_visit_finalize_request")
	defer marker.Complete()

	var req VisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req.Path = "/"
	}

	h.visitService.Finalize(req.Path)

	marker.SetSuccess(true)
	h.logger.Sessions().Debug("Visit finalized", "path", req.Path)

	// Beacon senders ignore the response body.
	c.Status(http.StatusNoContent)
}
