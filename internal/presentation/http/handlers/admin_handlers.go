package handlers

import (
	"math/rand"
	"net/http"
	"time"

	"github.com/JdarlingGT/portoJD-fresh/internal/application/services"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/email"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/observability/logging"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/observability/performance"
	"github.com/gin-gonic/gin"
)

// AdminHandlers serves the JWT-gated dashboard surface: summary, rollups,
// coach reports, insights, and exports.
type AdminHandlers struct {
	summaryService *services.SummaryService
	rollupService  *services.RollupService
	reportService  *services.ReportService
	exportService  *services.ExportService
	emailService   email.Service // nil when delivery is not configured
	reportToEmail  string
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewAdminHandlers creates admin handlers with injected dependencies
func NewAdminHandlers(
	summaryService *services.SummaryService,
	rollupService *services.RollupService,
	reportService *services.ReportService,
	exportService *services.ExportService,
	emailService email.Service,
	reportToEmail string,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) *AdminHandlers {
	return &AdminHandlers{
		summaryService: summaryService,
		rollupService:  rollupService,
		reportService:  reportService,
		exportService:  exportService,
		emailService:   emailService,
		reportToEmail:  reportToEmail,
		logger:         logger,
		perfTracker:    perfTracker,
	}
}

// GetSummary handles GET /api/v1/admin/summary
func (h *AdminHandlers) GetSummary(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_summary_request")
	defer marker.Complete()

	summary := h.summaryService.GetSummary()

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, summary)
}

// GetRollups handles GET /api/v1/admin/rollups
func (h *AdminHandlers) GetRollups(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_rollups_request")
	defer marker.Complete()

	// A due rollup is computed lazily, so the dashboard never shows a
	// stale window just because no visit arrived today.
	h.rollupService.PerformDailyRollupIfDue()
	rollups := h.rollupService.GetDailyRollups()

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{
		"rollups": rollups,
		"count":   len(rollups),
	})
}

// GetReport handles GET /api/v1/admin/report?period=weekly|monthly
func (h *AdminHandlers) GetReport(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("get_report_request")
	defer marker.Complete()

	period, ok := parseReportPeriod(c.DefaultQuery("period", "weekly"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "period must be weekly or monthly"})
		return
	}

	marker.AddMetadata("period", string(period))
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	report := h.reportService.GenerateCoachReport(period, rng)

	marker.SetSuccess(true)
	h.logger.Analytics().Info("Coach report generated", "period", string(period), "duration", time.Since(start))

	c.JSON(http.StatusOK, gin.H{
		"period": string(period),
		"report": report,
	})
}

// PostReportEmail handles POST /api/v1/admin/report/email - generates a
// coach report and delivers it to the configured recipient.
func (h *AdminHandlers) PostReportEmail(c *gin.Context) {
	marker := h.perfTracker.StartOperation("post_report_email_request")
	defer marker.Complete()

	if h.emailService == nil || h.reportToEmail == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "report delivery not configured"})
		return
	}

	var req struct {
		Period string `json:"period"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		req.Period = "weekly"
	}

	period, ok := parseReportPeriod(req.Period)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "period must be weekly or monthly"})
		return
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	report := h.reportService.GenerateCoachReport(period, rng)

	if err := h.emailService.SendCoachReport(h.reportToEmail, string(period), report); err != nil {
		marker.SetError(err)
		h.logger.Analytics().Error("Coach report delivery failed", "error", err.Error())
		c.JSON(http.StatusBadGateway, gin.H{"error": "report delivery failed"})
		return
	}

	marker.SetSuccess(true)
	h.logger.Analytics().Info("Coach report delivered", "period", string(period), "to", h.reportToEmail)

	c.JSON(http.StatusOK, gin.H{"sent": true, "period": string(period)})
}

// GetInsights handles GET /api/v1/admin/insights
func (h *AdminHandlers) GetInsights(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_insights_request")
	defer marker.Complete()

	insights := h.exportService.GenerateInsights()

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{
		"insights": insights,
		"count":    len(insights),
	})
}

// GetExport handles GET /api/v1/admin/export?format=json|csv - streams the
// event log as a downloadable file, honoring the same filter query
// parameters as GET /api/v1/events.
func (h *AdminHandlers) GetExport(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_export_request")
	defer marker.Complete()

	filter := parseEventFilter(c)
	stamp := time.Now().Format("2006-01-02")

	format := c.DefaultQuery("format", "json")
	marker.AddMetadata("format", format)

	switch format {
	case "json":
		payload, err := h.exportService.ToJSON(filter)
		if err != nil {
			marker.SetError(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="hep-metrics-`+stamp+`.json"`)
		c.Data(http.StatusOK, "application/json", []byte(payload))
	case "csv":
		payload, err := h.exportService.ToCSV(filter)
		if err != nil {
			marker.SetError(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="hep-metrics-`+stamp+`.csv"`)
		c.Data(http.StatusOK, "text/csv", []byte(payload))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be json or csv"})
		return
	}

	marker.SetSuccess(true)
}

func parseReportPeriod(raw string) (services.ReportPeriod, bool) {
	switch services.ReportPeriod(raw) {
	case services.PeriodWeekly:
		return services.PeriodWeekly, true
	case services.PeriodMonthly:
		return services.PeriodMonthly, true
	}
	return "", false
}
