// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"strings"

	"github.com/JdarlingGT/portoJD-fresh/internal/application/container"
	"github.com/JdarlingGT/portoJD-fresh/internal/presentation/http/handlers"
	"github.com/JdarlingGT/portoJD-fresh/internal/presentation/http/middleware"
	"github.com/JdarlingGT/portoJD-fresh/pkg/config"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Initialize handlers
	visitHandlers := handlers.NewVisitHandlers(container.VisitService, container.Logger, container.PerfTracker)
	eventHandlers := handlers.NewEventHandlers(container.EventService, container.Logger, container.PerfTracker)
	behaviorHandlers := handlers.NewBehaviorHandlers(container.BehaviorService, container.Logger, container.PerfTracker)
	streamHandlers := handlers.NewStreamHandlers(container.Broadcaster, container.Logger)
	authHandlers := handlers.NewAuthHandlers(container.AuthService, container.Logger, container.PerfTracker)
	adminHandlers := handlers.NewAdminHandlers(
		container.SummaryService,
		container.RollupService,
		container.ReportService,
		container.ExportService,
		container.EmailService,
		config.ReportToEmail,
		container.Logger,
		container.PerfTracker,
	)

	// Local metrics terminus. The configured endpoint doubles as the
	// forward target; when it is an absolute URL the sink keeps its
	// default route, since an absolute URL is not a registrable path.
	sinkPath := config.MetricsEndpoint
	if !strings.HasPrefix(sinkPath, "/") {
		sinkPath = "/api/hep-metrics"
	}
	r.POST(sinkPath, eventHandlers.PostMetricsSink)

	api := r.Group("/api/v1")
	{
		// Visit lifecycle
		api.POST("/visit", visitHandlers.PostVisit)
		api.POST("/visit/finalize", visitHandlers.PostVisitFinalize)

		// Event log
		api.POST("/events", eventHandlers.PostEvent)
		api.GET("/events", eventHandlers.GetEvents)
		api.DELETE("/events", eventHandlers.DeleteEvents)

		// Behavior inference and live stream
		api.GET("/behavior", behaviorHandlers.GetBehavior)
		api.GET("/stream", streamHandlers.GetStream)

		// Authentication
		api.POST("/auth/login", authHandlers.PostLogin)

		// Admin dashboard surface
		admin := api.Group("/admin")
		admin.Use(authHandlers.AdminAuthMiddleware())
		{
			admin.GET("/summary", adminHandlers.GetSummary)
			admin.GET("/rollups", adminHandlers.GetRollups)
			admin.GET("/report", adminHandlers.GetReport)
			admin.POST("/report/email", adminHandlers.PostReportEmail)
			admin.GET("/insights", adminHandlers.GetInsights)
			admin.GET("/export", adminHandlers.GetExport)
		}
	}

	return r
}
