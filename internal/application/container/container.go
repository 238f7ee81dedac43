// Package container provides dependency injection for all singleton services
package container

import (
	"time"

	"github.com/JdarlingGT/portoJD-fresh/internal/application/services"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/email"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/messaging"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/observability/logging"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/observability/performance"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/persistence/kv"
	"github.com/JdarlingGT/portoJD-fresh/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Telemetry Services
	IdentityService *services.IdentityService
	SessionService  *services.SessionService
	EventService    *services.EventService
	VisitService    *services.VisitService
	RollupService   *services.RollupService
	SummaryService  *services.SummaryService
	ReportService   *services.ReportService
	BehaviorService *services.BehaviorService
	ExportService   *services.ExportService
	AuthService     *services.AuthService

	// Infrastructure Dependencies
	DurableStore   kv.Store
	EphemeralStore *kv.MemoryStore
	Broadcaster    *messaging.ChangeBroadcaster
	EmailService   email.Service // nil when report delivery is not configured
	Logger         *logging.ChanneledLogger
	PerfTracker    *performance.Tracker
}

// NewContainer creates and wires all singleton services
func NewContainer(durable kv.Store, logger *logging.ChanneledLogger) *Container {
	perfTracker := performance.NewTracker()
	ephemeral := kv.NewMemoryStore()
	broadcaster := messaging.NewChangeBroadcaster(logger)

	identity := services.NewIdentityService(durable, ephemeral, logger)
	sessions := services.NewSessionService(durable, logger)
	events := services.NewEventService(durable, identity, broadcaster, services.EventServiceConfig{
		MaxEvents:       config.MaxEvents,
		ForwardEndpoint: config.MetricsEndpoint,
		ForwardEnabled:  config.MetricsForwardEnabled,
		ForwardTimeout:  config.MetricsForwardTimeout,
	}, logger, perfTracker)
	rollups := services.NewRollupService(durable, events, sessions, logger, perfTracker)
	summary := services.NewSummaryService(events, sessions, logger, perfTracker)
	reports := services.NewReportService(rollups, summary, logger)
	visits := services.NewVisitService(identity, sessions, events, rollups, logger)
	behavior := services.NewBehaviorService(events, broadcaster, services.BehaviorConfig{
		IdleNudgeAfter:    config.IdleNudgeAfter,
		IdleCheckInterval: config.IdleCheckInterval,
		BounceMarks:       []time.Duration{config.BounceCheckFirst, config.BounceCheckSecond, config.BounceCheckThird},
		DemoThreshold:     config.DemoNudgeThreshold,
	}, logger)
	export := services.NewExportService(events, summary, rollups, logger)
	auth := services.NewAuthService(config.AdminPasswordHash, config.JWTSecret, config.JWTExpiry, logger)

	var emailService email.Service
	if config.ResendAPIKey != "" {
		if svc, err := email.NewService(config.ResendAPIKey, config.ReportFromEmail); err == nil {
			emailService = svc
		} else {
			logger.Startup().Warn("Report email delivery disabled", "error", err.Error())
		}
	}

	return &Container{
		IdentityService: identity,
		SessionService:  sessions,
		EventService:    events,
		VisitService:    visits,
		RollupService:   rollups,
		SummaryService:  summary,
		ReportService:   reports,
		BehaviorService: behavior,
		ExportService:   export,
		AuthService:     auth,

		DurableStore:   durable,
		EphemeralStore: ephemeral,
		Broadcaster:    broadcaster,
		EmailService:   emailService,
		Logger:         logger,
		PerfTracker:    perfTracker,
	}
}
