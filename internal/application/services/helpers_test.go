package services

import (
	"log/slog"
	"testing"

	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/messaging"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/observability/logging"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/observability/performance"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/persistence/kv"
	"github.com/stretchr/testify/require"
)

// fixture wires the full service graph over fresh in-memory stores.
type fixture struct {
	durable     *kv.MemoryStore
	ephemeral   *kv.MemoryStore
	broadcaster *messaging.ChangeBroadcaster
	logger      *logging.ChanneledLogger

	identity *IdentityService
	sessions *SessionService
	events   *EventService
	rollups  *RollupService
	summary  *SummaryService
	reports  *ReportService
	visits   *VisitService
	export   *ExportService
}

func newTestLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	cfg := logging.DefaultLoggerConfig()
	cfg.DefaultLevel = slog.LevelError
	logger, err := logging.NewChanneledLogger(cfg)
	require.NoError(t, err)
	return logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := newTestLogger(t)
	durable := kv.NewMemoryStore()
	ephemeral := kv.NewMemoryStore()
	broadcaster := messaging.NewChangeBroadcaster(logger)
	tracker := performance.NewTracker()

	identity := NewIdentityService(durable, ephemeral, logger)
	sessions := NewSessionService(durable, logger)
	events := NewEventService(durable, identity, broadcaster, EventServiceConfig{}, logger, tracker)
	rollups := NewRollupService(durable, events, sessions, logger, tracker)
	summary := NewSummaryService(events, sessions, logger, tracker)
	reports := NewReportService(rollups, summary, logger)
	visits := NewVisitService(identity, sessions, events, rollups, logger)
	export := NewExportService(events, summary, rollups, logger)

	return &fixture{
		durable:     durable,
		ephemeral:   ephemeral,
		broadcaster: broadcaster,
		logger:      logger,
		identity:    identity,
		sessions:    sessions,
		events:      events,
		rollups:     rollups,
		summary:     summary,
		reports:     reports,
		visits:      visits,
		export:      export,
	}
}
