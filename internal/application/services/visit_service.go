package services

import (
	"time"

	"github.com/JdarlingGT/portoJD-fresh/internal/domain/telemetry"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/observability/logging"
)

// VisitResult is returned from the visit bootstrap.
type VisitResult struct {
	VisitorID string `json:"visitorId"`
	SessionID string `json:"sessionId"`
}

// VisitService orchestrates the visit lifecycle: ensure identities and the
// session record on arrival, finalize dwell on page-hide or unload.
type VisitService struct {
	identity *IdentityService
	sessions *SessionService
	events   *EventService
	rollups  *RollupService
	logger   *logging.ChanneledLogger
}

// NewVisitService creates the visit lifecycle service.
func NewVisitService(
	identity *IdentityService,
	sessions *SessionService,
	events *EventService,
	rollups *RollupService,
	logger *logging.ChanneledLogger,
) *VisitService {
	return &VisitService{
		identity: identity,
		sessions: sessions,
		events:   events,
		rollups:  rollups,
		logger:   logger,
	}
}

// Init runs the arrival sequence: ensure visitor and session ids, record
// the session start, log a return_visit when prior sessions exist, log the
// page_view, and run the daily rollup check.
func (s *VisitService) Init(path string) VisitResult {
	visitorID := s.identity.GetOrCreateVisitorID()
	sessionID := s.identity.GetOrCreateSessionID()
	start := s.identity.SessionStart()

	hadPrevSessions, created := s.sessions.EnsureSessionRecord(sessionID, start)
	if created && hadPrevSessions {
		s.events.Append(telemetry.EventInput{
			Type:   telemetry.EventReturnVisit,
			Path:   path,
			Source: "auto",
		})
	}

	s.events.Append(telemetry.EventInput{
		Type:   telemetry.EventPageView,
		Path:   path,
		Source: "auto",
	})

	s.rollups.PerformDailyRollupIfDue()

	s.logger.Sessions().Info("Visit initialized", "sessionId", sessionID, "returning", hadPrevSessions)
	return VisitResult{VisitorID: visitorID, SessionID: sessionID}
}

// Finalize stamps the session's end and logs a lightweight engagement ping
// carrying the elapsed seconds. The ping skips the network forward.
// Page-hide and unload both land here; repeated calls are harmless.
func (s *VisitService) Finalize(path string) {
	sessionID := s.identity.GetOrCreateSessionID()
	start := s.identity.SessionStart()

	s.sessions.FinalizeSession(sessionID)

	elapsed := telemetry.SecondsBetween(start, time.Now().UnixMilli())
	s.events.AppendWithForward(telemetry.EventInput{
		Type:   telemetry.EventEngagementPing,
		Path:   path,
		Source: "auto",
		Meta:   map[string]any{"elapsed": elapsed},
	}, false)
}
