package services

import (
	"sync"
	"time"

	"github.com/JdarlingGT/portoJD-fresh/internal/domain/telemetry"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/observability/logging"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/observability/performance"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/persistence/kv"
)

// RollupService compresses the previous day's events into one compact
// DailyRollup record, at most once per day.
type RollupService struct {
	durable     kv.Store
	events      *EventService
	sessions    *SessionService
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
	now         func() time.Time
	mu          sync.Mutex
}

// NewRollupService creates the rollup engine.
func NewRollupService(
	durable kv.Store,
	events *EventService,
	sessions *SessionService,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) *RollupService {
	return &RollupService{
		durable:     durable,
		events:      events,
		sessions:    sessions,
		logger:      logger,
		perfTracker: perfTracker,
		now:         time.Now,
	}
}

// PerformDailyRollupIfDue computes the rollup for yesterday's date key if
// it has not been computed yet. When the service was offline across
// several days only the immediately preceding day is backfilled; older
// gaps stay empty. Today's date is always stamped as the last-rollup
// marker so the check runs at most once per day.
func (s *RollupService) PerformDailyRollupIfDue() {
	s.mu.Lock()
	defer s.mu.Unlock()

	marker := s.perfTracker.StartOperation("rollup:daily")
	defer marker.Complete()

	nowMs := s.now().UnixMilli()
	today := telemetry.DateKey(nowMs)

	var lastRollup string
	kv.ReadJSON(s.durable, kv.KeyLastRollup, &lastRollup)
	if lastRollup == today {
		marker.SetSuccess(true)
		return
	}

	yesterday := telemetry.DateKey(nowMs - 24*3600*1000)

	var rollups []telemetry.DailyRollup
	kv.ReadJSON(s.durable, kv.KeyRollups, &rollups)

	exists := false
	for _, r := range rollups {
		if r.Date == yesterday {
			exists = true
			break
		}
	}

	if !exists {
		if roll := s.buildDailyRollup(yesterday); roll != nil {
			rollups = append(rollups, *roll)
			kv.WriteJSON(s.durable, kv.KeyRollups, rollups)
			s.logger.WithOperation(logging.ChannelAnalytics, "rollup:daily").Info("Daily rollup recorded",
				"date", roll.Date,
				"sessions", roll.Sessions,
				"topPage", roll.TopPage,
				"mostUsedFeature", roll.MostUsedFeature)
		}
	}

	kv.WriteJSON(s.durable, kv.KeyLastRollup, today)
	marker.SetSuccess(true)
}

// buildDailyRollup aggregates the events whose local date key matches.
// Days with zero events produce no rollup record; callers must treat a
// missing date as "no data", not "zero activity".
func (s *RollupService) buildDailyRollup(dateKey string) *telemetry.DailyRollup {
	var dayEvents []telemetry.Event
	for _, e := range s.events.GetAll(nil) {
		if telemetry.DateKey(e.TS) == dateKey {
			dayEvents = append(dayEvents, e)
		}
	}
	if len(dayEvents) == 0 {
		return nil
	}

	sessionIDs := make(map[string]bool)
	for _, e := range dayEvents {
		sessionIDs[e.SessionID] = true
	}

	index := s.sessions.GetIndex()
	totalSecs := 0
	counted := 0
	for sid := range sessionIDs {
		if rec, ok := index[sid]; ok && rec.Start > 0 {
			totalSecs += rec.DwellSeconds()
			counted++
		}
	}
	avgSessionTime := 0
	if counted > 0 {
		avgSessionTime = (totalSecs + counted/2) / counted
	}

	// Top page by raw event count; ties break on first encounter.
	byPath := make(map[string]int)
	var pathOrder []string
	for _, e := range dayEvents {
		if byPath[e.Path] == 0 {
			pathOrder = append(pathOrder, e.Path)
		}
		byPath[e.Path]++
	}
	topPage := "/"
	best := 0
	for _, p := range pathOrder {
		if byPath[p] > best {
			best = byPath[p]
			topPage = p
		}
	}

	// Most used feature via the fixed type-to-label table.
	byFeature := make(map[string]int)
	var featureOrder []string
	for _, e := range dayEvents {
		feat := telemetry.FeatureForType(e.Type)
		if byFeature[feat] == 0 {
			featureOrder = append(featureOrder, feat)
		}
		byFeature[feat]++
	}
	mostUsedFeature := "Other"
	best = 0
	for _, f := range featureOrder {
		if byFeature[f] > best {
			best = byFeature[f]
			mostUsedFeature = f
		}
	}

	return &telemetry.DailyRollup{
		Date:            dateKey,
		Sessions:        len(sessionIDs),
		AvgSessionTime:  avgSessionTime,
		TopPage:         topPage,
		MostUsedFeature: mostUsedFeature,
	}
}

// GetDailyRollups returns all recorded rollups, oldest first.
func (s *RollupService) GetDailyRollups() []telemetry.DailyRollup {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rollups []telemetry.DailyRollup
	kv.ReadJSON(s.durable, kv.KeyRollups, &rollups)
	return rollups
}
