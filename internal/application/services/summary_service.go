package services

import (
	"sort"
	"time"

	"github.com/JdarlingGT/portoJD-fresh/internal/domain/telemetry"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/observability/logging"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/observability/performance"
)

// SummaryService derives whole-history aggregate statistics from the full
// event log plus the session index. Every call recomputes from scratch;
// the log is bounded by a single visitor's browsing history, so there is
// no incremental caching.
type SummaryService struct {
	events      *EventService
	sessions    *SessionService
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewSummaryService creates the summary engine.
func NewSummaryService(
	events *EventService,
	sessions *SessionService,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) *SummaryService {
	return &SummaryService{
		events:      events,
		sessions:    sessions,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// GetSummary computes the derived summary view.
func (s *SummaryService) GetSummary() telemetry.Summary {
	start := time.Now()
	marker := s.perfTracker.StartOperation("summary:compute")
	defer marker.Complete()

	events := s.events.GetAll(nil)

	sessionIDs := make(map[string]bool)
	for _, e := range events {
		sessionIDs[e.SessionID] = true
	}
	totalSessions := len(sessionIDs)

	// Return rate: return_visit events over distinct sessions, clamped to
	// [0,1]. A heuristic proxy, not true returning-visitor detection.
	returns := 0
	for _, e := range events {
		if e.Type == telemetry.EventReturnVisit {
			returns++
		}
	}
	returnRate := 0.0
	if totalSessions > 0 {
		returnRate = float64(returns) / float64(totalSessions)
		if returnRate > 1 {
			returnRate = 1
		}
	}

	// Dwell across all sessions with valid records.
	index := s.sessions.GetIndex()
	dwellTotal := 0
	dwellCount := 0
	for _, rec := range index {
		end := rec.End
		if end == 0 {
			end = rec.Start
		}
		if end >= rec.Start {
			dwellTotal += telemetry.SecondsBetween(rec.Start, end)
			dwellCount++
		}
	}
	avgDwellTime := 0
	if dwellCount > 0 {
		avgDwellTime = (dwellTotal + dwellCount/2) / dwellCount
	}

	summary := telemetry.Summary{
		TotalSessions:        totalSessions,
		ReturnRate:           returnRate,
		AvgDwellTime:         avgDwellTime,
		MostOpenedProjects:   topProjects(events, 3),
		EngagementHotspots:   topHotspots(events, 5),
		ConversationKeywords: topKeywords(events, 10),
		PlaysCalled:          topPlays(events, 10),
	}

	marker.SetSuccess(true)
	s.logger.Analytics().Debug("Summary computed",
		"totalSessions", totalSessions,
		"eventCount", len(events),
		"duration", time.Since(start))

	return summary
}

// topProjects tallies view_case_study events by entity id, returning the
// top n by count. Ties keep insertion order.
func topProjects(events []telemetry.Event, n int) []telemetry.ProjectCount {
	counts := make(map[string]int)
	var order []string
	for _, e := range events {
		if e.Type == telemetry.EventViewCaseStudy && e.ID != "" {
			if counts[e.ID] == 0 {
				order = append(order, e.ID)
			}
			counts[e.ID]++
		}
	}

	result := make([]telemetry.ProjectCount, 0, len(order))
	for _, id := range order {
		result = append(result, telemetry.ProjectCount{ID: id, Count: counts[id]})
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Count > result[j].Count })
	if len(result) > n {
		result = result[:n]
	}
	return result
}

// topHotspots counts interactive events per path. Passive page views are
// excluded so hotspots reflect genuine interaction.
func topHotspots(events []telemetry.Event, n int) []telemetry.PathCount {
	interactive := make(map[telemetry.EventType]bool, len(telemetry.InteractionTypes))
	for _, t := range telemetry.InteractionTypes {
		interactive[t] = true
	}

	counts := make(map[string]int)
	var order []string
	for _, e := range events {
		if interactive[e.Type] {
			if counts[e.Path] == 0 {
				order = append(order, e.Path)
			}
			counts[e.Path]++
		}
	}

	result := make([]telemetry.PathCount, 0, len(order))
	for _, p := range order {
		result = append(result, telemetry.PathCount{Path: p, Count: counts[p]})
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Count > result[j].Count })
	if len(result) > n {
		result = result[:n]
	}
	return result
}

// topKeywords tallies keywords extracted from chat_message free text.
func topKeywords(events []telemetry.Event, n int) []telemetry.WordCount {
	counts := make(map[string]int)
	var order []string
	for _, e := range events {
		if e.Type != telemetry.EventChatMessage {
			continue
		}
		text, ok := e.Meta["text"].(string)
		if !ok {
			continue
		}
		for _, w := range telemetry.Keywordize(text) {
			if counts[w] == 0 {
				order = append(order, w)
			}
			counts[w]++
		}
	}

	result := make([]telemetry.WordCount, 0, len(order))
	for _, w := range order {
		result = append(result, telemetry.WordCount{Word: w, Count: counts[w]})
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Count > result[j].Count })
	if len(result) > n {
		result = result[:n]
	}
	return result
}

// topPlays tallies play_call events by their meta topic.
func topPlays(events []telemetry.Event, n int) []telemetry.TopicCount {
	counts := make(map[string]int)
	var order []string
	for _, e := range events {
		if e.Type != telemetry.EventPlayCall {
			continue
		}
		topic, ok := e.Meta["topic"].(string)
		if !ok {
			continue
		}
		if counts[topic] == 0 {
			order = append(order, topic)
		}
		counts[topic]++
	}

	result := make([]telemetry.TopicCount, 0, len(order))
	for _, t := range order {
		result = append(result, telemetry.TopicCount{Topic: t, Count: counts[t]})
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Count > result[j].Count })
	if len(result) > n {
		result = result[:n]
	}
	return result
}
