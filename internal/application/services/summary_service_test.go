package services

import (
	"testing"
	"time"

	"github.com/JdarlingGT/portoJD-fresh/internal/domain/telemetry"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/persistence/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryService_EmptyStore(t *testing.T) {
	f := newFixture(t)

	s := f.summary.GetSummary()
	assert.Equal(t, 0, s.TotalSessions)
	assert.Equal(t, 0.0, s.ReturnRate)
	assert.Equal(t, 0, s.AvgDwellTime)
	assert.Empty(t, s.MostOpenedProjects)
	assert.Empty(t, s.EngagementHotspots)
}

func TestSummaryService_ReturnRateClamped(t *testing.T) {
	f := newFixture(t)

	// More return_visit events than distinct sessions.
	seedEvents(f, []telemetry.Event{
		{Type: telemetry.EventReturnVisit, TS: 1, SessionID: "s1", Path: "/"},
		{Type: telemetry.EventReturnVisit, TS: 2, SessionID: "s1", Path: "/"},
		{Type: telemetry.EventReturnVisit, TS: 3, SessionID: "s1", Path: "/"},
	})

	s := f.summary.GetSummary()
	assert.Equal(t, 1, s.TotalSessions)
	assert.Equal(t, 1.0, s.ReturnRate, "return rate clamps at 1")
}

func TestSummaryService_TopProjectsOrderedAndCapped(t *testing.T) {
	f := newFixture(t)

	var events []telemetry.Event
	repeat := func(id string, n int) {
		for i := 0; i < n; i++ {
			events = append(events, telemetry.Event{
				Type: telemetry.EventViewCaseStudy, TS: int64(len(events) + 1), SessionID: "s1", Path: "/work", ID: id,
			})
		}
	}
	repeat("graston", 1)
	repeat("vetbloom", 4)
	repeat("labs", 2)
	repeat("hessay", 3)
	seedEvents(f, events)

	s := f.summary.GetSummary()
	require.Len(t, s.MostOpenedProjects, 3, "capped to top three")
	assert.Equal(t, "vetbloom", s.MostOpenedProjects[0].ID)
	assert.Equal(t, 4, s.MostOpenedProjects[0].Count)
	assert.Equal(t, "hessay", s.MostOpenedProjects[1].ID)
	assert.Equal(t, "labs", s.MostOpenedProjects[2].ID)
}

func TestSummaryService_HotspotsExcludePageViews(t *testing.T) {
	f := newFixture(t)

	seedEvents(f, []telemetry.Event{
		{Type: telemetry.EventPageView, TS: 1, SessionID: "s1", Path: "/quiet"},
		{Type: telemetry.EventPageView, TS: 2, SessionID: "s1", Path: "/quiet"},
		{Type: telemetry.EventToolboxClick, TS: 3, SessionID: "s1", Path: "/toolbox"},
		{Type: telemetry.EventChatMessage, TS: 4, SessionID: "s1", Path: "/toolbox"},
		{Type: telemetry.EventVoiceQuery, TS: 5, SessionID: "s1", Path: "/voice"},
	})

	s := f.summary.GetSummary()
	require.Len(t, s.EngagementHotspots, 2)
	assert.Equal(t, "/toolbox", s.EngagementHotspots[0].Path)
	assert.Equal(t, 2, s.EngagementHotspots[0].Count)
	assert.Equal(t, "/voice", s.EngagementHotspots[1].Path)
}

func TestSummaryService_KeywordsFromChatMeta(t *testing.T) {
	f := newFixture(t)

	seedEvents(f, []telemetry.Event{
		{Type: telemetry.EventChatMessage, TS: 1, SessionID: "s1", Path: "/", Meta: map[string]any{"text": "tell me about pricing"}},
		{Type: telemetry.EventChatMessage, TS: 2, SessionID: "s1", Path: "/", Meta: map[string]any{"text": "pricing for analytics work"}},
		{Type: telemetry.EventChatMessage, TS: 3, SessionID: "s1", Path: "/", Meta: map[string]any{"no_text": true}},
	})

	s := f.summary.GetSummary()
	require.NotEmpty(t, s.ConversationKeywords)
	assert.Equal(t, "pricing", s.ConversationKeywords[0].Word)
	assert.Equal(t, 2, s.ConversationKeywords[0].Count)
}

func TestSummaryService_PlaysCalledByTopic(t *testing.T) {
	f := newFixture(t)

	seedEvents(f, []telemetry.Event{
		{Type: telemetry.EventPlayCall, TS: 1, SessionID: "s1", Path: "/", Meta: map[string]any{"topic": "seo"}},
		{Type: telemetry.EventPlayCall, TS: 2, SessionID: "s1", Path: "/", Meta: map[string]any{"topic": "seo"}},
		{Type: telemetry.EventPlayCall, TS: 3, SessionID: "s1", Path: "/", Meta: map[string]any{"topic": "automation"}},
	})

	s := f.summary.GetSummary()
	require.Len(t, s.PlaysCalled, 2)
	assert.Equal(t, "seo", s.PlaysCalled[0].Topic)
	assert.Equal(t, 2, s.PlaysCalled[0].Count)
}

func TestSummaryService_AvgDwellSkipsInvalidRecords(t *testing.T) {
	f := newFixture(t)

	now := time.Now().UnixMilli()
	seedEvents(f, []telemetry.Event{
		{Type: telemetry.EventPageView, TS: now, SessionID: "s1", Path: "/"},
	})
	kv.WriteJSON(f.durable, kv.KeySessionsIndex, telemetry.SessionsIndex{
		"s1": {Start: now - 60000, End: now},      // 60s
		"s2": {Start: now - 10000},                // unfinalized counts as zero dwell
	})

	s := f.summary.GetSummary()
	assert.Equal(t, 30, s.AvgDwellTime)
}
