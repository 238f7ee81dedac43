package services

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/JdarlingGT/portoJD-fresh/internal/domain/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportService_ToJSON(t *testing.T) {
	f := newFixture(t)

	f.events.Append(telemetry.EventInput{Type: telemetry.EventChatMessage, Meta: map[string]any{"text": "pricing question"}})
	f.events.Append(telemetry.EventInput{Type: telemetry.EventToolboxClick, ID: "seo-audit"})

	payload, err := f.export.ToJSON(nil)
	require.NoError(t, err)

	var decoded []telemetry.Event
	require.NoError(t, json.Unmarshal([]byte(payload), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, telemetry.EventChatMessage, decoded[0].Type)
	assert.Equal(t, "seo-audit", decoded[1].ID)
}

func TestExportService_CSVRoundTrip(t *testing.T) {
	f := newFixture(t)

	f.events.Append(telemetry.EventInput{Type: telemetry.EventChatMessage, Path: "/chat", Meta: map[string]any{"text": "hello, \"quoted\" text"}})
	f.events.Append(telemetry.EventInput{Type: telemetry.EventPageView, Path: "/work"})
	original := f.events.GetAll(nil)

	payload, err := f.export.ToCSV(nil)
	require.NoError(t, err)

	parsed, err := ParseCSV(payload)
	require.NoError(t, err)
	require.Len(t, parsed, len(original))

	for i := range original {
		assert.Equal(t, original[i].Type, parsed[i].Type)
		assert.Equal(t, original[i].TS, parsed[i].TS)
		assert.Equal(t, original[i].Path, parsed[i].Path)
		assert.Equal(t, original[i].SessionID, parsed[i].SessionID)
	}
	assert.Equal(t, "hello, \"quoted\" text", parsed[0].Meta["text"])

	// The human-readable date column parses back to the same instant.
	lines := strings.Split(strings.TrimSpace(payload), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	fields := strings.SplitN(lines[1], ",", 3)
	parsedDate, err := time.Parse(time.RFC3339Nano, strings.Trim(fields[1], `"`))
	require.NoError(t, err)
	assert.Equal(t, original[0].TS, parsedDate.UnixMilli())
}

func TestExportService_CSVEmptyStore(t *testing.T) {
	f := newFixture(t)

	payload, err := f.export.ToCSV(nil)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(csvHeader, ","), strings.TrimSpace(payload), "header only")

	parsed, err := ParseCSV(payload)
	require.NoError(t, err)
	assert.Empty(t, parsed)
}

func TestExportService_InsightsEmptyStore(t *testing.T) {
	f := newFixture(t)

	insights := f.export.GenerateInsights()

	// The dwell heuristic always contributes one observation.
	require.NotEmpty(t, insights)
	found := false
	for _, i := range insights {
		if strings.Contains(i.Insight, "Average session time") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestExportService_InsightsRankedMVPFirst(t *testing.T) {
	f := newFixture(t)

	seedEvents(f, []telemetry.Event{
		{Type: telemetry.EventViewCaseStudy, TS: 1, SessionID: "s1", Path: "/work", ID: "vetbloom"},
		{Type: telemetry.EventToolboxClick, TS: 2, SessionID: "s1", Path: "/toolbox"},
		{Type: telemetry.EventToolboxClick, TS: 3, SessionID: "s1", Path: "/toolbox"},
		{Type: telemetry.EventChatMessage, TS: 4, SessionID: "s1", Path: "/", Meta: map[string]any{"text": "pricing strategy growth"}},
	})

	insights := f.export.GenerateInsights()
	require.NotEmpty(t, insights)
	assert.Contains(t, insights[0].Insight, "MVP", "project MVP ranks above everything else")

	// Toolbox trend ranks last among the generated set.
	last := insights[len(insights)-1]
	assert.Contains(t, last.Insight, "Toolbox interactions")
}

func TestExportService_ToolboxTrendHalvedBaseline(t *testing.T) {
	f := newFixture(t)

	seedEvents(f, []telemetry.Event{
		{Type: telemetry.EventToolboxClick, TS: 1, SessionID: "s1", Path: "/toolbox"},
		{Type: telemetry.EventToolboxClick, TS: 2, SessionID: "s1", Path: "/toolbox"},
		{Type: telemetry.EventToolboxClick, TS: 3, SessionID: "s1", Path: "/toolbox"},
		{Type: telemetry.EventToolboxClick, TS: 4, SessionID: "s1", Path: "/toolbox"},
	})

	insights := f.export.GenerateInsights()

	var toolbox *Insight
	for i := range insights {
		if strings.Contains(insights[i].Insight, "Toolbox interactions") {
			toolbox = &insights[i]
			break
		}
	}
	require.NotNil(t, toolbox)
	// 4 total, baseline = ceil(4/2) = 2, so a 100% increase.
	assert.Equal(t, 4, toolbox.Evidence["toolboxClicks"])
	assert.Equal(t, 2, toolbox.Evidence["prevToolboxClicks"])
	assert.Equal(t, 100, toolbox.Evidence["toolboxChange"])
}

func TestExportService_ToolboxChangePercentRounds(t *testing.T) {
	f := newFixture(t)

	// 5 total, baseline = ceil(5/2) = 3; 2/3 rounds to 67%, not 66%.
	events := make([]telemetry.Event, 5)
	for i := range events {
		events[i] = telemetry.Event{Type: telemetry.EventToolboxClick, TS: int64(i + 1), SessionID: "s1", Path: "/toolbox"}
	}
	seedEvents(f, events)

	insights := f.export.GenerateInsights()

	var toolbox *Insight
	for i := range insights {
		if strings.Contains(insights[i].Insight, "Toolbox interactions") {
			toolbox = &insights[i]
			break
		}
	}
	require.NotNil(t, toolbox)
	assert.Equal(t, 3, toolbox.Evidence["prevToolboxClicks"])
	assert.Equal(t, 67, toolbox.Evidence["toolboxChange"])
	assert.Contains(t, toolbox.Insight, "increased 67%")
}
