package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventType_IsValid(t *testing.T) {
	assert.True(t, EventPageView.IsValid())
	assert.True(t, EventCrazyBoy.IsValid())
	assert.True(t, EventEngagementPing.IsValid())
	assert.False(t, EventType("mouse_move").IsValid())
	assert.False(t, EventType("").IsValid())
}

func TestEventFilter_NilMatchesEverything(t *testing.T) {
	var f *EventFilter
	assert.True(t, f.Matches(Event{Type: EventPageView, TS: 1}))
}

func TestEventFilter_TypeAndBounds(t *testing.T) {
	f := &EventFilter{
		Types:  []EventType{EventChatMessage, EventToolboxClick},
		FromTS: 100,
		ToTS:   200,
	}

	assert.True(t, f.Matches(Event{Type: EventChatMessage, TS: 100}), "from bound is inclusive")
	assert.True(t, f.Matches(Event{Type: EventToolboxClick, TS: 200}), "to bound is inclusive")
	assert.False(t, f.Matches(Event{Type: EventChatMessage, TS: 99}))
	assert.False(t, f.Matches(Event{Type: EventChatMessage, TS: 201}))
	assert.False(t, f.Matches(Event{Type: EventPageView, TS: 150}), "type not in set")
}

func TestFeatureForType(t *testing.T) {
	assert.Equal(t, "Voice Mode", FeatureForType(EventVoiceQuery))
	assert.Equal(t, "Chat", FeatureForType(EventChatMessage))
	assert.Equal(t, "Toolbox", FeatureForType(EventToolboxClick))
	assert.Equal(t, "Case Studies", FeatureForType(EventViewCaseStudy))
	assert.Equal(t, "CrazyBoy", FeatureForType(EventCrazyBoy))
	assert.Equal(t, "Play Calls", FeatureForType(EventPlayCall))
	assert.Equal(t, "Other", FeatureForType(EventPageView))
	assert.Equal(t, "Other", FeatureForType(EventNapStart))
}

func TestDateKey_LocalWallClock(t *testing.T) {
	noon := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	assert.Equal(t, "2026-03-15", DateKey(noon.UnixMilli()))

	// Just before local midnight stays on the same local day.
	lateNight := time.Date(2026, 3, 15, 23, 59, 59, 0, time.Local)
	assert.Equal(t, "2026-03-15", DateKey(lateNight.UnixMilli()))
}

func TestSecondsBetween(t *testing.T) {
	assert.Equal(t, 0, SecondsBetween(1000, 1000))
	assert.Equal(t, 0, SecondsBetween(2000, 1000), "clamped to zero when b precedes a")
	assert.Equal(t, 1, SecondsBetween(0, 1000))
	assert.Equal(t, 2, SecondsBetween(0, 1500), "rounds half up")
	assert.Equal(t, 1, SecondsBetween(0, 1499))
}

func TestSessionRecord_DwellSeconds(t *testing.T) {
	assert.Equal(t, 0, SessionRecord{Start: 5000}.DwellSeconds(), "unfinalized session counts as zero dwell")
	assert.Equal(t, 30, SessionRecord{Start: 0, End: 30000}.DwellSeconds())
}
