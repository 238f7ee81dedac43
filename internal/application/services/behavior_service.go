package services

import (
	"sync"
	"time"

	"github.com/JdarlingGT/portoJD-fresh/internal/domain/telemetry"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/messaging"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/observability/logging"
)

// Mood classifies the current session's engagement level.
type Mood string

const (
	MoodCoach   Mood = "coach" // high engagement
	MoodFilm    Mood = "film"  // low engagement
	MoodNeutral Mood = "neutral"
)

// BehaviorState is the read-model surfaced to the UI.
type BehaviorState struct {
	Mood   Mood   `json:"mood"`
	Prompt string `json:"prompt,omitempty"`
}

// BehaviorConfig carries the inference thresholds and timer cadences.
type BehaviorConfig struct {
	IdleNudgeAfter    time.Duration
	IdleCheckInterval time.Duration
	BounceMarks       []time.Duration
	DemoThreshold     int
}

// DefaultBehaviorConfig mirrors the site's original timings: an idle nudge
// after 60s of no store changes checked every 5s, bounce checks at the
// 30/60/90 second marks, and a demo nudge at five interactions.
func DefaultBehaviorConfig() BehaviorConfig {
	return BehaviorConfig{
		IdleNudgeAfter:    60 * time.Second,
		IdleCheckInterval: 5 * time.Second,
		BounceMarks:       []time.Duration{30 * time.Second, 60 * time.Second, 90 * time.Second},
		DemoThreshold:     5,
	}
}

const (
	promptDemo   = "You’ve been clicking like Isiah on a fast break — ready for a project demo?"
	promptIdle   = "Timeout! Coach says stretch and hydrate."
	promptBounce = "Want me to fetch something cool before you go?"
)

// bounceTypes is the interaction set the bounce heuristic watches. The
// crazyboy trigger is deliberately left out of this one.
var bounceTypes = []telemetry.EventType{
	telemetry.EventChatMessage,
	telemetry.EventToolboxClick,
	telemetry.EventVoiceQuery,
	telemetry.EventPlayCall,
}

// BehaviorService is a continuously-updating read-model over the current
// session. It subscribes to store change notifications, classifies mood,
// and surfaces latched nudges. Teardown stops every timer it started.
type BehaviorService struct {
	events      *EventService
	broadcaster messaging.Broadcaster
	config      BehaviorConfig
	logger      *logging.ChanneledLogger

	mu           sync.Mutex
	mood         Mood
	prompt       string
	lastActivity time.Time
	sessionStart time.Time
	shownDemo    bool
	shownIdle    bool
	shownBounce  bool

	cancelSub    func()
	idleTicker   *time.Ticker
	bounceTimers []*time.Timer
	done         chan struct{}
	stopOnce     sync.Once
}

// NewBehaviorService creates the behavior inference service. Call Start to
// begin watching and Teardown to release its timers.
func NewBehaviorService(
	events *EventService,
	broadcaster messaging.Broadcaster,
	config BehaviorConfig,
	logger *logging.ChanneledLogger,
) *BehaviorService {
	return &BehaviorService{
		events:      events,
		broadcaster: broadcaster,
		config:      config,
		logger:      logger,
		mood:        MoodNeutral,
	}
}

// Start subscribes to store changes and arms the idle and bounce timers.
func (s *BehaviorService) Start() {
	now := time.Now()

	s.mu.Lock()
	s.lastActivity = now
	s.sessionStart = now
	s.done = make(chan struct{})
	s.mu.Unlock()

	ch, cancel := s.broadcaster.Subscribe()
	s.cancelSub = cancel

	go func() {
		for range ch {
			s.mu.Lock()
			s.lastActivity = time.Now()
			s.mu.Unlock()
			s.computeState()
		}
	}()

	s.idleTicker = time.NewTicker(s.config.IdleCheckInterval)
	go func() {
		for {
			select {
			case <-s.idleTicker.C:
				s.checkIdle()
			case <-s.done:
				return
			}
		}
	}()

	for _, mark := range s.config.BounceMarks {
		s.bounceTimers = append(s.bounceTimers, time.AfterFunc(mark, s.checkBounce))
	}

	s.computeState()
}

// Teardown cancels the subscription and stops all timers.
func (s *BehaviorService) Teardown() {
	s.stopOnce.Do(func() {
		if s.cancelSub != nil {
			s.cancelSub()
		}
		if s.idleTicker != nil {
			s.idleTicker.Stop()
		}
		for _, t := range s.bounceTimers {
			t.Stop()
		}
		if s.done != nil {
			close(s.done)
		}
	})
}

// State returns the current mood and pending nudge, if any.
func (s *BehaviorService) State() BehaviorState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return BehaviorState{Mood: s.mood, Prompt: s.prompt}
}

// computeState reclassifies mood and evaluates the demo nudge. It runs on
// every store change notification.
func (s *BehaviorService) computeState() {
	interactions := s.events.SessionInteractionCount(telemetry.InteractionTypes)
	viewedProject := s.events.SessionHasViewedProject()

	s.mu.Lock()
	defer s.mu.Unlock()

	if interactions >= 3 || viewedProject {
		s.mood = MoodCoach
	} else {
		s.mood = MoodFilm
	}

	// Demo nudge has the highest priority: lots of clicking, zero demos.
	if !s.shownDemo && interactions >= s.config.DemoThreshold && !viewedProject {
		s.prompt = promptDemo
		s.shownDemo = true
		s.logger.Behavior().Info("Demo nudge surfaced", "interactions", interactions)
		return
	}

	// Keep a shown demo prompt on screen; otherwise clear so the timer
	// driven nudges can take the slot.
	if s.prompt != "" && s.shownDemo {
		return
	}
	s.prompt = ""
}

// checkIdle fires the stretch nudge after a quiet minute, once per session.
func (s *BehaviorService) checkIdle() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.shownIdle {
		return
	}
	if time.Since(s.lastActivity) >= s.config.IdleNudgeAfter {
		s.prompt = promptIdle
		s.shownIdle = true
		s.logger.Behavior().Info("Idle nudge surfaced")
	}
}

// checkBounce fires the bounce-risk nudge when engagement stays at one
// interaction or fewer by the configured marks, once per session.
func (s *BehaviorService) checkBounce() {
	interactions := s.events.SessionInteractionCount(bounceTypes)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.shownBounce {
		return
	}
	if time.Since(s.sessionStart) >= s.config.BounceMarks[0] && interactions <= 1 {
		s.prompt = promptBounce
		s.shownBounce = true
		s.logger.Behavior().Info("Bounce nudge surfaced", "interactions", interactions)
	}
}
