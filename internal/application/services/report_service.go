package services

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/JdarlingGT/portoJD-fresh/internal/domain/telemetry"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/observability/logging"
)

// ReportPeriod selects the trailing rollup window for a coach report.
type ReportPeriod string

const (
	PeriodWeekly  ReportPeriod = "weekly"
	PeriodMonthly ReportPeriod = "monthly"
)

// ReportService synthesizes the "Coach Hep" post-game narrative from daily
// rollups plus the whole-history summary. Inputs are deterministic; the
// phrasing choice is driven by the injected random source so tests can
// seed it.
type ReportService struct {
	rollups *RollupService
	summary *SummaryService
	logger  *logging.ChanneledLogger
}

// NewReportService creates the report generator.
func NewReportService(rollups *RollupService, summary *SummaryService, logger *logging.ChanneledLogger) *ReportService {
	return &ReportService{rollups: rollups, summary: summary, logger: logger}
}

var openingLines = []string{
	"Hey Jacob — here’s our post-game recap.",
	"Alright Jacob, film session time. Here’s the tape.",
	"Coach Hep checking in with the numbers.",
}

var closingLines = []string{
	"But hey — belief never dips. On to the next play.",
	"Keep the intensity up — next possession starts now.",
	"That’s the recap. Rest up, we run it back tomorrow.",
}

// GenerateCoachReport builds the narrative for the given period over a
// trailing window of 7 (weekly) or 30 (monthly) rollups.
func (s *ReportService) GenerateCoachReport(period ReportPeriod, rng *rand.Rand) string {
	horizon := 7
	periodLabel := "this week"
	if period == PeriodMonthly {
		horizon = 30
		periodLabel = "this month"
	}

	rollups := s.rollups.GetDailyRollups()
	recent := rollups
	if len(recent) > horizon {
		recent = recent[len(recent)-horizon:]
	}

	sessions := 0
	dwellSum := 0
	for _, r := range recent {
		sessions += r.Sessions
		dwellSum += r.AvgSessionTime
	}
	// Mean of per-day means, not a volume-weighted average.
	avgSessionTime := 0
	if len(recent) > 0 {
		avgSessionTime = (dwellSum + len(recent)/2) / len(recent)
	}

	// Each day casts one vote for its top page and feature, regardless of
	// that day's event volume.
	topPage := modeByDay(recent, func(r telemetry.DailyRollup) string { return r.TopPage }, "/")
	mostUsedFeature := modeByDay(recent, func(r telemetry.DailyRollup) string { return r.MostUsedFeature }, "Chat")

	summary := s.summary.GetSummary()
	repeatsApprox := int(summary.ReturnRate*float64(sessions) + 0.5)

	var lines []string
	lines = append(lines, pick(rng, openingLines))
	lines = append(lines, fmt.Sprintf(
		"%d visitors %s, %d repeat sessions, average session time %ds.",
		sessions, periodLabel, repeatsApprox, avgSessionTime,
	))

	if len(summary.MostOpenedProjects) > 0 {
		mvp := summary.MostOpenedProjects[0]
		lines = append(lines, fmt.Sprintf("MVP remains %s — %d clicks.", mvp.ID, mvp.Count))
	} else {
		lines = append(lines, "We’re spreading the ball — no single MVP project yet.")
	}

	lines = append(lines, fmt.Sprintf(
		"Engagement loved %s — and top page heat stays on %s.",
		strings.ToLower(mostUsedFeature), topPage,
	))

	toolboxHot := false
	for _, h := range summary.EngagementHotspots {
		if h.Path == "/toolbox" {
			toolboxHot = true
			break
		}
	}
	if toolboxHot {
		lines = append(lines, "Toolbox momentum looks solid — consider promoting top tools above the fold.")
	} else {
		lines = append(lines, "Let’s tweak the CTA on the Toolbox — conversions could be stronger.")
	}

	lines = append(lines, pick(rng, closingLines))

	s.logger.Analytics().Debug("Coach report generated", "period", string(period), "windowDays", len(recent))
	return strings.Join(lines, "\n")
}

// modeByDay returns the most frequent value across the window, one vote
// per day, ties broken by first encounter.
func modeByDay(rollups []telemetry.DailyRollup, pickField func(telemetry.DailyRollup) string, fallback string) string {
	counts := make(map[string]int)
	var order []string
	for _, r := range rollups {
		v := pickField(r)
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}

	result := fallback
	best := 0
	for _, v := range order {
		if counts[v] > best {
			best = counts[v]
			result = v
		}
	}
	return result
}

func pick(rng *rand.Rand, options []string) string {
	if rng == nil {
		return options[0]
	}
	return options[rng.Intn(len(options))]
}
