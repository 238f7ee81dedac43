package services

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/JdarlingGT/portoJD-fresh/internal/domain/telemetry"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/observability/logging"
)

// Insight is one auto-generated observation with a recommendation.
type Insight struct {
	Insight        string         `json:"insight"`
	Recommendation string         `json:"recommendation"`
	Evidence       map[string]any `json:"evidence,omitempty"`
}

// ExportService provides admin-facing raw exports and the ranked insight
// feed. Exports are pure reads.
type ExportService struct {
	events  *EventService
	summary *SummaryService
	rollups *RollupService
	logger  *logging.ChanneledLogger
}

// NewExportService creates the export service.
func NewExportService(
	events *EventService,
	summary *SummaryService,
	rollups *RollupService,
	logger *logging.ChanneledLogger,
) *ExportService {
	return &ExportService{
		events:  events,
		summary: summary,
		rollups: rollups,
		logger:  logger,
	}
}

// ToJSON renders the filtered event list as pretty-printed JSON.
func (s *ExportService) ToJSON(filter *telemetry.EventFilter) (string, error) {
	events := s.events.GetAll(filter)
	raw, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal events: %w", err)
	}
	return string(raw), nil
}

var csvHeader = []string{"ts", "date", "type", "path", "id", "source", "sessionId", "meta_json"}

// ToCSV renders the filtered event list as CSV. The date column is the
// RFC3339 rendering of ts; meta is embedded as a JSON string.
func (s *ExportService) ToCSV(filter *telemetry.EventFilter) (string, error) {
	events := s.events.GetAll(filter)

	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, e := range events {
		meta := "{}"
		if e.Meta != nil {
			if raw, err := json.Marshal(e.Meta); err == nil {
				meta = string(raw)
			}
		}
		row := []string{
			strconv.FormatInt(e.TS, 10),
			time.UnixMilli(e.TS).UTC().Format(time.RFC3339Nano),
			string(e.Type),
			e.Path,
			e.ID,
			e.Source,
			e.SessionID,
			meta,
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("csv export failed: %w", err)
	}
	return sb.String(), nil
}

// ParseCSV reads a CSV export back into events. Used by round-trip
// verification and re-import tooling.
func ParseCSV(data string) ([]telemetry.Event, error) {
	r := csv.NewReader(strings.NewReader(data))
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	events := make([]telemetry.Event, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) != len(csvHeader) {
			return nil, fmt.Errorf("unexpected csv row width %d", len(row))
		}
		ts, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad ts column: %w", err)
		}
		var meta map[string]any
		if row[7] != "" && row[7] != "{}" {
			if err := json.Unmarshal([]byte(row[7]), &meta); err != nil {
				return nil, fmt.Errorf("bad meta column: %w", err)
			}
		}
		events = append(events, telemetry.Event{
			Type:      telemetry.EventType(row[2]),
			TS:        ts,
			SessionID: row[6],
			Path:      row[3],
			ID:        row[4],
			Source:    row[5],
			Meta:      meta,
		})
	}
	return events, nil
}

// GenerateInsights produces ranked insight summaries for the dashboard.
func (s *ExportService) GenerateInsights() []Insight {
	summary := s.summary.GetSummary()
	rollups := s.rollups.GetDailyRollups()
	events := s.events.GetAll(nil)

	var insights []Insight

	last7 := rollups
	if len(last7) > 7 {
		last7 = last7[len(last7)-7:]
	}

	// Toolbox trend. The "previous period" here is the first half of the
	// click history, a naive approximation carried over intentionally; a
	// true two-window comparison would change the meaning of the delta.
	toolboxClicks := 0
	for _, e := range events {
		if e.Type == telemetry.EventToolboxClick {
			toolboxClicks++
		}
	}
	prevToolboxClicks := toolboxClicks - toolboxClicks/2
	if toolboxClicks > 0 {
		change := 100
		if prevToolboxClicks > 0 {
			change = int(math.Round(float64(toolboxClicks-prevToolboxClicks) / float64(prevToolboxClicks) * 100))
		}
		direction := "increased"
		recommendation := "Promote top tools above the fold and add in-line “try now” CTAs."
		if change < 0 {
			direction = "decreased"
			recommendation = "Refresh Toolbox CTA and surface top-performing tools within the homepage hero."
		}
		abs := change
		if abs < 0 {
			abs = -abs
		}
		insights = append(insights, Insight{
			Insight:        fmt.Sprintf("Toolbox interactions %s %d%% recently", direction, abs),
			Recommendation: recommendation,
			Evidence: map[string]any{
				"toolboxClicks":     toolboxClicks,
				"prevToolboxClicks": prevToolboxClicks,
				"toolboxChange":     change,
			},
		})
	}

	// Feature leader across the last seven rollups.
	if len(last7) > 0 {
		topFeat := modeByDay(last7, func(r telemetry.DailyRollup) string { return r.MostUsedFeature }, "")
		if topFeat != "" {
			insights = append(insights, Insight{
				Insight:        fmt.Sprintf("%s led engagement across the last %d days", topFeat, len(last7)),
				Recommendation: fmt.Sprintf("Double down on %s by surfacing it earlier in the journey and adding a contextual CTA.", topFeat),
				Evidence:       map[string]any{"windowDays": len(last7)},
			})
		}
	}

	// Dwell heuristic.
	if summary.AvgDwellTime > 120 {
		insights = append(insights, Insight{
			Insight:        fmt.Sprintf("Average session time is strong at %ds", summary.AvgDwellTime),
			Recommendation: "Consider longer-form content or embedded demos to capitalize on attention.",
			Evidence:       map[string]any{"avgDwellTime": summary.AvgDwellTime},
		})
	} else {
		insights = append(insights, Insight{
			Insight:        fmt.Sprintf("Average session time is modest at %ds", summary.AvgDwellTime),
			Recommendation: "Experiment with sticky CTAs and page-level guidance to improve depth.",
			Evidence:       map[string]any{"avgDwellTime": summary.AvgDwellTime},
		})
	}

	// MVP project signal.
	if len(summary.MostOpenedProjects) > 0 {
		mvp := summary.MostOpenedProjects[0]
		insights = append(insights, Insight{
			Insight:        fmt.Sprintf("Project %q is the current MVP with %d opens", mvp.ID, mvp.Count),
			Recommendation: fmt.Sprintf("Feature %q in the hero carousel and add a tailored CTA to convert interest.", mvp.ID),
			Evidence:       map[string]any{"id": mvp.ID, "count": mvp.Count},
		})
	}

	// Keyword nudge.
	if len(summary.ConversationKeywords) > 0 {
		n := len(summary.ConversationKeywords)
		if n > 3 {
			n = 3
		}
		tops := make([]string, 0, n)
		for _, k := range summary.ConversationKeywords[:n] {
			tops = append(tops, k.Word)
		}
		insights = append(insights, Insight{
			Insight:        fmt.Sprintf("Visitors ask most about: %s", strings.Join(tops, ", ")),
			Recommendation: "Create a short FAQ or quick-demo links targeting these topics directly in Hep's opening prompts.",
			Evidence:       map[string]any{"topKeywords": tops},
		})
	}

	// Naive priority: MVP > feature trend > dwell > keywords > toolbox.
	rank := func(i Insight) int {
		switch {
		case strings.Contains(i.Insight, "MVP"):
			return 100
		case strings.Contains(i.Insight, "led engagement"):
			return 80
		case strings.Contains(i.Insight, "Average session time"):
			return 60
		case strings.Contains(i.Insight, "Visitors ask most"):
			return 50
		case strings.Contains(i.Insight, "Toolbox interactions"):
			return 40
		default:
			return 10
		}
	}
	for i := 0; i < len(insights)-1; i++ {
		for j := i + 1; j < len(insights); j++ {
			if rank(insights[i]) < rank(insights[j]) {
				insights[i], insights[j] = insights[j], insights[i]
			}
		}
	}

	return insights
}
