package telemetry

// DailyRollup is the compact once-per-day summary of the preceding day's
// events. At most one rollup exists per date key; days with zero events
// produce no rollup at all.
type DailyRollup struct {
	Date            string `json:"date"` // YYYY-MM-DD, local wall clock
	Sessions        int    `json:"sessions"`
	AvgSessionTime  int    `json:"avgSessionTime"` // seconds
	TopPage         string `json:"topPage"`
	MostUsedFeature string `json:"mostUsedFeature"`
}
