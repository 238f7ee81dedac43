package telemetry

// SessionRecord tracks one continuous visit. Start is set when the session
// is first observed; End is set opportunistically on page-hide or unload.
// A record with End == 0 is an ongoing session.
type SessionRecord struct {
	Start int64 `json:"start"`
	End   int64 `json:"end,omitempty"`
}

// DwellSeconds returns the session's dwell time. A session that was never
// finalized counts as zero dwell (end defaults to start).
func (r SessionRecord) DwellSeconds() int {
	end := r.End
	if end == 0 {
		end = r.Start
	}
	return SecondsBetween(r.Start, end)
}

// SessionsIndex maps session ids to their records. It is persisted as a
// single JSON document in durable storage.
type SessionsIndex map[string]*SessionRecord
