// Package kv provides the key-value storage abstraction backing the
// telemetry core. Durable state (events, sessions index, rollups, visitor
// id) lives in a sqlite-backed store; ephemeral tab-scoped state (session
// id, session start) lives in memory.
package kv

import "encoding/json"

// Store is a minimal key-value contract. Keys map to JSON documents or
// plain strings. Implementations must be safe for concurrent use.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}

// Conceptual key layout, mirroring the site's original storage schema.
const (
	KeyEvents        = "hep:events"       // JSON array of Event
	KeyVisitorID     = "hep:visitorId"    // string
	KeySessionID     = "hep:sessionId"    // string (ephemeral)
	KeySessionsIndex = "hep:sessions"     // JSON map SessionID -> {start, end?}
	KeyRollups       = "hep:rollups"      // JSON array of DailyRollup
	KeyLastRollup    = "hep:lastRollup"   // date-key string
	KeySessionStart  = "hep:sessionStart" // integer ms (ephemeral)
)

// ReadJSON unmarshals the JSON document at key into dest. Any failure
// (missing key, storage error, malformed JSON) reports false and leaves
// dest untouched beyond partial decoding; callers treat that as "absent"
// and fall back to a default. Telemetry must never crash the surrounding
// site over a bad read.
func ReadJSON(s Store, key string, dest any) bool {
	raw, ok, err := s.Get(key)
	if err != nil || !ok || raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false
	}
	return true
}

// WriteJSON marshals value and stores it at key, best effort. Quota and
// storage errors are swallowed.
func WriteJSON(s Store, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = s.Set(key, string(raw))
}
