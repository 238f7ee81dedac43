package services

import (
	"sync"
	"time"

	"github.com/JdarlingGT/portoJD-fresh/internal/domain/telemetry"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/observability/logging"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/persistence/kv"
)

// SessionService maintains the sessions index keyed by session id,
// enabling dwell-time computation.
type SessionService struct {
	durable kv.Store
	logger  *logging.ChanneledLogger
	mu      sync.Mutex
}

// NewSessionService creates a session tracker over durable storage.
func NewSessionService(durable kv.Store, logger *logging.ChanneledLogger) *SessionService {
	return &SessionService{durable: durable, logger: logger}
}

// EnsureSessionRecord creates a record with the given start the first time
// a session is observed. It reports whether any prior sessions existed,
// which drives the return_visit heuristic.
func (s *SessionService) EnsureSessionRecord(sessionID string, start int64) (hadPrevSessions bool, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := telemetry.SessionsIndex{}
	kv.ReadJSON(s.durable, kv.KeySessionsIndex, &index)

	if _, exists := index[sessionID]; exists {
		return len(index) > 1, false
	}

	index[sessionID] = &telemetry.SessionRecord{Start: start}
	kv.WriteJSON(s.durable, kv.KeySessionsIndex, index)

	s.logger.Sessions().Debug("Session record created", "sessionId", sessionID, "start", start)
	return len(index) > 1, true
}

// FinalizeSession stamps the session's end time. Calls are idempotent in
// effect; repeated finalizes simply move the end forward (last write wins).
func (s *SessionService) FinalizeSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := telemetry.SessionsIndex{}
	if !kv.ReadJSON(s.durable, kv.KeySessionsIndex, &index) {
		return
	}

	rec, exists := index[sessionID]
	if !exists {
		return
	}

	rec.End = time.Now().UnixMilli()
	kv.WriteJSON(s.durable, kv.KeySessionsIndex, index)

	s.logger.Sessions().Debug("Session finalized", "sessionId", sessionID, "dwellSeconds", rec.DwellSeconds())
}

// GetIndex returns a copy of the sessions index. A failed read yields an
// empty index.
func (s *SessionService) GetIndex() telemetry.SessionsIndex {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := telemetry.SessionsIndex{}
	kv.ReadJSON(s.durable, kv.KeySessionsIndex, &index)
	return index
}
