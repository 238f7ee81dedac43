// Package services provides the application services of the visitor
// telemetry core: identity, event store, session tracking, daily rollups,
// summary derivation, coach reports, behavior inference, and export.
package services

import (
	"strconv"
	"time"

	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/observability/logging"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/persistence/kv"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/security"
)

// IdentityService derives and persists the long-lived visitor id and the
// per-tab session id. Repeated calls within the same storage lifetime
// return the same values.
type IdentityService struct {
	durable   kv.Store
	ephemeral kv.Store
	logger    *logging.ChanneledLogger
}

// NewIdentityService creates an identity service over the two storage scopes.
func NewIdentityService(durable, ephemeral kv.Store, logger *logging.ChanneledLogger) *IdentityService {
	return &IdentityService{
		durable:   durable,
		ephemeral: ephemeral,
		logger:    logger,
	}
}

// GetOrCreateVisitorID reads the visitor id from durable storage, minting
// and persisting a fresh one when absent. If storage is unavailable the
// call degrades to a volatile id rather than failing.
func (s *IdentityService) GetOrCreateVisitorID() string {
	if vid, ok, err := s.durable.Get(kv.KeyVisitorID); err == nil && ok && vid != "" {
		return vid
	}

	vid := security.GenerateVisitorID()
	if err := s.durable.Set(kv.KeyVisitorID, vid); err != nil {
		s.logger.Storage().Warn("Visitor id not persisted, using volatile id", "error", err.Error())
	}
	return vid
}

// GetOrCreateSessionID reads the session id from ephemeral tab-scoped
// storage, minting one when absent. Same degradation policy as visitor ids.
func (s *IdentityService) GetOrCreateSessionID() string {
	if sid, ok, err := s.ephemeral.Get(kv.KeySessionID); err == nil && ok && sid != "" {
		return sid
	}

	sid := security.GenerateSessionID()
	if err := s.ephemeral.Set(kv.KeySessionID, sid); err != nil {
		s.logger.Storage().Warn("Session id not persisted, using volatile id", "error", err.Error())
	}
	return sid
}

// SessionStart returns the current session's start timestamp in epoch
// milliseconds, stamping now the first time it is asked for.
func (s *IdentityService) SessionStart() int64 {
	if raw, ok, err := s.ephemeral.Get(kv.KeySessionStart); err == nil && ok {
		if start, err := strconv.ParseInt(raw, 10, 64); err == nil && start > 0 {
			return start
		}
	}

	start := time.Now().UnixMilli()
	_ = s.ephemeral.Set(kv.KeySessionStart, strconv.FormatInt(start, 10))
	return start
}
