package services

import (
	"testing"

	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/persistence/kv"
	"github.com/stretchr/testify/assert"
)

func TestIdentityService_VisitorIDStable(t *testing.T) {
	f := newFixture(t)

	vid := f.identity.GetOrCreateVisitorID()
	assert.NotEmpty(t, vid)
	assert.Equal(t, vid, f.identity.GetOrCreateVisitorID(), "repeated calls return the same visitor id")

	// The visitor id survives a new session.
	f.ephemeral.Reset()
	assert.Equal(t, vid, f.identity.GetOrCreateVisitorID())
}

func TestIdentityService_SessionIDScopedToTab(t *testing.T) {
	f := newFixture(t)

	sid := f.identity.GetOrCreateSessionID()
	assert.NotEmpty(t, sid)
	assert.Equal(t, sid, f.identity.GetOrCreateSessionID())

	// Clearing ephemeral storage mints a new session id.
	f.ephemeral.Reset()
	assert.NotEqual(t, sid, f.identity.GetOrCreateSessionID())
}

func TestIdentityService_VisitorAndSessionIndependent(t *testing.T) {
	f := newFixture(t)
	assert.NotEqual(t, f.identity.GetOrCreateVisitorID(), f.identity.GetOrCreateSessionID())
}

func TestIdentityService_SessionStartStable(t *testing.T) {
	f := newFixture(t)

	start := f.identity.SessionStart()
	assert.Greater(t, start, int64(0))
	assert.Equal(t, start, f.identity.SessionStart(), "start is stamped once per session")
}

func TestIdentityService_IgnoresGarbageSessionStart(t *testing.T) {
	f := newFixture(t)

	_ = f.ephemeral.Set(kv.KeySessionStart, "not-a-number")
	start := f.identity.SessionStart()
	assert.Greater(t, start, int64(0), "garbage value falls back to a fresh stamp")
}
