package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionService_FirstSessionIsNotReturning(t *testing.T) {
	f := newFixture(t)

	hadPrev, created := f.sessions.EnsureSessionRecord("s1", 1000)
	assert.True(t, created)
	assert.False(t, hadPrev)

	// Idempotent for the same session.
	hadPrev, created = f.sessions.EnsureSessionRecord("s1", 2000)
	assert.False(t, created)
	assert.False(t, hadPrev)

	rec := f.sessions.GetIndex()["s1"]
	require.NotNil(t, rec)
	assert.Equal(t, int64(1000), rec.Start, "start is not overwritten")
}

func TestSessionService_SecondSessionSeesPriorHistory(t *testing.T) {
	f := newFixture(t)

	f.sessions.EnsureSessionRecord("s1", 1000)
	hadPrev, created := f.sessions.EnsureSessionRecord("s2", 2000)
	assert.True(t, created)
	assert.True(t, hadPrev)
}

func TestSessionService_FinalizeStampsEnd(t *testing.T) {
	f := newFixture(t)

	start := time.Now().UnixMilli() - 5000
	f.sessions.EnsureSessionRecord("s1", start)
	f.sessions.FinalizeSession("s1")

	rec := f.sessions.GetIndex()["s1"]
	require.NotNil(t, rec)
	assert.Greater(t, rec.End, int64(0))
	assert.GreaterOrEqual(t, rec.DwellSeconds(), 5)
}

func TestSessionService_FinalizeLastWriteWins(t *testing.T) {
	f := newFixture(t)

	f.sessions.EnsureSessionRecord("s1", time.Now().UnixMilli())
	f.sessions.FinalizeSession("s1")
	first := f.sessions.GetIndex()["s1"].End

	time.Sleep(5 * time.Millisecond)
	f.sessions.FinalizeSession("s1")
	second := f.sessions.GetIndex()["s1"].End

	assert.GreaterOrEqual(t, second, first)
}

func TestSessionService_FinalizeUnknownSessionIsNoop(t *testing.T) {
	f := newFixture(t)

	f.sessions.FinalizeSession("ghost")
	assert.Empty(t, f.sessions.GetIndex())
}
