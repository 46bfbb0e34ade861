package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestManager_NewAndGet(t *testing.T) {
	m := NewManager(time.Minute, zap.NewNop().Sugar())

	s := m.New()
	require.NotEmpty(t, s.ID)

	got, err := m.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Equal(t, 1, m.Count())
}

func TestManager_GetUnknownID(t *testing.T) {
	m := NewManager(time.Minute, zap.NewNop().Sugar())

	_, err := m.Get("nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_SessionIDsAreUnique(t *testing.T) {
	m := NewManager(time.Minute, zap.NewNop().Sugar())

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		s := m.New()
		assert.False(t, seen[s.ID])
		seen[s.ID] = true
	}
}

func TestManager_EvictIdleSessions(t *testing.T) {
	m := NewManager(time.Minute, zap.NewNop().Sugar())

	now := time.Now()
	m.now = func() time.Time { return now }

	stale := m.New()
	now = now.Add(2 * time.Minute)
	fresh := m.New()

	m.evictIdle()

	_, err := m.Get(stale.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = m.Get(fresh.ID)
	assert.NoError(t, err)
}
