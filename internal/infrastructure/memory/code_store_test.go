package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ErlanBelekov/yamdb-auth/internal/infrastructure/memory"
	"github.com/ErlanBelekov/yamdb-auth/internal/repository"
	"github.com/ErlanBelekov/yamdb-auth/internal/repository/codestoretest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newStore(t *testing.T) (*memory.CodeStore, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	return memory.NewCodeStore(memory.WithClock(clock.Now)), clock
}

func TestCodeStore_Contract(t *testing.T) {
	codestoretest.Run(t, func(t *testing.T) (repository.CodeStore, func(time.Duration)) {
		s, clock := newStore(t)
		return s, clock.Advance
	})
}

func TestCodeStore_PurgeExpired(t *testing.T) {
	s, clock := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "old@example.com", "111111", time.Minute))
	require.NoError(t, s.Set(ctx, "new@example.com", "222222", time.Hour))

	clock.Advance(2 * time.Minute)

	n, err := s.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := s.Get(ctx, "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, "222222", got)
}
