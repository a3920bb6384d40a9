// Package codestoretest is a behavioural test suite shared by every
// repository.CodeStore implementation.
package codestoretest

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ErlanBelekov/yamdb-auth/internal/domain"
	"github.com/ErlanBelekov/yamdb-auth/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, empty store and a function that moves the store's
// notion of time forward.
type Factory func(t *testing.T) (repository.CodeStore, func(time.Duration))

const (
	email = "a@example.com"
	ttl   = 300 * time.Second
)

func Run(t *testing.T, newStore Factory) {
	t.Run("GetMissing", func(t *testing.T) {
		s, _ := newStore(t)
		_, err := s.Get(context.Background(), email)
		assert.ErrorIs(t, err, domain.ErrCodeNotFound)
	})

	t.Run("SetThenGet", func(t *testing.T) {
		s, _ := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.Set(ctx, email, "004512", ttl))

		got, err := s.Get(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, "004512", got)
	})

	t.Run("SetOverwrites", func(t *testing.T) {
		s, _ := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.Set(ctx, email, "111111", ttl))
		require.NoError(t, s.Set(ctx, email, "222222", ttl))

		got, err := s.Get(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, "222222", got)

		ok, err := s.Consume(ctx, email, "111111")
		require.NoError(t, err)
		assert.False(t, ok, "superseded code must not be redeemable")
	})

	t.Run("ExpiredIsAbsent", func(t *testing.T) {
		s, advance := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.Set(ctx, email, "123456", ttl))

		advance(ttl + time.Second)

		_, err := s.Get(ctx, email)
		assert.ErrorIs(t, err, domain.ErrCodeNotFound)
		ok, err := s.Consume(ctx, email, "123456")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("LiveBeforeTTL", func(t *testing.T) {
		s, advance := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.Set(ctx, email, "123456", ttl))

		advance(ttl - 10*time.Second)

		got, err := s.Get(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, "123456", got)
	})

	t.Run("DeleteIsIdempotent", func(t *testing.T) {
		s, _ := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.Set(ctx, email, "123456", ttl))

		require.NoError(t, s.Delete(ctx, email))
		require.NoError(t, s.Delete(ctx, email))

		_, err := s.Get(ctx, email)
		assert.ErrorIs(t, err, domain.ErrCodeNotFound)
	})

	t.Run("ConsumeIsSingleUse", func(t *testing.T) {
		s, _ := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.Set(ctx, email, "123456", ttl))

		ok, err := s.Consume(ctx, email, "123456")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = s.Consume(ctx, email, "123456")
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = s.Get(ctx, email)
		assert.ErrorIs(t, err, domain.ErrCodeNotFound)
	})

	t.Run("ConsumeMismatchKeepsEntry", func(t *testing.T) {
		s, _ := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.Set(ctx, email, "123456", ttl))

		ok, err := s.Consume(ctx, email, "654321")
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = s.Consume(ctx, email, "123456")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("ConsumeIsPerIdentity", func(t *testing.T) {
		s, _ := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.Set(ctx, email, "123456", ttl))

		ok, err := s.Consume(ctx, "b@example.com", "123456")
		require.NoError(t, err)
		assert.False(t, ok)

		got, err := s.Get(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, "123456", got)
	})

	t.Run("ConcurrentConsumeSucceedsOnce", func(t *testing.T) {
		s, _ := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.Set(ctx, email, "123456", ttl))

		const racers = 16
		var (
			wg        sync.WaitGroup
			successes atomic.Int32
			start     = make(chan struct{})
		)
		for i := 0; i < racers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				ok, err := s.Consume(ctx, email, "123456")
				if err != nil {
					t.Errorf("consume: %v", err)
					return
				}
				if ok {
					successes.Add(1)
				}
			}()
		}
		close(start)
		wg.Wait()

		assert.Equal(t, int32(1), successes.Load())
	})
}
