package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/ErlanBelekov/yamdb-auth/internal/domain"
	"github.com/ErlanBelekov/yamdb-auth/internal/infrastructure/postgres"
	"github.com/ErlanBelekov/yamdb-auth/internal/repository"
	"github.com/ErlanBelekov/yamdb-auth/internal/repository/codestoretest"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests truncate tables, so they use their own variable rather than DATABASE_URL.
const testDatabaseURLEnv = "TEST_DATABASE_URL"

func newPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv(testDatabaseURLEnv)
	if url == "" {
		t.Skipf("%s not set", testDatabaseURLEnv)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, url, postgres.WithApplicationName("yamdb-test"), postgres.WithMaxConns(20))
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	schema, err := os.ReadFile("../../../migrations/0001_users_and_confirmation_codes.sql")
	require.NoError(t, err)
	_, err = pool.Exec(ctx, string(schema))
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `TRUNCATE confirmation_codes, users`)
	require.NoError(t, err)
	return pool
}

// rewind moves every expiry back by d, which is how the store observes time passing.
func rewind(t *testing.T, pool *pgxpool.Pool) func(time.Duration) {
	return func(d time.Duration) {
		_, err := pool.Exec(context.Background(),
			`UPDATE confirmation_codes SET expires_at = expires_at - make_interval(secs => $1)`,
			d.Seconds(),
		)
		require.NoError(t, err)
	}
}

func TestCodeStore_Contract(t *testing.T) {
	codestoretest.Run(t, func(t *testing.T) (repository.CodeStore, func(time.Duration)) {
		pool := newPool(t)
		return postgres.NewCodeStore(pool), rewind(t, pool)
	})
}

func TestCodeStore_PurgeExpired(t *testing.T) {
	pool := newPool(t)
	s := postgres.NewCodeStore(pool)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "old@example.com", "111111", time.Minute))
	require.NoError(t, s.Set(ctx, "new@example.com", "222222", time.Hour))
	rewind(t, pool)(2 * time.Minute)

	n, err := s.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := s.Get(ctx, "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, "222222", got)
}

func TestUserRepository_FindOrCreateIsIdempotent(t *testing.T) {
	repo := postgres.NewUserRepository(newPool(t))
	ctx := context.Background()

	first, err := repo.FindOrCreate(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, first.Role)

	second, err := repo.FindOrCreate(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestUserRepository_ProfileAndRole(t *testing.T) {
	repo := postgres.NewUserRepository(newPool(t))
	ctx := context.Background()

	a, err := repo.FindOrCreate(ctx, "a@example.com")
	require.NoError(t, err)
	b, err := repo.FindOrCreate(ctx, "b@example.com")
	require.NoError(t, err)

	name := "alice"
	updated, err := repo.UpdateProfile(ctx, a.ID, domain.ProfileUpdate{Username: &name})
	require.NoError(t, err)
	require.NotNil(t, updated.Username)
	assert.Equal(t, "alice", *updated.Username)

	_, err = repo.UpdateProfile(ctx, b.ID, domain.ProfileUpdate{Username: &name})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	require.NoError(t, repo.SetRole(ctx, b.ID, domain.RoleAdmin))
	got, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, got.Role)

	assert.ErrorIs(t, repo.SetRole(ctx, "00000000-0000-0000-0000-000000000000", domain.RoleAdmin), domain.ErrUserNotFound)
}
