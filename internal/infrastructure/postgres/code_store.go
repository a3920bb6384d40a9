package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/yamdb-auth/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CodeStore keeps confirmation codes in the confirmation_codes table.
// Expiry is enforced in every read; rows past expires_at are purged by the sweeper.
type CodeStore struct {
	pool *pgxpool.Pool
}

func NewCodeStore(pool *pgxpool.Pool) *CodeStore {
	return &CodeStore{pool: pool}
}

func (s *CodeStore) Set(ctx context.Context, email, code string, ttl time.Duration) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO confirmation_codes (email, code, expires_at)
		VALUES ($1, $2, NOW() + make_interval(secs => $3))
		ON CONFLICT (email) DO UPDATE
		SET code       = EXCLUDED.code,
		    expires_at = EXCLUDED.expires_at,
		    created_at = NOW()`,
		email, code, ttl.Seconds(),
	)
	if err != nil {
		return fmt.Errorf("set confirmation code: %w", err)
	}
	return nil
}

func (s *CodeStore) Get(ctx context.Context, email string) (string, error) {
	var code string
	err := s.pool.QueryRow(ctx, `
		SELECT code FROM confirmation_codes
		WHERE email = $1 AND expires_at > NOW()`,
		email,
	).Scan(&code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrCodeNotFound
		}
		return "", fmt.Errorf("get confirmation code: %w", err)
	}
	return code, nil
}

func (s *CodeStore) Delete(ctx context.Context, email string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM confirmation_codes WHERE email = $1`, email); err != nil {
		return fmt.Errorf("delete confirmation code: %w", err)
	}
	return nil
}

// Consume relies on the row lock taken by DELETE: a second concurrent
// redemption waits, re-evaluates the WHERE clause and affects zero rows.
func (s *CodeStore) Consume(ctx context.Context, email, code string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM confirmation_codes
		WHERE email = $1 AND code = $2 AND expires_at > NOW()`,
		email, code,
	)
	if err != nil {
		return false, fmt.Errorf("consume confirmation code: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *CodeStore) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM confirmation_codes WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("purge expired codes: %w", err)
	}
	return tag.RowsAffected(), nil
}
