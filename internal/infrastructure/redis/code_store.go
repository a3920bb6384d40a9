package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/yamdb-auth/internal/domain"
	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "confirmation_code:"

// consumeScript deletes KEYS[1] only when it holds ARGV[1]. Redis runs scripts
// atomically, so of two racing redemptions exactly one sees the value.
var consumeScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type CodeStore struct {
	client goredis.UniversalClient
}

func NewCodeStore(client goredis.UniversalClient) *CodeStore {
	return &CodeStore{client: client}
}

// NewClient parses a redis:// URL and verifies the server is reachable.
func NewClient(ctx context.Context, redisURL string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 2 * time.Second
	opts.WriteTimeout = 2 * time.Second

	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func key(email string) string {
	return keyPrefix + email
}

func (s *CodeStore) Set(ctx context.Context, email, code string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key(email), code, ttl).Err(); err != nil {
		return fmt.Errorf("set confirmation code: %w", err)
	}
	return nil
}

func (s *CodeStore) Get(ctx context.Context, email string) (string, error) {
	code, err := s.client.Get(ctx, key(email)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", domain.ErrCodeNotFound
		}
		return "", fmt.Errorf("get confirmation code: %w", err)
	}
	return code, nil
}

func (s *CodeStore) Delete(ctx context.Context, email string) error {
	if err := s.client.Del(ctx, key(email)).Err(); err != nil {
		return fmt.Errorf("delete confirmation code: %w", err)
	}
	return nil
}

func (s *CodeStore) Consume(ctx context.Context, email, code string) (bool, error) {
	deleted, err := consumeScript.Run(ctx, s.client, []string{key(email)}, code).Int()
	if err != nil {
		return false, fmt.Errorf("consume confirmation code: %w", err)
	}
	return deleted == 1, nil
}

// Ping satisfies health.Pinger.
func (s *CodeStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
