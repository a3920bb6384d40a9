// Package memory provides a process-local confirmation code store for
// local development and tests. It does not survive restarts and is not
// shared between replicas.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ErlanBelekov/yamdb-auth/internal/domain"
)

type entry struct {
	code      string
	expiresAt time.Time
}

type CodeStore struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

type Option func(*CodeStore)

// WithClock overrides time.Now, letting tests move past a TTL without sleeping.
func WithClock(now func() time.Time) Option {
	return func(s *CodeStore) {
		s.now = now
	}
}

func NewCodeStore(opts ...Option) *CodeStore {
	s := &CodeStore{
		entries: make(map[string]entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *CodeStore) Set(_ context.Context, email, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[email] = entry{code: code, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *CodeStore) Get(_ context.Context, email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(email)
	if !ok {
		return "", domain.ErrCodeNotFound
	}
	return e.code, nil
}

func (s *CodeStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, email)
	return nil
}

func (s *CodeStore) Consume(_ context.Context, email, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(email)
	if !ok || e.code != code {
		return false, nil
	}
	delete(s.entries, email)
	return true, nil
}

// PurgeExpired drops every entry past its deadline and returns how many were removed.
func (s *CodeStore) PurgeExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var n int64
	for email, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, email)
			n++
		}
	}
	return n, nil
}

// live must be called with mu held. Expired entries are removed on sight.
func (s *CodeStore) live(email string) (entry, bool) {
	e, ok := s.entries[email]
	if !ok {
		return entry{}, false
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, email)
		return entry{}, false
	}
	return e, true
}
