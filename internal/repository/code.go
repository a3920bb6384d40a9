package repository

import (
	"context"
	"time"
)

// CodeStore holds at most one outstanding confirmation code per email.
// Entries past their TTL must behave exactly like entries never written.
// Implementations must be safe for concurrent use.
type CodeStore interface {
	// Set stores code for email, replacing any previous code, expiring after ttl.
	Set(ctx context.Context, email, code string, ttl time.Duration) error
	// Get returns the live code for email or domain.ErrCodeNotFound.
	Get(ctx context.Context, email string) (string, error)
	// Delete removes the entry for email. Deleting a missing entry is not an error.
	Delete(ctx context.Context, email string) error
	// Consume atomically deletes the entry for email if it is live and equals code.
	// A mismatch leaves the entry untouched and reports false.
	Consume(ctx context.Context, email, code string) (bool, error)
}
