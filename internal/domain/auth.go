package domain

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUnauthorized = errors.New("unauthorized")

	// Confirmation code flow
	ErrCodeNotFound         = errors.New("confirmation code not found")
	ErrInvalidOrExpiredCode = errors.New("confirmation code is invalid or expired")
	ErrInvalidIdentity      = errors.New("invalid email address")
	ErrTooManyRequests      = errors.New("too many confirmation code requests")
	ErrDeliveryFailure      = errors.New("confirmation code delivery failed")
	ErrStoreUnavailable     = errors.New("confirmation code store unavailable")
	ErrIdentityPersistence  = errors.New("identity persistence failed")
)
