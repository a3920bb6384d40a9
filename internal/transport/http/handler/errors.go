package handler

const (
	errInternalServer   = "Internal server error"
	errInvalidRequest   = "Invalid request body"
	errCodeInvalid      = "Confirmation code is invalid or expired"
	errInvalidEmail     = "Invalid email address"
	errTooManyRequests  = "Too many requests, try again later"
	errDeliveryFailed   = "Could not deliver the confirmation code, try again later"
	errServiceUnavail   = "Service temporarily unavailable"
	errUserNotFound     = "User not found"
	errUsernameTaken    = "Username is already taken"
	errReservedUsername = "This username cannot be used"
	errInvalidUsername  = "Invalid username"
	errInvalidRole      = "Invalid role"
	errRoleForbidden    = "Only administrators can change roles"
)
