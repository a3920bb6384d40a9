package domain

import (
	"errors"
	"time"
)

var (
	ErrUsernameTaken    = errors.New("username is already taken")
	ErrReservedUsername = errors.New("username is reserved")
	ErrInvalidUsername  = errors.New("invalid username")
	ErrInvalidRole      = errors.New("invalid role")
	ErrForbidden        = errors.New("forbidden")
)

type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// ReservedUsername addresses the current user in /users/me and cannot be claimed.
const ReservedUsername = "me"

type User struct {
	ID        string
	Email     string
	Username  *string
	Bio       string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ProfileUpdate carries the fields of a partial profile update; nil means unchanged.
type ProfileUpdate struct {
	Username *string
	Bio      *string
	Role     *Role
}
