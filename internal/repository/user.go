package repository

import (
	"context"

	"github.com/ErlanBelekov/yamdb-auth/internal/domain"
)

type UserRepository interface {
	// FindOrCreate returns the user with the given email, creating it with the default role if absent.
	FindOrCreate(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error)
	SetRole(ctx context.Context, id string, role domain.Role) error
}
