package usecase

import (
	"context"
	"fmt"

	"github.com/ErlanBelekov/yamdb-auth/internal/domain"
	"github.com/ErlanBelekov/yamdb-auth/internal/repository"
)

type UserUsecase struct {
	repo repository.UserRepository
}

func NewUserUsecase(repo repository.UserRepository) *UserUsecase {
	return &UserUsecase{repo: repo}
}

func (u *UserUsecase) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := u.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// UpdateMe applies a partial profile update on behalf of the user itself.
// Every field is checked before any is written.
func (u *UserUsecase) UpdateMe(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error) {
	actor, err := u.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err = authorizeProfileUpdate(actor, update); err != nil {
		return nil, err
	}

	updated, err := u.repo.UpdateProfile(ctx, userID, update)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return updated, nil
}

// authorizeProfileUpdate rejects reserved usernames and role changes by non-admins.
func authorizeProfileUpdate(actor *domain.User, update domain.ProfileUpdate) error {
	if update.Username != nil {
		if err := validateUsername(*update.Username); err != nil {
			return err
		}
	}
	if update.Role != nil {
		if !update.Role.Valid() {
			return domain.ErrInvalidRole
		}
		if *update.Role != actor.Role && !actor.IsAdmin() {
			return domain.ErrForbidden
		}
	}
	return nil
}
