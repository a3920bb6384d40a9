package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ErlanBelekov/yamdb-auth/internal/domain"
	"github.com/ErlanBelekov/yamdb-auth/internal/usecase"
)

type fakeProfileRepo struct {
	findByID      func(ctx context.Context, id string) (*domain.User, error)
	updateProfile func(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error)
}

func (r *fakeProfileRepo) FindOrCreate(context.Context, string) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (r *fakeProfileRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findByID(ctx, id)
}

func (r *fakeProfileRepo) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	return r.updateProfile(ctx, id, update)
}

func (r *fakeProfileRepo) SetRole(context.Context, string, domain.Role) error {
	return errors.New("not implemented")
}

func ptr[T any](v T) *T { return &v }

func repoWithActor(actor *domain.User, updated *bool) *fakeProfileRepo {
	return &fakeProfileRepo{
		findByID: func(_ context.Context, id string) (*domain.User, error) {
			if id != actor.ID {
				return nil, domain.ErrUserNotFound
			}
			return actor, nil
		},
		updateProfile: func(_ context.Context, _ string, update domain.ProfileUpdate) (*domain.User, error) {
			*updated = true
			u := *actor
			if update.Username != nil {
				u.Username = update.Username
			}
			if update.Bio != nil {
				u.Bio = *update.Bio
			}
			if update.Role != nil {
				u.Role = *update.Role
			}
			return &u, nil
		},
	}
}

func TestMe_NotFound(t *testing.T) {
	var updated bool
	uc := usecase.NewUserUsecase(repoWithActor(&domain.User{ID: "u1"}, &updated))

	if _, err := uc.Me(context.Background(), "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("want ErrUserNotFound, got %v", err)
	}
}

func TestUpdateMe_UsernameAndBio(t *testing.T) {
	var updated bool
	actor := &domain.User{ID: "u1", Email: "a@example.com", Role: domain.RoleUser}
	uc := usecase.NewUserUsecase(repoWithActor(actor, &updated))

	u, err := uc.UpdateMe(context.Background(), "u1", domain.ProfileUpdate{
		Username: ptr("critic"),
		Bio:      ptr("I review films"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Username == nil || *u.Username != "critic" || u.Bio != "I review films" {
		t.Errorf("user = %+v", u)
	}
}

func TestUpdateMe_ReservedUsername(t *testing.T) {
	var updated bool
	uc := usecase.NewUserUsecase(repoWithActor(&domain.User{ID: "u1", Role: domain.RoleUser}, &updated))

	for _, name := range []string{"me", "Me"} {
		_, err := uc.UpdateMe(context.Background(), "u1", domain.ProfileUpdate{Username: ptr(name)})
		if !errors.Is(err, domain.ErrReservedUsername) {
			t.Errorf("username %q: want ErrReservedUsername, got %v", name, err)
		}
	}
	if updated {
		t.Error("repository updated despite reserved username")
	}
}

func TestUpdateMe_InvalidUsername(t *testing.T) {
	var updated bool
	uc := usecase.NewUserUsecase(repoWithActor(&domain.User{ID: "u1", Role: domain.RoleUser}, &updated))

	_, err := uc.UpdateMe(context.Background(), "u1", domain.ProfileUpdate{Username: ptr("two words")})
	if !errors.Is(err, domain.ErrInvalidUsername) {
		t.Errorf("want ErrInvalidUsername, got %v", err)
	}
}

func TestUpdateMe_NonAdminCannotChangeRole(t *testing.T) {
	var updated bool
	uc := usecase.NewUserUsecase(repoWithActor(&domain.User{ID: "u1", Role: domain.RoleUser}, &updated))

	_, err := uc.UpdateMe(context.Background(), "u1", domain.ProfileUpdate{
		Bio:  ptr("sneaky"),
		Role: ptr(domain.RoleAdmin),
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("want ErrForbidden, got %v", err)
	}
	if updated {
		t.Error("no field may be applied when the role change is rejected")
	}
}

func TestUpdateMe_SameRoleIsAllowed(t *testing.T) {
	var updated bool
	uc := usecase.NewUserUsecase(repoWithActor(&domain.User{ID: "u1", Role: domain.RoleUser}, &updated))

	if _, err := uc.UpdateMe(context.Background(), "u1", domain.ProfileUpdate{Role: ptr(domain.RoleUser)}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestUpdateMe_AdminCanChangeRole(t *testing.T) {
	var updated bool
	uc := usecase.NewUserUsecase(repoWithActor(&domain.User{ID: "u1", Role: domain.RoleAdmin}, &updated))

	u, err := uc.UpdateMe(context.Background(), "u1", domain.ProfileUpdate{Role: ptr(domain.RoleModerator)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Role != domain.RoleModerator {
		t.Errorf("role = %q, want moderator", u.Role)
	}
}

func TestUpdateMe_UnknownRole(t *testing.T) {
	var updated bool
	uc := usecase.NewUserUsecase(repoWithActor(&domain.User{ID: "u1", Role: domain.RoleAdmin}, &updated))

	_, err := uc.UpdateMe(context.Background(), "u1", domain.ProfileUpdate{Role: ptr(domain.Role("superuser"))})
	if !errors.Is(err, domain.ErrInvalidRole) {
		t.Errorf("want ErrInvalidRole, got %v", err)
	}
}
