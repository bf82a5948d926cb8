package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/ErlanBelekov/order-tracker/internal/domain"
	"github.com/ErlanBelekov/order-tracker/internal/repository"
)

type UserUsecase struct {
	users repository.UserRepository
}

func NewUserUsecase(users repository.UserRepository) *UserUsecase {
	return &UserUsecase{users: users}
}

func (u *UserUsecase) Profile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return user, nil
}

// UpdateProfile changes the provided names; blank values are ignored.
// At least one name must be given.
func (u *UserUsecase) UpdateProfile(ctx context.Context, userID, firstName, lastName string) (*domain.User, error) {
	var first, last *string
	if v := strings.TrimSpace(firstName); v != "" {
		first = &v
	}
	if v := strings.TrimSpace(lastName); v != "" {
		last = &v
	}
	if first == nil && last == nil {
		return nil, domain.ErrNameRequired
	}

	if err := u.users.UpdateName(ctx, userID, first, last); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return u.Profile(ctx, userID)
}

// DeleteProfile removes the account and everything it owns. confirm must be
// "yes" in any letter case.
func (u *UserUsecase) DeleteProfile(ctx context.Context, userID, confirm string) error {
	if !strings.EqualFold(strings.TrimSpace(confirm), "yes") {
		return domain.ErrConfirmRequired
	}
	if err := u.users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}
