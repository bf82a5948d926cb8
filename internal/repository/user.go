package repository

import (
	"context"
	"time"

	"github.com/ErlanBelekov/order-tracker/internal/domain"
)

type UserRepository interface {
	// Create inserts a new user. Returns domain.ErrEmailTaken on a duplicate email.
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	// UpdateName changes only the non-nil fields.
	UpdateName(ctx context.Context, id string, firstName, lastName *string) error
	// Delete removes the user together with their orders and shipments.
	Delete(ctx context.Context, id string) error

	CreateResetToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error
	// ClaimResetToken atomically marks an unexpired, unused token as used.
	// Returns domain.ErrTokenInvalid when no such token exists.
	ClaimResetToken(ctx context.Context, tokenHash string) (*domain.ResetToken, error)
}
