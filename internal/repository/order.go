package repository

import (
	"context"

	"github.com/ErlanBelekov/order-tracker/internal/domain"
)

type ListOrdersInput struct {
	UserID   string
	Statuses []domain.OrderStatus // empty = all statuses
}

// OrderRepository scopes every read and write by user ID except the admin
// transitions (Ship, Deliver, GetByIDAny).
// Conditional writes return domain.ErrOrderNotFound when no row matched.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id, userID string) (*domain.Order, error)
	GetByIDAny(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, input ListOrdersInput) ([]*domain.Order, error)

	UpdateProduct(ctx context.Context, id, userID, product string) error
	SetStatus(ctx context.Context, id, userID string, from, to domain.OrderStatus) error
	DeletePending(ctx context.Context, id, userID string) error
	SetRating(ctx context.Context, id, userID string, rating int) error
	SetReview(ctx context.Context, id, userID, review string) error

	// Ship moves a pending order to shipped and opens its shipment in one transaction.
	Ship(ctx context.Context, id, trackingNumber string) (*domain.Shipment, error)
	// Deliver moves a shipped order to delivered and stamps the shipment.
	Deliver(ctx context.Context, id string) error
}
