package domain

import (
	"errors"
	"time"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderNotPending      = errors.New("order is no longer pending")
	ErrOrderNotDelivered    = errors.New("order has not been delivered")
	ErrNoFurtherTransitions = errors.New("order has already been delivered or canceled")
	ErrProductRequired      = errors.New("product name is required")
	ErrInvalidQuantity      = errors.New("quantity must be at least 1")
	ErrInvalidRating        = errors.New("rating must be between 1 and 5")
	ErrReviewRequired       = errors.New("review is required")
	ErrNoChanges            = errors.New("no changes were made")
	ErrInvalidStatus        = errors.New("invalid order status")
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCanceled  OrderStatus = "canceled"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderShipped, OrderDelivered, OrderCanceled:
		return true
	}
	return false
}

// Next returns the status an admin update moves s to.
// pending -> shipped -> delivered; delivered and canceled are final.
func (s OrderStatus) Next() (OrderStatus, bool) {
	switch s {
	case OrderPending:
		return OrderShipped, true
	case OrderShipped:
		return OrderDelivered, true
	}
	return "", false
}

// Closed reports whether the order belongs in the order history.
func (s OrderStatus) Closed() bool {
	return s == OrderDelivered || s == OrderCanceled
}

type Order struct {
	ID        string
	UserID    string
	Product   string
	Quantity  int
	Status    OrderStatus
	Rating    *int
	Review    *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
