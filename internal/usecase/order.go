package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ErlanBelekov/order-tracker/internal/domain"
	"github.com/ErlanBelekov/order-tracker/internal/repository"
	"github.com/google/uuid"
)

// reviewCleaner is satisfied by *sanitize.Reviewer.
type reviewCleaner interface {
	Review(raw string) string
}

// transitionRecorder observes successful status changes (metrics).
type transitionRecorder interface {
	OrderTransition(to domain.OrderStatus)
}

type noopRecorder struct{}

func (noopRecorder) OrderTransition(domain.OrderStatus) {}

type OrderUsecase struct {
	orders            repository.OrderRepository
	shipments         repository.ShipmentRepository
	users             repository.UserRepository
	reviews           reviewCleaner
	recorder          transitionRecorder
	newTrackingNumber func() string
}

func NewOrderUsecase(
	orders repository.OrderRepository,
	shipments repository.ShipmentRepository,
	users repository.UserRepository,
	reviews reviewCleaner,
	recorder transitionRecorder,
) *OrderUsecase {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &OrderUsecase{
		orders:            orders,
		shipments:         shipments,
		users:             users,
		reviews:           reviews,
		recorder:          recorder,
		newTrackingNumber: uuid.NewString,
	}
}

type CreateOrderInput struct {
	UserID   string
	Product  string
	Quantity int // 0 means 1
}

func (u *OrderUsecase) CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	product := strings.TrimSpace(input.Product)
	if product == "" {
		return nil, domain.ErrProductRequired
	}
	if input.Quantity == 0 {
		input.Quantity = 1
	}
	if input.Quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	created, err := u.orders.Create(ctx, &domain.Order{
		UserID:   input.UserID,
		Product:  product,
		Quantity: input.Quantity,
		Status:   domain.OrderPending,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	u.recorder.OrderTransition(domain.OrderPending)
	return created, nil
}

// ListOrders returns the user's orders, newest first, optionally filtered by status.
func (u *OrderUsecase) ListOrders(ctx context.Context, userID string, statuses ...domain.OrderStatus) ([]*domain.Order, error) {
	for _, s := range statuses {
		if !s.Valid() {
			return nil, domain.ErrInvalidStatus
		}
	}
	orders, err := u.orders.List(ctx, repository.ListOrdersInput{UserID: userID, Statuses: statuses})
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// OrderHistory lists the user's delivered and canceled orders.
func (u *OrderUsecase) OrderHistory(ctx context.Context, userID string) ([]*domain.Order, error) {
	return u.ListOrders(ctx, userID, domain.OrderDelivered, domain.OrderCanceled)
}

// OrderDetails is an order together with its shipment, if one exists.
type OrderDetails struct {
	Order    *domain.Order
	Shipment *domain.Shipment
}

func (u *OrderUsecase) GetOrder(ctx context.Context, id, userID string) (*OrderDetails, error) {
	order, err := u.orders.GetByID(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	shipment, err := u.shipments.GetByOrderID(ctx, order.ID)
	if err != nil && !errors.Is(err, domain.ErrShipmentNotFound) {
		return nil, fmt.Errorf("get shipment: %w", err)
	}
	return &OrderDetails{Order: order, Shipment: shipment}, nil
}

// loadOwned fetches the order and checks it is in the wanted status.
func (u *OrderUsecase) loadOwned(ctx context.Context, id, userID string, want domain.OrderStatus, wrong error) (*domain.Order, error) {
	order, err := u.orders.GetByID(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order.Status != want {
		return nil, wrong
	}
	return order, nil
}

// UpdateOrder changes the product of a pending order.
func (u *OrderUsecase) UpdateOrder(ctx context.Context, id, userID, product string) error {
	if _, err := u.loadOwned(ctx, id, userID, domain.OrderPending, domain.ErrOrderNotPending); err != nil {
		return err
	}
	product = strings.TrimSpace(product)
	if product == "" {
		return domain.ErrNoChanges
	}
	if err := u.orders.UpdateProduct(ctx, id, userID, product); err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}

func (u *OrderUsecase) CancelOrder(ctx context.Context, id, userID string) error {
	if _, err := u.loadOwned(ctx, id, userID, domain.OrderPending, domain.ErrOrderNotPending); err != nil {
		return err
	}
	if err := u.orders.SetStatus(ctx, id, userID, domain.OrderPending, domain.OrderCanceled); err != nil {
		return fmt.Errorf("cancel order: %w", err)
	}
	u.recorder.OrderTransition(domain.OrderCanceled)
	return nil
}

func (u *OrderUsecase) DeleteOrder(ctx context.Context, id, userID string) error {
	if _, err := u.loadOwned(ctx, id, userID, domain.OrderPending, domain.ErrOrderNotPending); err != nil {
		return err
	}
	if err := u.orders.DeletePending(ctx, id, userID); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

func (u *OrderUsecase) RateOrder(ctx context.Context, id, userID string, rating int) error {
	if rating < 1 || rating > 5 {
		return domain.ErrInvalidRating
	}
	if _, err := u.loadOwned(ctx, id, userID, domain.OrderDelivered, domain.ErrOrderNotDelivered); err != nil {
		return err
	}
	if err := u.orders.SetRating(ctx, id, userID, rating); err != nil {
		return fmt.Errorf("rate order: %w", err)
	}
	return nil
}

func (u *OrderUsecase) ReviewOrder(ctx context.Context, id, userID, review string) error {
	clean := u.reviews.Review(review)
	if clean == "" {
		return domain.ErrReviewRequired
	}
	if _, err := u.loadOwned(ctx, id, userID, domain.OrderDelivered, domain.ErrOrderNotDelivered); err != nil {
		return err
	}
	if err := u.orders.SetReview(ctx, id, userID, clean); err != nil {
		return fmt.Errorf("review order: %w", err)
	}
	return nil
}

// AdvanceStatus moves an order one step along pending -> shipped -> delivered.
// Only admins may call it. Shipping opens a shipment with a fresh tracking number.
func (u *OrderUsecase) AdvanceStatus(ctx context.Context, actorID, id string) (domain.OrderStatus, error) {
	actor, err := u.users.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrForbidden
		}
		return "", fmt.Errorf("find actor: %w", err)
	}
	if !actor.IsAdmin {
		return "", domain.ErrForbidden
	}

	order, err := u.orders.GetByIDAny(ctx, id)
	if err != nil {
		return "", fmt.Errorf("get order: %w", err)
	}

	next, ok := order.Status.Next()
	if !ok {
		return "", domain.ErrNoFurtherTransitions
	}

	switch next {
	case domain.OrderShipped:
		if _, err := u.orders.Ship(ctx, id, u.newTrackingNumber()); err != nil {
			return "", fmt.Errorf("ship order: %w", err)
		}
	case domain.OrderDelivered:
		if err := u.orders.Deliver(ctx, id); err != nil {
			return "", fmt.Errorf("deliver order: %w", err)
		}
	}

	u.recorder.OrderTransition(next)
	return next, nil
}
