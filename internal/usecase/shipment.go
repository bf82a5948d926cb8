package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ErlanBelekov/order-tracker/internal/domain"
	"github.com/ErlanBelekov/order-tracker/internal/repository"
)

type ShipmentUsecase struct {
	shipments repository.ShipmentRepository
	orders    repository.OrderRepository
}

func NewShipmentUsecase(shipments repository.ShipmentRepository, orders repository.OrderRepository) *ShipmentUsecase {
	return &ShipmentUsecase{shipments: shipments, orders: orders}
}

// Track looks a shipment up by tracking number. A shipment for someone
// else's order yields domain.ErrForbidden.
func (u *ShipmentUsecase) Track(ctx context.Context, userID, trackingNumber string) (*domain.Shipment, error) {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return nil, domain.ErrShipmentNotFound
	}

	shipment, err := u.shipments.GetByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		return nil, fmt.Errorf("get shipment: %w", err)
	}

	if _, err := u.orders.GetByID(ctx, shipment.OrderID, userID); err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return shipment, nil
}

// ForOrder returns the shipment of one of the user's orders.
// domain.ErrOrderNotFound when the order is not theirs, domain.ErrShipmentNotFound
// when it has not shipped yet.
func (u *ShipmentUsecase) ForOrder(ctx context.Context, userID, orderID string) (*domain.Shipment, error) {
	if _, err := u.orders.GetByID(ctx, orderID, userID); err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	shipment, err := u.shipments.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get shipment: %w", err)
	}
	return shipment, nil
}
