package repository

import (
	"context"

	"github.com/ErlanBelekov/order-tracker/internal/domain"
)

type ShipmentRepository interface {
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.Shipment, error)
	GetByOrderID(ctx context.Context, orderID string) (*domain.Shipment, error)
}
