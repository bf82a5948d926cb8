package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ErlanBelekov/order-tracker/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const shipmentColumns = `id, order_id, tracking_number, shipped_at, delivered_at`

type ShipmentRepository struct {
	pool *pgxpool.Pool
}

func NewShipmentRepository(pool *pgxpool.Pool) *ShipmentRepository {
	return &ShipmentRepository{pool: pool}
}

func (r *ShipmentRepository) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.Shipment, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+shipmentColumns+` FROM shipments WHERE tracking_number = $1`, trackingNumber)
	return scanShipment(row)
}

func (r *ShipmentRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.Shipment, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+shipmentColumns+` FROM shipments WHERE order_id = $1`, orderID)
	return scanShipment(row)
}

func scanShipment(row pgx.Row) (*domain.Shipment, error) {
	var s domain.Shipment
	err := row.Scan(&s.ID, &s.OrderID, &s.TrackingNumber, &s.ShippedAt, &s.DeliveredAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isPgCode(err, invalidTextEncoding) {
			return nil, domain.ErrShipmentNotFound
		}
		return nil, fmt.Errorf("scan shipment: %w", err)
	}
	return &s, nil
}
