package domain

import (
	"errors"
	"time"
)

var ErrShipmentNotFound = errors.New("shipment not found")

type Shipment struct {
	ID             string
	OrderID        string
	TrackingNumber string
	ShippedAt      time.Time
	DeliveredAt    *time.Time
}
