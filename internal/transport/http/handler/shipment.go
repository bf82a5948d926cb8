package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ErlanBelekov/order-tracker/internal/domain"
	"github.com/ErlanBelekov/order-tracker/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

type shipmentUsecaser interface {
	Track(ctx context.Context, userID, trackingNumber string) (*domain.Shipment, error)
	ForOrder(ctx context.Context, userID, orderID string) (*domain.Shipment, error)
}

type ShipmentHandler struct {
	shipmentUsecase shipmentUsecaser
	logger          *slog.Logger
}

func NewShipmentHandler(shipmentUsecase shipmentUsecaser, logger *slog.Logger) *ShipmentHandler {
	return &ShipmentHandler{shipmentUsecase: shipmentUsecase, logger: logger.With("component", "shipment_handler")}
}

type shipmentResponse struct {
	ID             string     `json:"id"`
	OrderID        string     `json:"order_id"`
	TrackingNumber string     `json:"tracking_number"`
	ShippedAt      time.Time  `json:"shipped_at"`
	DeliveredAt    *time.Time `json:"delivered_at"`
}

func toShipmentResponse(s *domain.Shipment) shipmentResponse {
	return shipmentResponse{
		ID:             s.ID,
		OrderID:        s.OrderID,
		TrackingNumber: s.TrackingNumber,
		ShippedAt:      s.ShippedAt,
		DeliveredAt:    s.DeliveredAt,
	}
}

// GET /api/shipment/:tracking_number
func (h *ShipmentHandler) Track(c *gin.Context) {
	s, err := h.shipmentUsecase.Track(c.Request.Context(), middleware.UserID(c), c.Param("tracking_number"))
	if err != nil {
		respondError(c, h.logger, "track shipment", err)
		return
	}
	c.JSON(http.StatusOK, toShipmentResponse(s))
}

// GET /api/shipment/order/:order_id
// An order that has not shipped yet answers 200 with a message.
func (h *ShipmentHandler) ForOrder(c *gin.Context) {
	s, err := h.shipmentUsecase.ForOrder(c.Request.Context(), middleware.UserID(c), c.Param("order_id"))
	if err != nil {
		if errors.Is(err, domain.ErrShipmentNotFound) {
			c.JSON(http.StatusOK, gin.H{"message": "No shipment found for this order"})
			return
		}
		respondError(c, h.logger, "shipment for order", err)
		return
	}
	c.JSON(http.StatusOK, toShipmentResponse(s))
}
