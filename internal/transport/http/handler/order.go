package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ErlanBelekov/order-tracker/internal/domain"
	"github.com/ErlanBelekov/order-tracker/internal/transport/http/middleware"
	"github.com/ErlanBelekov/order-tracker/internal/usecase"
	"github.com/gin-gonic/gin"
)

type orderUsecaser interface {
	CreateOrder(ctx context.Context, input usecase.CreateOrderInput) (*domain.Order, error)
	ListOrders(ctx context.Context, userID string, statuses ...domain.OrderStatus) ([]*domain.Order, error)
	GetOrder(ctx context.Context, id, userID string) (*usecase.OrderDetails, error)
	UpdateOrder(ctx context.Context, id, userID, product string) error
	CancelOrder(ctx context.Context, id, userID string) error
	DeleteOrder(ctx context.Context, id, userID string) error
	RateOrder(ctx context.Context, id, userID string, rating int) error
	ReviewOrder(ctx context.Context, id, userID, review string) error
	AdvanceStatus(ctx context.Context, actorID, id string) (domain.OrderStatus, error)
}

type OrderHandler struct {
	orderUsecase orderUsecaser
	logger       *slog.Logger
}

func NewOrderHandler(orderUsecase orderUsecaser, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{orderUsecase: orderUsecase, logger: logger.With("component", "order_handler")}
}

type orderResponse struct {
	ID        string             `json:"id"`
	UserID    string             `json:"user_id"`
	Product   string             `json:"product"`
	Quantity  int                `json:"quantity"`
	Status    domain.OrderStatus `json:"status"`
	Rating    *int               `json:"rating,omitempty"`
	Review    *string            `json:"review,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
	Shipment  *shipmentResponse  `json:"shipment,omitempty"`
}

func toOrderResponse(o *domain.Order) orderResponse {
	return orderResponse{
		ID:        o.ID,
		UserID:    o.UserID,
		Product:   o.Product,
		Quantity:  o.Quantity,
		Status:    o.Status,
		Rating:    o.Rating,
		Review:    o.Review,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

// GET /api/order?status=pending&status=shipped
func (h *OrderHandler) List(c *gin.Context) {
	var statuses []domain.OrderStatus
	for _, s := range c.QueryArray("status") {
		statuses = append(statuses, domain.OrderStatus(s))
	}

	orders, err := h.orderUsecase.ListOrders(c.Request.Context(), middleware.UserID(c), statuses...)
	if err != nil {
		respondError(c, h.logger, "list orders", err)
		return
	}

	items := make([]orderResponse, len(orders))
	for i, o := range orders {
		items[i] = toOrderResponse(o)
	}
	c.JSON(http.StatusOK, gin.H{"orders": items})
}

// GET /api/order/:id
func (h *OrderHandler) GetByID(c *gin.Context) {
	details, err := h.orderUsecase.GetOrder(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		respondError(c, h.logger, "get order", err)
		return
	}

	resp := toOrderResponse(details.Order)
	if details.Shipment != nil {
		s := toShipmentResponse(details.Shipment)
		resp.Shipment = &s
	}
	c.JSON(http.StatusOK, resp)
}

type createOrderRequest struct {
	Product  string `json:"product"`
	Quantity *int   `json:"quantity"`
}

// POST /api/order/create_order
func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBody})
		return
	}

	input := usecase.CreateOrderInput{UserID: middleware.UserID(c), Product: req.Product}
	if req.Quantity != nil {
		// An explicit 0 is invalid; only an absent quantity defaults to 1.
		if *req.Quantity < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidQuantity})
			return
		}
		input.Quantity = *req.Quantity
	}

	order, err := h.orderUsecase.CreateOrder(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.logger, "create order", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Order created successfully",
		"order":   toOrderResponse(order),
	})
}

type updateOrderRequest struct {
	Product string `json:"product"`
}

// PUT /api/order/update_order/:id
func (h *OrderHandler) Update(c *gin.Context) {
	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBody})
		return
	}

	if err := h.orderUsecase.UpdateOrder(c.Request.Context(), c.Param("id"), middleware.UserID(c), req.Product); err != nil {
		respondError(c, h.logger, "update order", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order updated successfully"})
}

// PUT /api/order/cancel_order/:id
func (h *OrderHandler) Cancel(c *gin.Context) {
	if err := h.orderUsecase.CancelOrder(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		respondError(c, h.logger, "cancel order", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order canceled successfully"})
}

// DELETE /api/order/delete_order/:id
func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.orderUsecase.DeleteOrder(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		respondError(c, h.logger, "delete order", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
}

type rateOrderRequest struct {
	Rating rating `json:"rating" binding:"required"`
}

// rating accepts 5 as well as "5"; fractions and non-numeric strings are
// rejected.
type rating int

func (r *rating) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("rating: %w", err)
	}
	v, err := n.Int64()
	if err != nil {
		return fmt.Errorf("rating: %w", err)
	}
	*r = rating(v)
	return nil
}

// POST /api/order/rate_order/:id
func (h *OrderHandler) Rate(c *gin.Context) {
	var req rateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidRating})
		return
	}

	if err := h.orderUsecase.RateOrder(c.Request.Context(), c.Param("id"), middleware.UserID(c), int(req.Rating)); err != nil {
		respondError(c, h.logger, "rate order", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order rated successfully"})
}

type reviewOrderRequest struct {
	Review string `json:"review"`
}

// POST /api/order/review_order/:id
func (h *OrderHandler) Review(c *gin.Context) {
	var req reviewOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBody})
		return
	}

	if err := h.orderUsecase.ReviewOrder(c.Request.Context(), c.Param("id"), middleware.UserID(c), req.Review); err != nil {
		respondError(c, h.logger, "review order", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review submitted successfully"})
}

// PUT /api/order/update_status/:id (admin)
func (h *OrderHandler) AdvanceStatus(c *gin.Context) {
	next, err := h.orderUsecase.AdvanceStatus(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "advance status", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated to " + string(next),
		"status":  next,
	})
}
