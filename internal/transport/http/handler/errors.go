package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/order-tracker/internal/domain"
	"github.com/gin-gonic/gin"
)

const (
	errInternalServer     = "Internal server error"
	errInvalidBody        = "Invalid request body"
	errTokenInvalid       = "Token is invalid or expired"
	errInvalidCredentials = "Invalid email or password"
	errEmailTaken         = "Email already registered"
	errInvalidEmail       = "Invalid email format"
	errWeakPassword       = "Password must be at least 8 characters long and contain a number"
	errPasswordRequired   = "Old and new passwords are required"
	errNameMissing        = "First and last name are required"
	errNameRequired       = "Provide first_name or last_name to update"
	errConfirmRequired    = `Confirmation required: send {"confirm": "yes"}`
	errForbidden          = "Forbidden"
	errUnauthorized       = "Unauthorized"
	errUserNotFound       = "User not found"
	errOrderNotFound      = "Order not found"
	errOrderNotPending    = "Only pending orders can be changed"
	errOrderNotDelivered  = "Only delivered orders can be rated or reviewed"
	errNoTransitions      = "Order status cannot be advanced further"
	errProductRequired    = "Product is required"
	errInvalidQuantity    = "Quantity must be at least 1"
	errInvalidRating      = "Rating must be between 1 and 5"
	errReviewRequired     = "Review is required"
	errNoChanges          = "No changes were made"
	errInvalidStatus      = "Unknown order status"
	errShipmentNotFound   = "Shipment not found"
)

// errorStatus maps domain errors to a status code and a fixed message.
var errorStatus = []struct {
	err    error
	status int
	msg    string
}{
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, errInvalidCredentials},
	{domain.ErrTokenInvalid, http.StatusUnauthorized, errTokenInvalid},
	{domain.ErrUnauthorized, http.StatusUnauthorized, errUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden, errForbidden},
	{domain.ErrEmailTaken, http.StatusConflict, errEmailTaken},
	{domain.ErrInvalidEmail, http.StatusBadRequest, errInvalidEmail},
	{domain.ErrWeakPassword, http.StatusBadRequest, errWeakPassword},
	{domain.ErrPasswordRequired, http.StatusBadRequest, errPasswordRequired},
	{domain.ErrNameMissing, http.StatusBadRequest, errNameMissing},
	{domain.ErrNameRequired, http.StatusBadRequest, errNameRequired},
	{domain.ErrConfirmRequired, http.StatusBadRequest, errConfirmRequired},
	{domain.ErrUserNotFound, http.StatusNotFound, errUserNotFound},
	{domain.ErrOrderNotFound, http.StatusNotFound, errOrderNotFound},
	{domain.ErrOrderNotPending, http.StatusBadRequest, errOrderNotPending},
	{domain.ErrOrderNotDelivered, http.StatusBadRequest, errOrderNotDelivered},
	{domain.ErrNoFurtherTransitions, http.StatusBadRequest, errNoTransitions},
	{domain.ErrProductRequired, http.StatusBadRequest, errProductRequired},
	{domain.ErrInvalidQuantity, http.StatusBadRequest, errInvalidQuantity},
	{domain.ErrInvalidRating, http.StatusBadRequest, errInvalidRating},
	{domain.ErrReviewRequired, http.StatusBadRequest, errReviewRequired},
	{domain.ErrNoChanges, http.StatusBadRequest, errNoChanges},
	{domain.ErrInvalidStatus, http.StatusBadRequest, errInvalidStatus},
	{domain.ErrShipmentNotFound, http.StatusNotFound, errShipmentNotFound},
}

// respondError writes the mapped status for known domain errors and logs
// anything else as a 500.
func respondError(c *gin.Context, logger *slog.Logger, op string, err error) {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			c.JSON(e.status, gin.H{"error": e.msg})
			return
		}
	}
	logger.ErrorContext(c.Request.Context(), op, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
}
