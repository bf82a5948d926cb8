package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/order-tracker/internal/domain"
	"github.com/ErlanBelekov/order-tracker/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

type userUsecaser interface {
	Profile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID, firstName, lastName string) (*domain.User, error)
	DeleteProfile(ctx context.Context, userID, confirm string) error
}

type UserHandler struct {
	userUsecase userUsecaser
	logger      *slog.Logger
}

func NewUserHandler(userUsecase userUsecaser, logger *slog.Logger) *UserHandler {
	return &UserHandler{userUsecase: userUsecase, logger: logger.With("component", "user_handler")}
}

// GET /api/user/profile
func (h *UserHandler) Profile(c *gin.Context) {
	user, err := h.userUsecase.Profile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.logger, "get profile", err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

type updateProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// PUT /api/user/profile_update
func (h *UserHandler) Update(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBody})
		return
	}

	user, err := h.userUsecase.UpdateProfile(c.Request.Context(), middleware.UserID(c), req.FirstName, req.LastName)
	if err != nil {
		respondError(c, h.logger, "update profile", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    toUserResponse(user),
	})
}

type deleteProfileRequest struct {
	Confirm string `json:"confirm"`
}

// DELETE /api/user/profile_delete
func (h *UserHandler) Delete(c *gin.Context) {
	var req deleteProfileRequest
	// A missing body is treated like a missing confirmation.
	_ = c.ShouldBindJSON(&req)

	if err := h.userUsecase.DeleteProfile(c.Request.Context(), middleware.UserID(c), req.Confirm); err != nil {
		respondError(c, h.logger, "delete profile", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile and all associated data deleted successfully"})
}
