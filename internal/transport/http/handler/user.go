package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ErlanBelekov/yamdb-auth/internal/domain"
	"github.com/gin-gonic/gin"
)

type userUsecaser interface {
	Me(ctx context.Context, userID string) (*domain.User, error)
	UpdateMe(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error)
}

type UserHandler struct {
	userUsecase userUsecaser
	logger      *slog.Logger
}

func NewUserHandler(userUsecase userUsecaser, logger *slog.Logger) *UserHandler {
	return &UserHandler{userUsecase: userUsecase, logger: logger.With("component", "user_handler")}
}

type updateMeRequest struct {
	Username *string      `json:"username" binding:"omitempty,max=150"`
	Bio      *string      `json:"bio"      binding:"omitempty,max=2000"`
	Role     *domain.Role `json:"role"`
}

type userResponse struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Username  *string     `json:"username"`
	Bio       string      `json:"bio"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		Bio:       u.Bio,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// GET /api/v1/users/me
func (h *UserHandler) Me(c *gin.Context) {
	userID := c.GetString("userID")

	u, err := h.userUsecase.Me(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(u))
}

// PATCH /api/v1/users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req updateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidRequest})
		return
	}

	userID := c.GetString("userID")
	u, err := h.userUsecase.UpdateMe(c.Request.Context(), userID, domain.ProfileUpdate{
		Username: req.Username,
		Bio:      req.Bio,
		Role:     req.Role,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(u))
}

func (h *UserHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
	case errors.Is(err, domain.ErrReservedUsername):
		c.JSON(http.StatusBadRequest, gin.H{"error": errReservedUsername})
	case errors.Is(err, domain.ErrInvalidUsername):
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidUsername})
	case errors.Is(err, domain.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidRole})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": errRoleForbidden})
	case errors.Is(err, domain.ErrUsernameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": errUsernameTaken})
	default:
		h.logger.ErrorContext(c.Request.Context(), "user profile", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
	}
}
