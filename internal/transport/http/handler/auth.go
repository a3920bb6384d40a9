package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ErlanBelekov/yamdb-auth/internal/domain"
	"github.com/gin-gonic/gin"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	RequestCode(ctx context.Context, email string) error
	IssueToken(ctx context.Context, email, code string) (string, error)
	CodeTTL() time.Duration
}

type AuthHandler struct {
	authUsecase authUsecaser
	logger      *slog.Logger
}

func NewAuthHandler(authUsecase authUsecaser, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		logger:      logger.With("component", "auth_handler"),
	}
}

type signupRequest struct {
	Email string `json:"email" binding:"required"`
}

type tokenRequest struct {
	Email            string `json:"email"             binding:"required"`
	ConfirmationCode string `json:"confirmation_code" binding:"required"`
}

// POST /api/v1/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidRequest})
		return
	}

	if err := h.authUsecase.RequestCode(c.Request.Context(), req.Email); err != nil {
		h.writeError(c, "request confirmation code", err)
		return
	}

	minutes := int(h.authUsecase.CodeTTL().Minutes())
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("A confirmation code has been sent to your email. It is valid for %d minutes.", minutes),
	})
}

// POST /api/v1/auth/token
// Returns {"token": "<jwt>"} on success.
func (h *AuthHandler) Token(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidRequest})
		return
	}

	jwtToken, err := h.authUsecase.IssueToken(c.Request.Context(), req.Email, req.ConfirmationCode)
	if err != nil {
		h.writeError(c, "issue token", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": jwtToken})
}

// writeError maps the confirmation-code error taxonomy to responses.
// Client errors carry a fixed message; infrastructure errors are logged and
// reported generically.
func (h *AuthHandler) writeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidOrExpiredCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": errCodeInvalid})
	case errors.Is(err, domain.ErrInvalidIdentity):
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidEmail})
	case errors.Is(err, domain.ErrTooManyRequests):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": errTooManyRequests})
	case errors.Is(err, domain.ErrDeliveryFailure):
		h.logger.ErrorContext(c.Request.Context(), op, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": errDeliveryFailed})
	case errors.Is(err, domain.ErrStoreUnavailable):
		h.logger.ErrorContext(c.Request.Context(), op, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errServiceUnavail})
	default:
		h.logger.ErrorContext(c.Request.Context(), op, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
	}
}
