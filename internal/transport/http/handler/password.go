package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jenkify/jenkify/internal/domain"
	"github.com/jenkify/jenkify/internal/metrics"
	"github.com/jenkify/jenkify/internal/usecase"
)

type passwordUsecaser interface {
	Reset(ctx context.Context, email string) (string, error)
	ConfirmReset(ctx context.Context, in usecase.ConfirmPasswordResetInput) (string, error)
}

type PasswordHandler struct {
	passwords passwordUsecaser
	logger    *slog.Logger
}

func NewPasswordHandler(passwords passwordUsecaser, logger *slog.Logger) *PasswordHandler {
	return &PasswordHandler{
		passwords: passwords,
		logger:    logger.With("component", "password_handler"),
	}
}

type resetPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type confirmPasswordResetRequest struct {
	TokenValue      string `json:"tokenValue" binding:"required,len=128"`
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
}

// POST /password/reset
// The response is identical whether or not the account exists.
func (h *PasswordHandler) Reset(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, err := h.passwords.Reset(c.Request.Context(), strings.ToLower(req.Email))
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "reset password", "error", err)
		metrics.PasswordResetsTotal.WithLabelValues("request", "error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	metrics.PasswordResetsTotal.WithLabelValues("request", "accepted").Inc()
	c.JSON(http.StatusOK, statusResponse{Status: status})
}

// POST /password/reset/confirm
func (h *PasswordHandler) ConfirmReset(c *gin.Context) {
	var req confirmPasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, err := h.passwords.ConfirmReset(c.Request.Context(), usecase.ConfirmPasswordResetInput{
		TokenValue: req.TokenValue,
		Password:   req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenInvalid):
			metrics.PasswordResetsTotal.WithLabelValues("confirm", "invalid").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": errTokenInvalid})
		case errors.Is(err, domain.ErrTokenExpired):
			metrics.PasswordResetsTotal.WithLabelValues("confirm", "expired").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": errTokenExpired})
		default:
			h.logger.ErrorContext(c.Request.Context(), "confirm password reset", "error", err)
			metrics.PasswordResetsTotal.WithLabelValues("confirm", "error").Inc()
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	metrics.PasswordResetsTotal.WithLabelValues("confirm", "success").Inc()
	c.JSON(http.StatusOK, statusResponse{Status: status})
}
