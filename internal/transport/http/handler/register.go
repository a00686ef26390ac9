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

// registrationUsecaser is the subset of usecase.Registration the handler
// needs. Defined here (point of use) so tests can inject a fake.
type registrationUsecaser interface {
	Register(ctx context.Context, in usecase.RegisterInput) (string, error)
	ConfirmRegistration(ctx context.Context, tokenValue string) (string, error)
}

type RegisterHandler struct {
	registration registrationUsecaser
	logger       *slog.Logger
}

func NewRegisterHandler(registration registrationUsecaser, logger *slog.Logger) *RegisterHandler {
	return &RegisterHandler{
		registration: registration,
		logger:       logger.With("component", "register_handler"),
	}
}

type registerRequest struct {
	Email                      string `json:"email" binding:"required,email"`
	FirstName                  string `json:"firstName" binding:"required"`
	LastName                   string `json:"lastName" binding:"required"`
	Password                   string `json:"password" binding:"required,min=8"`
	ConfirmPassword            string `json:"confirmPassword" binding:"required,eqfield=Password"`
	IsAcceptTermsAndConditions bool   `json:"isAcceptTermsAndConditions"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type confirmRegisterRequest struct {
	TokenValue string `json:"tokenValue" binding:"required,len=128"`
}

// POST /register
func (h *RegisterHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, err := h.registration.Register(c.Request.Context(), usecase.RegisterInput{
		Email:                    strings.ToLower(req.Email),
		FirstName:                req.FirstName,
		LastName:                 req.LastName,
		Password:                 req.Password,
		AcceptTermsAndConditions: req.IsAcceptTermsAndConditions,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTermsNotAccepted):
			metrics.RegistrationsTotal.WithLabelValues("rejected").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": errTermsRequired})
		case errors.Is(err, domain.ErrRegistrationConflict):
			metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
			c.JSON(http.StatusConflict, gin.H{"error": errConflict})
		default:
			h.logger.ErrorContext(c.Request.Context(), "register", "error", err)
			metrics.RegistrationsTotal.WithLabelValues("error").Inc()
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	metrics.RegistrationsTotal.WithLabelValues("accepted").Inc()
	c.JSON(http.StatusCreated, statusResponse{Status: status})
}

// POST /register/confirm
func (h *RegisterHandler) Confirm(c *gin.Context) {
	var req confirmRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, err := h.registration.ConfirmRegistration(c.Request.Context(), req.TokenValue)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"error": errTokenInvalid})
		case errors.Is(err, domain.ErrTokenExpired):
			c.JSON(http.StatusBadRequest, gin.H{"error": errTokenExpired})
		default:
			h.logger.ErrorContext(c.Request.Context(), "confirm registration", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, statusResponse{Status: status})
}
