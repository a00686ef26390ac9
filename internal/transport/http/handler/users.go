package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jenkify/jenkify/internal/domain"
	"github.com/jenkify/jenkify/internal/transport/http/middleware"
)

type profileFinder interface {
	FindProfileByEmail(ctx context.Context, email string) (*domain.UserProfile, error)
}

type UsersHandler struct {
	profiles profileFinder
	logger   *slog.Logger
}

func NewUsersHandler(profiles profileFinder, logger *slog.Logger) *UsersHandler {
	return &UsersHandler{
		profiles: profiles,
		logger:   logger.With("component", "users_handler"),
	}
}

// The projection deliberately excludes internal ids.
type profileResponse struct {
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DisplayName string `json:"displayName"`
}

// GET /users/profile
func (h *UsersHandler) Profile(c *gin.Context) {
	email := c.GetString(middleware.ContextKeyEmail)

	profile, err := h.profiles.FindProfileByEmail(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "find profile", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, profileResponse{
		Email:       profile.Email,
		FirstName:   profile.FirstName,
		LastName:    profile.LastName,
		DisplayName: profile.DisplayName,
	})
}
