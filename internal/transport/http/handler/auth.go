package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jenkify/jenkify/internal/domain"
	"github.com/jenkify/jenkify/internal/metrics"
	"github.com/jenkify/jenkify/internal/oauth"
	"github.com/jenkify/jenkify/internal/random"
	"github.com/jenkify/jenkify/internal/usecase"
)

const (
	oauthStateCookie = "oauth_state"
	oauthStateMaxAge = 300
)

type authUsecaser interface {
	ValidateCredentials(ctx context.Context, email, password string) (*domain.User, error)
	Login(user *domain.User) (usecase.TokenPair, error)
	GoogleLogin(ctx context.Context, profile usecase.GoogleProfile) (*domain.User, error)
	PlaceTokenHold(ctx context.Context, accessToken string, user *domain.User) (*domain.TokenHold, error)
	RetrieveTokenHold(ctx context.Context, tokenCode string) (usecase.TokenPair, error)
}

type oauthProvider interface {
	LoginURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth.Profile, error)
}

type AuthHandler struct {
	auth        authUsecaser
	google      oauthProvider
	frontEndURL string
	logger      *slog.Logger
}

func NewAuthHandler(auth authUsecaser, google oauthProvider, frontEndURL string, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:        auth,
		google:      google,
		frontEndURL: frontEndURL,
		logger:      logger.With("component", "auth_handler"),
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type tokenCodeRequest struct {
	TokenCode string `json:"tokenCode" binding:"required,len=128"`
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.ValidateCredentials(c.Request.Context(), strings.ToLower(req.Email), req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			metrics.LoginsTotal.WithLabelValues("local", "unauthorized").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "validate credentials", "error", err)
		metrics.LoginsTotal.WithLabelValues("local", "error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	pair, err := h.auth.Login(user)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "login", "error", err)
		metrics.LoginsTotal.WithLabelValues("local", "error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	metrics.LoginsTotal.WithLabelValues("local", "success").Inc()
	c.JSON(http.StatusOK, tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// GET /auth/google
// Sends the browser to the Google consent screen with a CSRF state cookie.
func (h *AuthHandler) GoogleAuth(c *gin.Context) {
	state, err := random.Generate(random.DefaultIDLength)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "generate oauth state", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.SetCookie(oauthStateCookie, state, oauthStateMaxAge, "/", "", true, true)
	c.Redirect(http.StatusFound, h.google.LoginURL(state))
}

// GET /auth/google-redirect
// Resolves the Google identity, places a token hold, and bounces the
// browser back to the SPA carrying only the hold's code.
func (h *AuthHandler) GoogleRedirect(c *gin.Context) {
	state := c.Query("state")
	cookieState, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != cookieState {
		metrics.LoginsTotal.WithLabelValues("google", "unauthorized").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
		return
	}

	profile, err := h.google.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "google code exchange", "error", err)
		metrics.LoginsTotal.WithLabelValues("google", "unauthorized").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
		return
	}

	user, err := h.auth.GoogleLogin(c.Request.Context(), usecase.GoogleProfile{
		ID:          profile.ID,
		Email:       strings.ToLower(profile.Email),
		GivenName:   profile.GivenName,
		FamilyName:  profile.FamilyName,
		DisplayName: profile.DisplayName,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNoEmailProvided) {
			metrics.LoginsTotal.WithLabelValues("google", "unauthorized").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "google login", "error", err)
		metrics.LoginsTotal.WithLabelValues("google", "error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	pair, err := h.auth.Login(user)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "login after google redirect", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	hold, err := h.auth.PlaceTokenHold(c.Request.Context(), pair.AccessToken, user)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "place token hold", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	metrics.LoginsTotal.WithLabelValues("google", "success").Inc()
	metrics.TokenHoldsPlacedTotal.Inc()

	redirectURL := h.frontEndURL + "/google-login-success?tokenCode=" + url.QueryEscape(hold.TokenCode)
	h.logger.InfoContext(c.Request.Context(), "redirecting google login", "email", user.Email)
	c.Redirect(http.StatusFound, redirectURL)
}

// POST /auth/token-code
// Anonymous: the code itself is the proof of the just-completed OAuth flow.
func (h *AuthHandler) TokenCode(c *gin.Context) {
	var req tokenCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pair, err := h.auth.RetrieveTokenHold(c.Request.Context(), req.TokenCode)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			metrics.TokenHoldsClaimedTotal.WithLabelValues("unauthorized").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "retrieve token hold", "error", err)
		metrics.TokenHoldsClaimedTotal.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	metrics.TokenHoldsClaimedTotal.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}
