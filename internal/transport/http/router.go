package httptransport

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/jenkify/jenkify/internal/transport/http/handler"
	"github.com/jenkify/jenkify/internal/transport/http/middleware"

	sloggin "github.com/samber/slog-gin"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth     *handler.AuthHandler
	Register *handler.RegisterHandler
	Password *handler.PasswordHandler
	Users    *handler.UsersHandler
	Client   *handler.ClientHandler
	Queue    *handler.QueueHandler
}

func NewRouter(logger *slog.Logger, h Handlers, limiter *middleware.RateLimiter, jwtKey []byte) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	throttle := limiter.Middleware()
	authMW := middleware.Auth(jwtKey)

	// Throttled auth flows
	auth := r.Group("/auth", throttle)
	auth.POST("/login", h.Auth.Login)
	auth.GET("/google", h.Auth.GoogleAuth)
	auth.GET("/google-redirect", h.Auth.GoogleRedirect)
	auth.POST("/token-code", h.Auth.TokenCode)

	register := r.Group("/register", throttle)
	register.POST("", h.Register.Register)
	register.POST("/confirm", h.Register.Confirm)

	password := r.Group("/password", throttle)
	password.POST("/reset", h.Password.Reset)
	password.POST("/reset/confirm", h.Password.ConfirmReset)

	// Protected user routes
	users := r.Group("/users", authMW)
	users.GET("/profile", h.Users.Profile)

	// CI proxy
	client := r.Group("/client")
	client.GET("/jobs", h.Client.Jobs)
	client.GET("/build/:jobName/:buildNumber", h.Client.Build)

	queue := r.Group("/queue")
	queue.POST("/as-yaml", h.Queue.AsYAML)

	return r
}
