package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jenkify/jenkify/config"
	"github.com/jenkify/jenkify/internal/email"
	"github.com/jenkify/jenkify/internal/event"
	"github.com/jenkify/jenkify/internal/health"
	"github.com/jenkify/jenkify/internal/infrastructure/postgres"
	"github.com/jenkify/jenkify/internal/jenkins"
	ctxlog "github.com/jenkify/jenkify/internal/log"
	"github.com/jenkify/jenkify/internal/maintenance"
	"github.com/jenkify/jenkify/internal/metrics"
	"github.com/jenkify/jenkify/internal/oauth"
	"github.com/jenkify/jenkify/internal/password"
	httptransport "github.com/jenkify/jenkify/internal/transport/http"
	"github.com/jenkify/jenkify/internal/transport/http/handler"
	"github.com/jenkify/jenkify/internal/transport/http/middleware"
	"github.com/jenkify/jenkify/internal/usecase"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
		stop()
		log.Fatalf("migrations: %v", err)
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	// Stores
	userRepo := postgres.NewUserRepository(pool)
	registrationTokens := postgres.NewRegistrationTokenRepository(pool)
	resetTokens := postgres.NewPasswordResetTokenRepository(pool)
	holds := postgres.NewTokenHoldRepository(pool)

	// Events and mail
	bus := event.NewBus(logger)
	sender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)
	notifier := email.NewNotifier(sender, cfg.FrontEndURL, logger)
	notifier.SubscribeTo(bus)

	// Auth core
	hasher := password.NewBcryptHasher()
	tokenLifecycle := usecase.NewTokenLifecycle(registrationTokens, resetTokens, logger)
	registration := usecase.NewRegistration(userRepo, tokenLifecycle, hasher, bus, logger)
	passwordReset := usecase.NewPasswordReset(userRepo, resetTokens, hasher, bus, logger)
	auth := usecase.NewAuth(userRepo, holds, hasher, []byte(cfg.JWTSecret), logger)
	google := oauth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleCallbackURL)

	// CI proxy
	jenkinsClient := jenkins.NewClient(cfg.JenkinsBaseURL, cfg.JenkinsUser, cfg.JenkinsAPIToken)
	queue := usecase.NewQueue()

	metrics.Register()
	checker := health.NewChecker(pool, jenkinsClient, logger, prometheus.DefaultRegisterer)

	sweeper := maintenance.NewSweeper(registrationTokens, resetTokens, holds, logger)
	if err := sweeper.Start(); err != nil {
		stop()
		log.Fatalf("sweeper: %v", err)
	}

	limiter := middleware.NewRateLimiter(rate.Limit(1), 10)

	handlers := httptransport.Handlers{
		Auth:     handler.NewAuthHandler(auth, google, cfg.FrontEndURL, logger),
		Register: handler.NewRegisterHandler(registration, logger),
		Password: handler.NewPasswordHandler(passwordReset, logger),
		Users:    handler.NewUsersHandler(userRepo, logger),
		Client:   handler.NewClientHandler(jenkinsClient, logger),
		Queue:    handler.NewQueueHandler(queue, logger),
	}

	srv := http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, handlers, limiter, []byte(cfg.JWTSecret)),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}

	limiter.Stop()
	sweeper.Stop()
	bus.Close()
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
