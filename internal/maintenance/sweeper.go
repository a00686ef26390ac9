// Package maintenance prunes old token rows. Expiry is still enforced at
// use-time; the sweeper only bounds table growth by removing consumed or
// expired rows past a retention window.
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/jenkify/jenkify/internal/metrics"
	"github.com/jenkify/jenkify/internal/repository"
	"github.com/robfig/cron/v3"
)

const (
	defaultRetention = 24 * time.Hour
	sweepTimeout     = 30 * time.Second
	defaultCronSpec  = "@hourly"
)

type Sweeper struct {
	registrationTokens repository.RegistrationTokenRepository
	resetTokens        repository.PasswordResetTokenRepository
	holds              repository.TokenHoldRepository
	retention          time.Duration
	logger             *slog.Logger
	cron               *cron.Cron
}

func NewSweeper(
	registrationTokens repository.RegistrationTokenRepository,
	resetTokens repository.PasswordResetTokenRepository,
	holds repository.TokenHoldRepository,
	logger *slog.Logger,
) *Sweeper {
	return &Sweeper{
		registrationTokens: registrationTokens,
		resetTokens:        resetTokens,
		holds:              holds,
		retention:          defaultRetention,
		logger:             logger.With("component", "token_sweeper"),
		cron:               cron.New(),
	}
}

// Start schedules the hourly sweep. Call Stop on shutdown.
func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc(defaultCronSpec, s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	cutoff := time.Now().Add(-s.retention)

	families := []struct {
		name  string
		prune func(context.Context, time.Time) (int64, error)
	}{
		{"registration", s.registrationTokens.DeleteExpiredBefore},
		{"password_reset", s.resetTokens.DeleteExpiredBefore},
		{"token_hold", s.holds.DeleteExpiredBefore},
	}

	for _, f := range families {
		n, err := f.prune(ctx, cutoff)
		if err != nil {
			s.logger.Error("token sweep failed", "family", f.name, "error", err)
			continue
		}
		if n > 0 {
			s.logger.Info("pruned tokens", "family", f.name, "count", n)
		}
		metrics.TokensPrunedTotal.WithLabelValues(f.name).Add(float64(n))
	}
}
