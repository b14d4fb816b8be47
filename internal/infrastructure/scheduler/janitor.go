package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"kudos/internal/domain/repository"
	"kudos/internal/infrastructure/ratelimit"
	"kudos/pkg/logger"
)

// Janitor sweeps expired artifacts out of the data directory on a schedule:
// rate limit windows that have closed and verification tokens past expiry.
type Janitor struct {
	cron      *cron.Cron
	limiter   *ratelimit.Limiter
	tokenRepo repository.TokenRepository
}

func NewJanitor(limiter *ratelimit.Limiter, tokenRepo repository.TokenRepository) *Janitor {
	return &Janitor{
		cron:      cron.New(),
		limiter:   limiter,
		tokenRepo: tokenRepo,
	}
}

func (j *Janitor) Start() error {
	// Hourly, on the hour
	if _, err := j.cron.AddFunc("0 * * * *", j.Sweep); err != nil {
		return err
	}

	j.cron.Start()
	logger.Info("Janitor started, sweeping expired tokens and rate limit entries hourly")
	return nil
}

func (j *Janitor) Stop() {
	j.cron.Stop()
}

// Sweep runs one cleanup pass. Exposed so startup can run an immediate pass
// instead of waiting for the first tick.
func (j *Janitor) Sweep() {
	if removed, err := j.limiter.CleanupExpired(); err != nil {
		logger.Warn("Janitor failed to clean rate limit entries: %v", err)
	} else if removed > 0 {
		logger.Info("Janitor removed %d expired rate limit entries", removed)
	}

	if removed, err := j.tokenRepo.DeleteExpired(context.Background(), time.Now().UTC()); err != nil {
		logger.Warn("Janitor failed to clean verification tokens: %v", err)
	} else if removed > 0 {
		logger.Info("Janitor removed %d expired verification tokens", removed)
	}
}
