package auth

import (
	"context"
	"time"

	"github.com/kyedev/authd/internal/logger"
)

type purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Used when the configured interval is not usable for a ticker
const defaultSweepInterval = 1 * time.Hour

// Sweeper periodically deletes expired refresh token records
// It runs independently of request handling: only rows already past expiry
// are touched, so no live token can be affected
type Sweeper struct {
	purger   purger
	interval time.Duration
	logger   logger.Logger
}

func NewSweeper(purger purger, interval time.Duration, l logger.Logger) *Sweeper {
	if l == nil {
		l = logger.NewNoOpLogger()
	}
	// time.NewTicker panics on non-positive durations
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &Sweeper{purger: purger, interval: interval, logger: l}
}

// Run blocks until ctx is cancelled, purging once per interval
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Refresh token sweeper stopped")
			return
		case <-ticker.C:
			count, err := s.purger.PurgeExpired(ctx)
			if err != nil {
				s.logger.Error("Error while purging expired refresh tokens", "error", err.Error())
				continue
			}
			if count > 0 {
				s.logger.Info("Purged expired refresh tokens", "count", count)
			}
		}
	}
}
