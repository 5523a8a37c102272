// Package worker holds background jobs that run beside the HTTP server.
package worker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ExpiredChallengeDeleter is satisfied by repository.ChallengeRepository.
type ExpiredChallengeDeleter interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// CleanupJob removes OTP challenges past their expiry. Reads already ignore
// expired rows, so this only keeps the table small.
type CleanupJob struct {
	store    ExpiredChallengeDeleter
	log      *zap.Logger
	Interval time.Duration
}

func NewCleanupJob(store ExpiredChallengeDeleter, interval time.Duration, log *zap.Logger) *CleanupJob {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &CleanupJob{
		store:    store,
		log:      log.With(zap.String("job", "challenge_cleanup")),
		Interval: interval,
	}
}

// RunOnce performs a single sweep. It is idempotent.
func (j *CleanupJob) RunOnce(ctx context.Context) error {
	start := time.Now()

	deleted, err := j.store.DeleteExpired(ctx)
	if err != nil {
		j.log.Error("Challenge cleanup failed", zap.Error(err))
		return fmt.Errorf("challenge cleanup: %w", err)
	}

	j.log.Debug("Challenge cleanup finished",
		zap.Int64("deleted_count", deleted),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// Start sweeps every Interval until ctx is cancelled. Errors are logged and the loop continues.
func (j *CleanupJob) Start(ctx context.Context) {
	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = j.RunOnce(ctx)
		case <-ctx.Done():
			j.log.Info("Challenge cleanup stopped")
			return
		}
	}
}
