package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/danielovera/streampass-backend/pkg/logger"
)

type expirySweeper interface {
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}

// SubscriptionExpiryJob marks past-due subscriptions as expired.
type SubscriptionExpiryJob struct {
	sweeper expirySweeper
	logg    *logger.Logger
	now     func() time.Time
}

// NewSubscriptionExpiryJob builds the expiry sweep job.
func NewSubscriptionExpiryJob(sweeper expirySweeper, logg *logger.Logger) (*SubscriptionExpiryJob, error) {
	if sweeper == nil {
		return nil, fmt.Errorf("sweeper required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &SubscriptionExpiryJob{
		sweeper: sweeper,
		logg:    logg,
		now:     time.Now,
	}, nil
}

// Name implements Job.
func (j *SubscriptionExpiryJob) Name() string { return "subscription-expiry" }

// Run implements Job.
func (j *SubscriptionExpiryJob) Run(ctx context.Context) error {
	moved, err := j.sweeper.SweepExpired(ctx, j.now().UTC())
	if err != nil {
		return fmt.Errorf("sweep expired subscriptions: %w", err)
	}
	j.logg.Info(j.logg.WithField(ctx, "expired_count", moved), "subscription expiry sweep complete")
	return nil
}
