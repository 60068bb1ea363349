package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/danielovera/streampass-backend/pkg/logger"
)

type fakeSweeper struct {
	moved  int64
	err    error
	calls  int
	lastAt time.Time
}

func (f *fakeSweeper) SweepExpired(_ context.Context, now time.Time) (int64, error) {
	f.calls++
	f.lastAt = now
	return f.moved, f.err
}

func TestSubscriptionExpiryJobRunsSweep(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	sweeper := &fakeSweeper{moved: 3}
	job, err := NewSubscriptionExpiryJob(sweeper, logger.New(logger.Options{ServiceName: "cron-test"}))
	if err != nil {
		t.Fatalf("NewSubscriptionExpiryJob: %v", err)
	}
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sweeper.calls != 1 {
		t.Fatalf("expected 1 sweep, got %d", sweeper.calls)
	}
	if !sweeper.lastAt.Equal(now) {
		t.Fatalf("unexpected sweep cutoff: %s", sweeper.lastAt)
	}
	if job.Name() != "subscription-expiry" {
		t.Fatalf("unexpected job name: %s", job.Name())
	}
}

func TestSubscriptionExpiryJobPropagatesSweepError(t *testing.T) {
	sweeper := &fakeSweeper{err: errors.New("db down")}
	job, err := NewSubscriptionExpiryJob(sweeper, logger.New(logger.Options{ServiceName: "cron-test"}))
	if err != nil {
		t.Fatalf("NewSubscriptionExpiryJob: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected sweep error to propagate")
	}
}

func TestNewSubscriptionExpiryJobValidatesInputs(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	if _, err := NewSubscriptionExpiryJob(nil, logg); err == nil {
		t.Fatal("expected error without sweeper")
	}
	if _, err := NewSubscriptionExpiryJob(&fakeSweeper{}, nil); err == nil {
		t.Fatal("expected error without logger")
	}
}
