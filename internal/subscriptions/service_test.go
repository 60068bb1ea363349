package subscriptions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/danielovera/streampass-backend/pkg/db/models"
	"github.com/danielovera/streampass-backend/pkg/enums"
	"github.com/danielovera/streampass-backend/pkg/pagination"
)

type fakeRepository struct {
	subs []*models.UserSubscription
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, sub *models.UserSubscription) error {
	sub.ID = uuid.New()
	f.subs = append(f.subs, sub)
	return nil
}

func (f *fakeRepository) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.UserSubscription, int64, error) {
	var out []models.UserSubscription
	for _, s := range f.subs {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepository) MarkExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	var moved int64
	for _, s := range f.subs {
		if s.Status == enums.SubscriptionStatusActive && s.EndsAt.Before(cutoff) {
			s.Status = enums.SubscriptionStatusExpired
			moved++
		}
	}
	return moved, nil
}

func TestListMySubscriptionsComputesExpiryOnRead(t *testing.T) {
	repo := &fakeRepository{}
	userID := uuid.New()
	now := time.Now()

	repo.subs = []*models.UserSubscription{
		{
			ID:     uuid.New(),
			UserID: userID,
			Code:   "LIVE",
			EndsAt: now.Add(24 * time.Hour),
			Status: enums.SubscriptionStatusActive,
		},
		{
			ID:     uuid.New(),
			UserID: userID,
			Code:   "STALE",
			EndsAt: now.Add(-24 * time.Hour),
			Status: enums.SubscriptionStatusActive,
		},
		{
			ID:     uuid.New(),
			UserID: uuid.New(),
			Code:   "OTHER",
			EndsAt: now.Add(24 * time.Hour),
			Status: enums.SubscriptionStatusActive,
		},
	}

	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	subs, meta, err := svc.ListMySubscriptions(context.Background(), userID, pagination.Params{})
	if err != nil {
		t.Fatalf("list subscriptions: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("expected 2 subscriptions, got %d", len(subs))
	}
	if meta.TotalItems != 2 {
		t.Fatalf("total = %d", meta.TotalItems)
	}

	byCode := map[string]SubscriptionDTO{}
	for _, s := range subs {
		byCode[s.Code] = s
	}
	if byCode["LIVE"].Status != enums.SubscriptionStatusActive {
		t.Fatalf("LIVE status = %s", byCode["LIVE"].Status)
	}
	if byCode["STALE"].Status != enums.SubscriptionStatusExpired {
		t.Fatalf("STALE status = %s", byCode["STALE"].Status)
	}
}

func TestSweepExpiredPersistsStatus(t *testing.T) {
	repo := &fakeRepository{}
	now := time.Now()

	repo.subs = []*models.UserSubscription{
		{ID: uuid.New(), UserID: uuid.New(), EndsAt: now.Add(-time.Hour), Status: enums.SubscriptionStatusActive},
		{ID: uuid.New(), UserID: uuid.New(), EndsAt: now.Add(time.Hour), Status: enums.SubscriptionStatusActive},
		{ID: uuid.New(), UserID: uuid.New(), EndsAt: now.Add(-time.Hour), Status: enums.SubscriptionStatusExpired},
	}

	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	moved, err := svc.SweepExpired(context.Background(), now)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if moved != 1 {
		t.Fatalf("moved = %d, want 1", moved)
	}
	if repo.subs[0].Status != enums.SubscriptionStatusExpired {
		t.Fatal("past-due subscription not persisted as expired")
	}
	if repo.subs[1].Status != enums.SubscriptionStatusActive {
		t.Fatal("future subscription should stay active")
	}
}
