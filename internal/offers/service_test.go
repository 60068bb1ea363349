package offers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/danielovera/streampass-backend/pkg/db/models"
	"github.com/danielovera/streampass-backend/pkg/enums"
	pkgerrors "github.com/danielovera/streampass-backend/pkg/errors"
	"github.com/danielovera/streampass-backend/pkg/pagination"
)

type fakeRepository struct {
	offers map[uuid.UUID]*models.SubscriptionOffer
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{offers: map[uuid.UUID]*models.SubscriptionOffer{}}
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, offer *models.SubscriptionOffer) error {
	offer.ID = uuid.New()
	f.offers[offer.ID] = offer
	return nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.SubscriptionOffer, error) {
	if o, ok := f.offers[id]; ok {
		copied := *o
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) FindByCode(ctx context.Context, code string) (*models.SubscriptionOffer, error) {
	for _, o := range f.offers {
		if o.Code == code {
			copied := *o
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) ListByChannel(ctx context.Context, channelID uuid.UUID, status enums.OfferStatus, params pagination.Params) ([]models.SubscriptionOffer, int64, error) {
	var out []models.SubscriptionOffer
	for _, o := range f.offers {
		if o.ChannelID != channelID {
			continue
		}
		if status != "" && o.Status != status {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepository) MarkSoldOut(ctx context.Context, id uuid.UUID) (int64, error) {
	return f.UpdateStatus(ctx, id, enums.OfferStatusActive, enums.OfferStatusSoldOut)
}

func (f *fakeRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.OfferStatus) (int64, error) {
	o, ok := f.offers[id]
	if !ok || o.Status != from {
		return 0, nil
	}
	o.Status = to
	return 1, nil
}

type fakeChannelFinder struct {
	known map[uuid.UUID]bool
}

func (f *fakeChannelFinder) ChannelExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return f.known[id], nil
}

func newTestService(t *testing.T, repo Repository, channelID uuid.UUID) Service {
	t.Helper()
	svc, err := NewService(repo, &fakeChannelFinder{known: map[uuid.UUID]bool{channelID: true}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateOfferValidatesInput(t *testing.T) {
	repo := newFakeRepository()
	channelID := uuid.New()
	svc := newTestService(t, repo, channelID)
	ctx := context.Background()

	cases := []struct {
		name string
		dto  CreateOfferDTO
		code pkgerrors.Code
	}{
		{"missing channel", CreateOfferDTO{Code: "A1", PriceCredits: 10, Duration: enums.OfferDurationOneMonth}, pkgerrors.CodeValidation},
		{"blank code", CreateOfferDTO{ChannelID: channelID, Code: "  ", PriceCredits: 10, Duration: enums.OfferDurationOneMonth}, pkgerrors.CodeValidation},
		{"negative price", CreateOfferDTO{ChannelID: channelID, Code: "A1", PriceCredits: -1, Duration: enums.OfferDurationOneMonth}, pkgerrors.CodeValidation},
		{"bad duration", CreateOfferDTO{ChannelID: channelID, Code: "A1", PriceCredits: 10, Duration: enums.OfferDuration("two_weeks")}, pkgerrors.CodeValidation},
		{"unknown channel", CreateOfferDTO{ChannelID: uuid.New(), Code: "A1", PriceCredits: 10, Duration: enums.OfferDurationOneMonth}, pkgerrors.CodeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateOffer(ctx, tc.dto)
			if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != tc.code {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestCreateOfferRejectsDuplicateCode(t *testing.T) {
	repo := newFakeRepository()
	channelID := uuid.New()
	svc := newTestService(t, repo, channelID)
	ctx := context.Background()

	dto := CreateOfferDTO{ChannelID: channelID, Code: "SPORTS-001", PriceCredits: 25, Duration: enums.OfferDurationSixMonths}
	if _, err := svc.CreateOffer(ctx, dto); err != nil {
		t.Fatalf("create offer: %v", err)
	}

	_, err := svc.CreateOffer(ctx, dto)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestGetOfferHidesCodeForStorefront(t *testing.T) {
	repo := newFakeRepository()
	channelID := uuid.New()
	svc := newTestService(t, repo, channelID)
	ctx := context.Background()

	created, err := svc.CreateOffer(ctx, CreateOfferDTO{ChannelID: channelID, Code: "SPORTS-001", PriceCredits: 25, Duration: enums.OfferDurationOneMonth})
	if err != nil {
		t.Fatalf("create offer: %v", err)
	}

	public, err := svc.GetOffer(ctx, created.ID, false)
	if err != nil {
		t.Fatalf("get offer: %v", err)
	}
	if public.Code != "" {
		t.Fatalf("storefront view leaked code %q", public.Code)
	}

	admin, err := svc.GetOffer(ctx, created.ID, true)
	if err != nil {
		t.Fatalf("get offer: %v", err)
	}
	if admin.Code != "SPORTS-001" {
		t.Fatalf("admin view code = %q", admin.Code)
	}
}

func TestCancelOfferTransitions(t *testing.T) {
	repo := newFakeRepository()
	channelID := uuid.New()
	svc := newTestService(t, repo, channelID)
	ctx := context.Background()

	created, err := svc.CreateOffer(ctx, CreateOfferDTO{ChannelID: channelID, Code: "SPORTS-001", PriceCredits: 25, Duration: enums.OfferDurationOneYear})
	if err != nil {
		t.Fatalf("create offer: %v", err)
	}

	cancelled, err := svc.CancelOffer(ctx, created.ID)
	if err != nil {
		t.Fatalf("cancel offer: %v", err)
	}
	if cancelled.Status != enums.OfferStatusCancelled {
		t.Fatalf("status = %s", cancelled.Status)
	}

	_, err = svc.CancelOffer(ctx, created.ID)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}

	_, err = svc.CancelOffer(ctx, uuid.New())
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMarkSoldOutIsSingleShot(t *testing.T) {
	repo := newFakeRepository()
	offer := &models.SubscriptionOffer{ChannelID: uuid.New(), Code: "X", Status: enums.OfferStatusActive}
	if err := repo.Create(context.Background(), offer); err != nil {
		t.Fatalf("seed offer: %v", err)
	}

	rows, err := repo.MarkSoldOut(context.Background(), offer.ID)
	if err != nil || rows != 1 {
		t.Fatalf("first flip rows=%d err=%v", rows, err)
	}
	rows, err = repo.MarkSoldOut(context.Background(), offer.ID)
	if err != nil || rows != 0 {
		t.Fatalf("second flip rows=%d err=%v", rows, err)
	}
}
