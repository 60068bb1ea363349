package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/danielovera/streampass-backend/pkg/db/models"
	"github.com/danielovera/streampass-backend/pkg/enums"
	pkgerrors "github.com/danielovera/streampass-backend/pkg/errors"
	"github.com/danielovera/streampass-backend/pkg/pagination"
)

type fakeRepository struct {
	channels map[uuid.UUID]*models.Channel
	apps     map[uuid.UUID]*models.CatalogApp
	videos   map[uuid.UUID]*models.Video

	lastFilter ListFilter
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		channels: map[uuid.UUID]*models.Channel{},
		apps:     map[uuid.UUID]*models.CatalogApp{},
		videos:   map[uuid.UUID]*models.Video{},
	}
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) CreateChannel(ctx context.Context, channel *models.Channel) error {
	channel.ID = uuid.New()
	f.channels[channel.ID] = channel
	return nil
}

func (f *fakeRepository) FindChannelByID(ctx context.Context, id uuid.UUID) (*models.Channel, error) {
	if c, ok := f.channels[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) ChannelExists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.channels[id]
	return ok, nil
}

func (f *fakeRepository) ListChannels(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Channel, int64, error) {
	f.lastFilter = filter
	var out []models.Channel
	for _, c := range f.channels {
		if filter.Category != "" && c.Category != filter.Category {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepository) SaveChannel(ctx context.Context, channel *models.Channel) error {
	f.channels[channel.ID] = channel
	return nil
}

func (f *fakeRepository) DeleteChannel(ctx context.Context, id uuid.UUID) (int64, error) {
	if _, ok := f.channels[id]; !ok {
		return 0, nil
	}
	delete(f.channels, id)
	return 1, nil
}

func (f *fakeRepository) CreateApp(ctx context.Context, app *models.CatalogApp) error {
	app.ID = uuid.New()
	f.apps[app.ID] = app
	return nil
}

func (f *fakeRepository) FindAppByID(ctx context.Context, id uuid.UUID) (*models.CatalogApp, error) {
	if a, ok := f.apps[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) ListApps(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.CatalogApp, int64, error) {
	f.lastFilter = filter
	var out []models.CatalogApp
	for _, a := range f.apps {
		if filter.MinPrice != nil && a.PriceCredits < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && a.PriceCredits > *filter.MaxPrice {
			continue
		}
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepository) SaveApp(ctx context.Context, app *models.CatalogApp) error {
	f.apps[app.ID] = app
	return nil
}

func (f *fakeRepository) DeleteApp(ctx context.Context, id uuid.UUID) (int64, error) {
	if _, ok := f.apps[id]; !ok {
		return 0, nil
	}
	delete(f.apps, id)
	return 1, nil
}

func (f *fakeRepository) ClaimApp(ctx context.Context, id, ownerID uuid.UUID) (int64, error) {
	a, ok := f.apps[id]
	if !ok || a.OwnerUserID != nil {
		return 0, nil
	}
	a.OwnerUserID = &ownerID
	return 1, nil
}

func (f *fakeRepository) CreateVideo(ctx context.Context, video *models.Video) error {
	video.ID = uuid.New()
	f.videos[video.ID] = video
	return nil
}

func (f *fakeRepository) FindVideoByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	if v, ok := f.videos[id]; ok {
		copied := *v
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) ListVideos(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Video, int64, error) {
	f.lastFilter = filter
	var out []models.Video
	for _, v := range f.videos {
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepository) SaveVideo(ctx context.Context, video *models.Video) error {
	f.videos[video.ID] = video
	return nil
}

func (f *fakeRepository) DeleteVideo(ctx context.Context, id uuid.UUID) (int64, error) {
	if _, ok := f.videos[id]; !ok {
		return 0, nil
	}
	delete(f.videos, id)
	return 1, nil
}

func (f *fakeRepository) ClaimVideo(ctx context.Context, id, ownerID uuid.UUID) (int64, error) {
	v, ok := f.videos[id]
	if !ok || v.OwnerUserID != nil {
		return 0, nil
	}
	v.OwnerUserID = &ownerID
	return 1, nil
}

type fakeBlobCleaner struct {
	deleted []string
}

func (f *fakeBlobCleaner) DeleteBlobBestEffort(_ context.Context, blobIDs ...string) {
	f.deleted = append(f.deleted, blobIDs...)
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateChannelValidatesInput(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo)
	ctx := context.Background()

	if _, err := svc.CreateChannel(ctx, CreateChannelDTO{Name: "  ", Category: enums.ChannelCategoryIPTV}); err == nil {
		t.Fatal("expected error for blank name")
	}
	if _, err := svc.CreateChannel(ctx, CreateChannelDTO{Name: "Sports+", Category: enums.ChannelCategory("cable")}); err == nil {
		t.Fatal("expected error for bad category")
	}

	dto, err := svc.CreateChannel(ctx, CreateChannelDTO{Name: "Sports+", Category: enums.ChannelCategoryIPTV})
	if err != nil {
		t.Fatalf("create channel: %v", err)
	}
	if dto.ID == uuid.Nil {
		t.Fatal("expected assigned channel id")
	}
}

func TestListChannelsFiltersByCategory(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo)
	ctx := context.Background()

	if _, err := svc.CreateChannel(ctx, CreateChannelDTO{Name: "Sports+", Category: enums.ChannelCategoryIPTV}); err != nil {
		t.Fatalf("create channel: %v", err)
	}
	if _, err := svc.CreateChannel(ctx, CreateChannelDTO{Name: "FilmBox", Category: enums.ChannelCategoryStreaming}); err != nil {
		t.Fatalf("create channel: %v", err)
	}

	channels, meta, err := svc.ListChannels(ctx, ListFilter{Category: enums.ChannelCategoryIPTV}, pagination.Params{})
	if err != nil {
		t.Fatalf("list channels: %v", err)
	}
	if len(channels) != 1 || channels[0].Name != "Sports+" {
		t.Fatalf("unexpected channels %+v", channels)
	}
	if meta.TotalItems != 1 {
		t.Fatalf("total = %d", meta.TotalItems)
	}

	if _, _, err := svc.ListChannels(ctx, ListFilter{Category: enums.ChannelCategory("cable")}, pagination.Params{}); err == nil {
		t.Fatal("expected error for invalid category filter")
	}
}

func TestChannelActiveOfferCount(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo)
	ctx := context.Background()

	created, err := svc.CreateChannel(ctx, CreateChannelDTO{Name: "Sports+", Category: enums.ChannelCategoryIPTV})
	if err != nil {
		t.Fatalf("create channel: %v", err)
	}
	repo.channels[created.ID].Offers = []models.SubscriptionOffer{
		{Status: enums.OfferStatusActive},
		{Status: enums.OfferStatusActive},
		{Status: enums.OfferStatusSoldOut},
	}

	got, err := svc.GetChannel(ctx, created.ID)
	if err != nil {
		t.Fatalf("get channel: %v", err)
	}
	if got.ActiveOffers != 2 {
		t.Fatalf("active offers = %d, want 2", got.ActiveOffers)
	}
}

func TestUpdateChannelAppliesPartialChanges(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo)
	ctx := context.Background()

	created, err := svc.CreateChannel(ctx, CreateChannelDTO{Name: "Sports+", Category: enums.ChannelCategoryIPTV})
	if err != nil {
		t.Fatalf("create channel: %v", err)
	}

	name := "Sports Ultra"
	updated, err := svc.UpdateChannel(ctx, created.ID, UpdateChannelDTO{Name: &name})
	if err != nil {
		t.Fatalf("update channel: %v", err)
	}
	if updated.Name != name {
		t.Fatalf("name = %q", updated.Name)
	}
	if updated.Category != enums.ChannelCategoryIPTV {
		t.Fatalf("category changed unexpectedly to %s", updated.Category)
	}
}

func TestUpdateChannelReleasesReplacedLogoBlob(t *testing.T) {
	repo := newFakeRepository()
	cleaner := &fakeBlobCleaner{}
	svc, err := NewService(repo, cleaner)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	oldBlob := "blob-old"
	created, err := svc.CreateChannel(ctx, CreateChannelDTO{
		Name:       "Sports+",
		Category:   enums.ChannelCategoryIPTV,
		LogoBlobID: &oldBlob,
	})
	if err != nil {
		t.Fatalf("create channel: %v", err)
	}

	newBlob := "blob-new"
	if _, err := svc.UpdateChannel(ctx, created.ID, UpdateChannelDTO{LogoBlobID: &newBlob}); err != nil {
		t.Fatalf("update channel: %v", err)
	}
	if len(cleaner.deleted) != 1 || cleaner.deleted[0] != oldBlob {
		t.Fatalf("deleted blobs = %v, want [%s]", cleaner.deleted, oldBlob)
	}

	// Re-sending the same blob id must not delete it.
	if _, err := svc.UpdateChannel(ctx, created.ID, UpdateChannelDTO{LogoBlobID: &newBlob}); err != nil {
		t.Fatalf("update channel: %v", err)
	}
	if len(cleaner.deleted) != 1 {
		t.Fatalf("deleted blobs = %v after no-op update", cleaner.deleted)
	}
}

func TestDeleteChannelReleasesLogoBlob(t *testing.T) {
	repo := newFakeRepository()
	cleaner := &fakeBlobCleaner{}
	svc, err := NewService(repo, cleaner)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	blob := "blob-logo"
	created, err := svc.CreateChannel(ctx, CreateChannelDTO{
		Name:       "Movies 24",
		Category:   enums.ChannelCategoryStreaming,
		LogoBlobID: &blob,
	})
	if err != nil {
		t.Fatalf("create channel: %v", err)
	}

	if err := svc.DeleteChannel(ctx, created.ID); err != nil {
		t.Fatalf("delete channel: %v", err)
	}
	if len(cleaner.deleted) != 1 || cleaner.deleted[0] != blob {
		t.Fatalf("deleted blobs = %v, want [%s]", cleaner.deleted, blob)
	}
}

func TestDeleteChannelNotFound(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo)

	err := svc.DeleteChannel(context.Background(), uuid.New())
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListAppsValidatesPriceRange(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo)
	ctx := context.Background()

	minPrice := int64(50)
	maxPrice := int64(10)
	_, _, err := svc.ListApps(ctx, ListFilter{MinPrice: &minPrice, MaxPrice: &maxPrice}, pagination.Params{})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListAppsFiltersByPrice(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo)
	ctx := context.Background()

	if _, err := svc.CreateApp(ctx, CreateAppDTO{Name: "Player Pro", PriceCredits: 100}); err != nil {
		t.Fatalf("create app: %v", err)
	}
	if _, err := svc.CreateApp(ctx, CreateAppDTO{Name: "Player Lite", PriceCredits: 10}); err != nil {
		t.Fatalf("create app: %v", err)
	}

	minPrice := int64(50)
	apps, _, err := svc.ListApps(ctx, ListFilter{MinPrice: &minPrice}, pagination.Params{})
	if err != nil {
		t.Fatalf("list apps: %v", err)
	}
	if len(apps) != 1 || apps[0].Name != "Player Pro" {
		t.Fatalf("unexpected apps %+v", apps)
	}
}

func TestUpdateAppAppliesPartialFields(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo)
	ctx := context.Background()

	created, err := svc.CreateApp(ctx, CreateAppDTO{Name: "Player Pro", PriceCredits: 100})
	if err != nil {
		t.Fatalf("create app: %v", err)
	}

	newPrice := int64(75)
	updated, err := svc.UpdateApp(ctx, created.ID, UpdateAppDTO{PriceCredits: &newPrice})
	if err != nil {
		t.Fatalf("update app: %v", err)
	}
	if updated.PriceCredits != 75 {
		t.Fatalf("price = %d, want 75", updated.PriceCredits)
	}
	if updated.Name != "Player Pro" {
		t.Fatalf("name = %q, want unchanged", updated.Name)
	}

	empty := "  "
	if _, err := svc.UpdateApp(ctx, created.ID, UpdateAppDTO{Name: &empty}); err == nil {
		t.Fatal("expected validation error for blank name")
	}
}

func TestUpdateAppNotFound(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo)

	name := "Ghost"
	_, err := svc.UpdateApp(context.Background(), uuid.New(), UpdateAppDTO{Name: &name})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateAppReleasesReplacedIconBlob(t *testing.T) {
	repo := newFakeRepository()
	cleaner := &fakeBlobCleaner{}
	svc, err := NewService(repo, cleaner)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	oldBlob := "icon-old"
	created, err := svc.CreateApp(ctx, CreateAppDTO{Name: "Player Pro", PriceCredits: 100, IconBlobID: &oldBlob})
	if err != nil {
		t.Fatalf("create app: %v", err)
	}

	newBlob := "icon-new"
	if _, err := svc.UpdateApp(ctx, created.ID, UpdateAppDTO{IconBlobID: &newBlob}); err != nil {
		t.Fatalf("update app: %v", err)
	}
	if len(cleaner.deleted) != 1 || cleaner.deleted[0] != oldBlob {
		t.Fatalf("deleted blobs = %v, want [%s]", cleaner.deleted, oldBlob)
	}

	// Re-sending the same blob id must not delete it.
	if _, err := svc.UpdateApp(ctx, created.ID, UpdateAppDTO{IconBlobID: &newBlob}); err != nil {
		t.Fatalf("update app: %v", err)
	}
	if len(cleaner.deleted) != 1 {
		t.Fatalf("deleted blobs = %v after no-op update", cleaner.deleted)
	}
}

func TestUpdateVideoReleasesReplacedThumbBlob(t *testing.T) {
	repo := newFakeRepository()
	cleaner := &fakeBlobCleaner{}
	svc, err := NewService(repo, cleaner)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	oldBlob := "thumb-old"
	created, err := svc.CreateVideo(ctx, CreateVideoDTO{Title: "Setup Guide", PriceCredits: 20, ThumbBlobID: &oldBlob})
	if err != nil {
		t.Fatalf("create video: %v", err)
	}

	newBlob := "thumb-new"
	title := "Setup Guide v2"
	updated, err := svc.UpdateVideo(ctx, created.ID, UpdateVideoDTO{Title: &title, ThumbBlobID: &newBlob})
	if err != nil {
		t.Fatalf("update video: %v", err)
	}
	if updated.Title != title {
		t.Fatalf("title = %q, want %q", updated.Title, title)
	}
	if len(cleaner.deleted) != 1 || cleaner.deleted[0] != oldBlob {
		t.Fatalf("deleted blobs = %v, want [%s]", cleaner.deleted, oldBlob)
	}
}

func TestCreateVideoRejectsNegativePrice(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo)

	_, err := svc.CreateVideo(context.Background(), CreateVideoDTO{Title: "Demo", PriceCredits: -1})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
