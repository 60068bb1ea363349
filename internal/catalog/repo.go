package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/danielovera/streampass-backend/pkg/db/models"
	"github.com/danielovera/streampass-backend/pkg/pagination"
)

// Repository manages persistence for channels, apps, and videos.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateChannel(ctx context.Context, channel *models.Channel) error
	FindChannelByID(ctx context.Context, id uuid.UUID) (*models.Channel, error)
	ChannelExists(ctx context.Context, id uuid.UUID) (bool, error)
	ListChannels(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Channel, int64, error)
	SaveChannel(ctx context.Context, channel *models.Channel) error
	DeleteChannel(ctx context.Context, id uuid.UUID) (int64, error)

	CreateApp(ctx context.Context, app *models.CatalogApp) error
	FindAppByID(ctx context.Context, id uuid.UUID) (*models.CatalogApp, error)
	ListApps(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.CatalogApp, int64, error)
	SaveApp(ctx context.Context, app *models.CatalogApp) error
	DeleteApp(ctx context.Context, id uuid.UUID) (int64, error)
	ClaimApp(ctx context.Context, id, ownerID uuid.UUID) (int64, error)

	CreateVideo(ctx context.Context, video *models.Video) error
	FindVideoByID(ctx context.Context, id uuid.UUID) (*models.Video, error)
	ListVideos(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Video, int64, error)
	SaveVideo(ctx context.Context, video *models.Video) error
	DeleteVideo(ctx context.Context, id uuid.UUID) (int64, error)
	ClaimVideo(ctx context.Context, id, ownerID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a catalog repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateChannel(ctx context.Context, channel *models.Channel) error {
	return r.db.WithContext(ctx).Create(channel).Error
}

func (r *repository) FindChannelByID(ctx context.Context, id uuid.UUID) (*models.Channel, error) {
	var channel models.Channel
	if err := r.db.WithContext(ctx).
		Preload("Offers").
		First(&channel, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &channel, nil
}

func (r *repository) ChannelExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Channel{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) ListChannels(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Channel, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Channel{})
	query = applyChannelFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var channels []models.Channel
	if err := query.
		Preload("Offers").
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&channels).Error; err != nil {
		return nil, 0, err
	}
	return channels, total, nil
}

func (r *repository) SaveChannel(ctx context.Context, channel *models.Channel) error {
	return r.db.WithContext(ctx).Save(channel).Error
}

func (r *repository) DeleteChannel(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Channel{}, "id = ?", id)
	return result.RowsAffected, result.Error
}

func (r *repository) CreateApp(ctx context.Context, app *models.CatalogApp) error {
	return r.db.WithContext(ctx).Create(app).Error
}

func (r *repository) FindAppByID(ctx context.Context, id uuid.UUID) (*models.CatalogApp, error) {
	var app models.CatalogApp
	if err := r.db.WithContext(ctx).First(&app, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *repository) ListApps(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.CatalogApp, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CatalogApp{})
	query = applyItemFilter(query, filter, "name")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var apps []models.CatalogApp
	if err := query.
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&apps).Error; err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

func (r *repository) SaveApp(ctx context.Context, app *models.CatalogApp) error {
	return r.db.WithContext(ctx).Save(app).Error
}

func (r *repository) DeleteApp(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.CatalogApp{}, "id = ?", id)
	return result.RowsAffected, result.Error
}

// ClaimApp sets the owner only when the app is still unowned. Zero rows
// means somebody else claimed it first.
func (r *repository) ClaimApp(ctx context.Context, id, ownerID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CatalogApp{}).
		Where("id = ? AND owner_user_id IS NULL", id).
		UpdateColumn("owner_user_id", ownerID)
	return result.RowsAffected, result.Error
}

func (r *repository) CreateVideo(ctx context.Context, video *models.Video) error {
	return r.db.WithContext(ctx).Create(video).Error
}

func (r *repository) FindVideoByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	var video models.Video
	if err := r.db.WithContext(ctx).First(&video, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *repository) ListVideos(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Video, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Video{})
	query = applyItemFilter(query, filter, "title")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var videos []models.Video
	if err := query.
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&videos).Error; err != nil {
		return nil, 0, err
	}
	return videos, total, nil
}

func (r *repository) SaveVideo(ctx context.Context, video *models.Video) error {
	return r.db.WithContext(ctx).Save(video).Error
}

func (r *repository) DeleteVideo(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Video{}, "id = ?", id)
	return result.RowsAffected, result.Error
}

func (r *repository) ClaimVideo(ctx context.Context, id, ownerID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Video{}).
		Where("id = ? AND owner_user_id IS NULL", id).
		UpdateColumn("owner_user_id", ownerID)
	return result.RowsAffected, result.Error
}

func applyChannelFilter(query *gorm.DB, filter ListFilter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ?", pattern)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}
	return query
}

func applyItemFilter(query *gorm.DB, filter ListFilter, nameColumn string) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER("+nameColumn+") LIKE ?", pattern)
	}
	if filter.MinPrice != nil {
		query = query.Where("price_credits >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price_credits <= ?", *filter.MaxPrice)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}
	return query
}
