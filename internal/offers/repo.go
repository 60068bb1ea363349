package offers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/danielovera/streampass-backend/pkg/db/models"
	"github.com/danielovera/streampass-backend/pkg/enums"
	"github.com/danielovera/streampass-backend/pkg/pagination"
)

// Repository manages persistence for subscription offers.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, offer *models.SubscriptionOffer) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.SubscriptionOffer, error)
	FindByCode(ctx context.Context, code string) (*models.SubscriptionOffer, error)
	ListByChannel(ctx context.Context, channelID uuid.UUID, status enums.OfferStatus, params pagination.Params) ([]models.SubscriptionOffer, int64, error)
	MarkSoldOut(ctx context.Context, id uuid.UUID) (int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.OfferStatus) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an offers repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, offer *models.SubscriptionOffer) error {
	return r.db.WithContext(ctx).Create(offer).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.SubscriptionOffer, error) {
	var offer models.SubscriptionOffer
	if err := r.db.WithContext(ctx).First(&offer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *repository) FindByCode(ctx context.Context, code string) (*models.SubscriptionOffer, error) {
	var offer models.SubscriptionOffer
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&offer).Error; err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *repository) ListByChannel(ctx context.Context, channelID uuid.UUID, status enums.OfferStatus, params pagination.Params) ([]models.SubscriptionOffer, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.SubscriptionOffer{}).
		Where("channel_id = ?", channelID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.SubscriptionOffer
	if err := query.
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// MarkSoldOut flips an active offer to sold_out. Zero rows means the offer
// was already taken or otherwise not purchasable, so the caller must abort.
func (r *repository) MarkSoldOut(ctx context.Context, id uuid.UUID) (int64, error) {
	return r.UpdateStatus(ctx, id, enums.OfferStatusActive, enums.OfferStatusSoldOut)
}

// UpdateStatus performs a compare-and-set transition and reports rows touched.
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.OfferStatus) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.SubscriptionOffer{}).
		Where("id = ? AND status = ?", id, from).
		UpdateColumn("status", to)
	return result.RowsAffected, result.Error
}
