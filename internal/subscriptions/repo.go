package subscriptions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/danielovera/streampass-backend/pkg/db/models"
	"github.com/danielovera/streampass-backend/pkg/enums"
	"github.com/danielovera/streampass-backend/pkg/pagination"
)

// Repository manages persistence for user subscriptions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, sub *models.UserSubscription) error
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.UserSubscription, int64, error)
	MarkExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a subscriptions repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, sub *models.UserSubscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.UserSubscription, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.UserSubscription{}).
		Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.UserSubscription
	if err := query.
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// MarkExpired persists the expired status on every active subscription whose
// end date has passed, returning how many rows moved.
func (r *repository) MarkExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.UserSubscription{}).
		Where("status = ? AND ends_at < ?", enums.SubscriptionStatusActive, cutoff).
		UpdateColumn("status", enums.SubscriptionStatusExpired)
	return result.RowsAffected, result.Error
}
