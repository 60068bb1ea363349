package models

import (
	"time"

	"github.com/google/uuid"
)

// Video is a demonstration video sold for credits, owner-referenced on
// purchase like CatalogApp.
type Video struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Title        string     `gorm:"column:title;not null"`
	Description  *string    `gorm:"column:description"`
	PriceCredits int64      `gorm:"column:price_credits;not null"`
	VideoURL     *string    `gorm:"column:video_url"`
	ThumbURL     *string    `gorm:"column:thumb_url"`
	ThumbBlobID  *string    `gorm:"column:thumb_blob_id"`
	OwnerUserID  *uuid.UUID `gorm:"column:owner_user_id;type:uuid;index"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
