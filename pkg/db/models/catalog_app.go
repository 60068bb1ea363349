package models

import (
	"time"

	"github.com/google/uuid"
)

// CatalogApp is a downloadable application sold for credits. Unlike offers
// there is no depletable inventory: purchase sets the owner reference.
type CatalogApp struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string     `gorm:"column:name;not null"`
	Description  *string    `gorm:"column:description"`
	PriceCredits int64      `gorm:"column:price_credits;not null"`
	DownloadURL  *string    `gorm:"column:download_url"`
	IconURL      *string    `gorm:"column:icon_url"`
	IconBlobID   *string    `gorm:"column:icon_blob_id"`
	OwnerUserID  *uuid.UUID `gorm:"column:owner_user_id;type:uuid;index"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
