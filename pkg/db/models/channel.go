package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/danielovera/streampass-backend/pkg/enums"
)

// Channel is a catalog entry customers browse; subscription offers hang off it.
type Channel struct {
	ID          uuid.UUID             `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string                `gorm:"column:name;not null"`
	Category    enums.ChannelCategory `gorm:"column:category;not null"`
	Description *string               `gorm:"column:description"`
	LogoURL     *string               `gorm:"column:logo_url"`
	LogoBlobID  *string               `gorm:"column:logo_blob_id"`
	Offers      []SubscriptionOffer   `gorm:"foreignKey:ChannelID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
