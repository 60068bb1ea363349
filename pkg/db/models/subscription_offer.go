package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/danielovera/streampass-backend/pkg/enums"
)

// SubscriptionOffer is one unit of finite, priced inventory: a redemption
// code tied to a channel and a duration. Once sold it never returns to
// active.
type SubscriptionOffer struct {
	ID           uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ChannelID    uuid.UUID           `gorm:"column:channel_id;type:uuid;not null;index"`
	Code         string              `gorm:"column:code;not null;uniqueIndex"`
	PriceCredits int64               `gorm:"column:price_credits;not null"`
	Duration     enums.OfferDuration `gorm:"column:duration;not null"`
	Status       enums.OfferStatus   `gorm:"column:status;not null;default:'active';index"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
