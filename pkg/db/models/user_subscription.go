package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/danielovera/streampass-backend/pkg/enums"
)

// UserSubscription is the durable ownership record created exactly once per
// successful purchase. The redemption code is copied from the offer so the
// record stays self-contained; only the status field changes after creation,
// and only towards expired.
type UserSubscription struct {
	ID        uuid.UUID                `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID                `gorm:"column:user_id;type:uuid;not null;index"`
	OfferID   uuid.UUID                `gorm:"column:offer_id;type:uuid;not null;uniqueIndex"`
	ChannelID uuid.UUID                `gorm:"column:channel_id;type:uuid;not null"`
	Code      string                   `gorm:"column:code;not null"`
	StartsAt  time.Time                `gorm:"column:starts_at;not null"`
	EndsAt    time.Time                `gorm:"column:ends_at;not null;index"`
	Status    enums.SubscriptionStatus `gorm:"column:status;not null;default:'active'"`
	CreatedAt time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

// ExpiredAt reports whether the subscription is past due at the given
// instant, regardless of the persisted status.
func (s UserSubscription) ExpiredAt(now time.Time) bool {
	return now.After(s.EndsAt)
}
