package subscriptions

import (
	"time"

	"github.com/google/uuid"

	"github.com/danielovera/streampass-backend/pkg/db/models"
	"github.com/danielovera/streampass-backend/pkg/enums"
)

// SubscriptionDTO is the transport shape for an owned subscription. Status
// reflects wall-clock expiry even when the sweep has not persisted it yet.
type SubscriptionDTO struct {
	ID        uuid.UUID                `json:"id"`
	ChannelID uuid.UUID                `json:"channel_id"`
	OfferID   uuid.UUID                `json:"offer_id"`
	Code      string                   `json:"code"`
	StartsAt  time.Time                `json:"starts_at"`
	EndsAt    time.Time                `json:"ends_at"`
	Status    enums.SubscriptionStatus `json:"status"`
	CreatedAt time.Time                `json:"created_at"`
}

// FromModel maps a subscription, recomputing status against now.
func FromModel(s *models.UserSubscription, now time.Time) *SubscriptionDTO {
	if s == nil {
		return nil
	}

	status := s.Status
	if status == enums.SubscriptionStatusActive && s.ExpiredAt(now) {
		status = enums.SubscriptionStatusExpired
	}

	return &SubscriptionDTO{
		ID:        s.ID,
		ChannelID: s.ChannelID,
		OfferID:   s.OfferID,
		Code:      s.Code,
		StartsAt:  s.StartsAt,
		EndsAt:    s.EndsAt,
		Status:    status,
		CreatedAt: s.CreatedAt,
	}
}
