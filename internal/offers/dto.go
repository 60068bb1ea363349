package offers

import (
	"time"

	"github.com/google/uuid"

	"github.com/danielovera/streampass-backend/pkg/db/models"
	"github.com/danielovera/streampass-backend/pkg/enums"
)

// OfferDTO is the transport shape for a subscription offer. The redemption
// code is only exposed to admins and to the buyer after purchase.
type OfferDTO struct {
	ID           uuid.UUID           `json:"id"`
	ChannelID    uuid.UUID           `json:"channel_id"`
	Code         string              `json:"code,omitempty"`
	PriceCredits int64               `json:"price_credits"`
	Duration     enums.OfferDuration `json:"duration"`
	Status       enums.OfferStatus   `json:"status"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// CreateOfferDTO carries the admin-provided offer fields.
type CreateOfferDTO struct {
	ChannelID    uuid.UUID
	Code         string
	PriceCredits int64
	Duration     enums.OfferDuration
}

// FromModel maps an offer, optionally hiding the redemption code.
func FromModel(o *models.SubscriptionOffer, includeCode bool) *OfferDTO {
	if o == nil {
		return nil
	}

	dto := &OfferDTO{
		ID:           o.ID,
		ChannelID:    o.ChannelID,
		PriceCredits: o.PriceCredits,
		Duration:     o.Duration,
		Status:       o.Status,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
	if includeCode {
		dto.Code = o.Code
	}
	return dto
}

func (c CreateOfferDTO) ToModel() *models.SubscriptionOffer {
	return &models.SubscriptionOffer{
		ChannelID:    c.ChannelID,
		Code:         c.Code,
		PriceCredits: c.PriceCredits,
		Duration:     c.Duration,
		Status:       enums.OfferStatusActive,
	}
}
