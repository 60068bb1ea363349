package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/danielovera/streampass-backend/pkg/db/models"
	"github.com/danielovera/streampass-backend/pkg/enums"
)

// ChannelDTO is the transport shape for a channel and its offer counts.
type ChannelDTO struct {
	ID           uuid.UUID             `json:"id"`
	Name         string                `json:"name"`
	Category     enums.ChannelCategory `json:"category"`
	Description  *string               `json:"description,omitempty"`
	LogoURL      *string               `json:"logo_url,omitempty"`
	ActiveOffers int                   `json:"active_offers"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// CreateChannelDTO carries the admin-provided channel fields.
type CreateChannelDTO struct {
	Name        string
	Category    enums.ChannelCategory
	Description *string
	LogoURL     *string
	LogoBlobID  *string
}

// UpdateChannelDTO carries partial channel updates; nil means unchanged.
type UpdateChannelDTO struct {
	Name        *string
	Category    *enums.ChannelCategory
	Description *string
	LogoURL     *string
	LogoBlobID  *string
}

// AppDTO is the transport shape for a downloadable app.
type AppDTO struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Description  *string    `json:"description,omitempty"`
	PriceCredits int64      `json:"price_credits"`
	DownloadURL  *string    `json:"download_url,omitempty"`
	IconURL      *string    `json:"icon_url,omitempty"`
	OwnerUserID  *uuid.UUID `json:"owner_user_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CreateAppDTO carries the admin-provided app fields.
type CreateAppDTO struct {
	Name         string
	Description  *string
	PriceCredits int64
	DownloadURL  *string
	IconURL      *string
	IconBlobID   *string
}

// UpdateAppDTO carries partial app updates; nil means unchanged.
type UpdateAppDTO struct {
	Name         *string
	Description  *string
	PriceCredits *int64
	DownloadURL  *string
	IconURL      *string
	IconBlobID   *string
}

// VideoDTO is the transport shape for a demonstration video.
type VideoDTO struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Description  *string    `json:"description,omitempty"`
	PriceCredits int64      `json:"price_credits"`
	VideoURL     *string    `json:"video_url,omitempty"`
	ThumbURL     *string    `json:"thumb_url,omitempty"`
	OwnerUserID  *uuid.UUID `json:"owner_user_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CreateVideoDTO carries the admin-provided video fields.
type CreateVideoDTO struct {
	Title        string
	Description  *string
	PriceCredits int64
	VideoURL     *string
	ThumbURL     *string
	ThumbBlobID  *string
}

// UpdateVideoDTO carries partial video updates; nil means unchanged.
type UpdateVideoDTO struct {
	Title        *string
	Description  *string
	PriceCredits *int64
	VideoURL     *string
	ThumbURL     *string
	ThumbBlobID  *string
}

// ListFilter narrows catalog listings. Zero values mean "no constraint".
type ListFilter struct {
	Search        string
	Category      enums.ChannelCategory
	MinPrice      *int64
	MaxPrice      *int64
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

func ChannelFromModel(c *models.Channel) *ChannelDTO {
	if c == nil {
		return nil
	}

	active := 0
	for _, offer := range c.Offers {
		if offer.Status == enums.OfferStatusActive {
			active++
		}
	}

	return &ChannelDTO{
		ID:           c.ID,
		Name:         c.Name,
		Category:     c.Category,
		Description:  c.Description,
		LogoURL:      c.LogoURL,
		ActiveOffers: active,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func AppFromModel(a *models.CatalogApp) *AppDTO {
	if a == nil {
		return nil
	}

	return &AppDTO{
		ID:           a.ID,
		Name:         a.Name,
		Description:  a.Description,
		PriceCredits: a.PriceCredits,
		DownloadURL:  a.DownloadURL,
		IconURL:      a.IconURL,
		OwnerUserID:  a.OwnerUserID,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func VideoFromModel(v *models.Video) *VideoDTO {
	if v == nil {
		return nil
	}

	return &VideoDTO{
		ID:           v.ID,
		Title:        v.Title,
		Description:  v.Description,
		PriceCredits: v.PriceCredits,
		VideoURL:     v.VideoURL,
		ThumbURL:     v.ThumbURL,
		OwnerUserID:  v.OwnerUserID,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

func (c CreateChannelDTO) ToModel() *models.Channel {
	return &models.Channel{
		Name:        c.Name,
		Category:    c.Category,
		Description: c.Description,
		LogoURL:     c.LogoURL,
		LogoBlobID:  c.LogoBlobID,
	}
}

func (c CreateAppDTO) ToModel() *models.CatalogApp {
	return &models.CatalogApp{
		Name:         c.Name,
		Description:  c.Description,
		PriceCredits: c.PriceCredits,
		DownloadURL:  c.DownloadURL,
		IconURL:      c.IconURL,
		IconBlobID:   c.IconBlobID,
	}
}

func (c CreateVideoDTO) ToModel() *models.Video {
	return &models.Video{
		Title:        c.Title,
		Description:  c.Description,
		PriceCredits: c.PriceCredits,
		VideoURL:     c.VideoURL,
		ThumbURL:     c.ThumbURL,
		ThumbBlobID:  c.ThumbBlobID,
	}
}
