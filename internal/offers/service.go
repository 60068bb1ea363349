package offers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/danielovera/streampass-backend/pkg/enums"
	pkgerrors "github.com/danielovera/streampass-backend/pkg/errors"
	"github.com/danielovera/streampass-backend/pkg/pagination"
)

// channelFinder is the slice of the catalog surface offers need.
type channelFinder interface {
	ChannelExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service exposes offer management for admins and offer listings for the
// storefront.
type Service interface {
	CreateOffer(ctx context.Context, dto CreateOfferDTO) (*OfferDTO, error)
	GetOffer(ctx context.Context, id uuid.UUID, includeCode bool) (*OfferDTO, error)
	ListChannelOffers(ctx context.Context, channelID uuid.UUID, status enums.OfferStatus, params pagination.Params, includeCode bool) ([]OfferDTO, pagination.Meta, error)
	CancelOffer(ctx context.Context, id uuid.UUID) (*OfferDTO, error)
}

type service struct {
	repo     Repository
	channels channelFinder
}

// NewService wires an offers service with its repository and channel lookup.
func NewService(repo Repository, channels channelFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("offers repository required")
	}
	if channels == nil {
		return nil, fmt.Errorf("channel finder required")
	}
	return &service{repo: repo, channels: channels}, nil
}

func (s *service) CreateOffer(ctx context.Context, dto CreateOfferDTO) (*OfferDTO, error) {
	if dto.ChannelID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "channel id is required")
	}
	dto.Code = strings.TrimSpace(dto.Code)
	if dto.Code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "redemption code is required")
	}
	if dto.PriceCredits < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be a non-negative integer")
	}
	if !dto.Duration.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid offer duration %q", dto.Duration))
	}

	exists, err := s.channels.ChannelExists(ctx, dto.ChannelID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking channel")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "channel not found")
	}

	if _, err := s.repo.FindByCode(ctx, dto.Code); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "redemption code already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking code uniqueness")
	}

	offer := dto.ToModel()
	if err := s.repo.Create(ctx, offer); err != nil {
		// The unique index is the authority; the precheck only narrows the race.
		return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "creating offer")
	}
	return FromModel(offer, true), nil
}

func (s *service) GetOffer(ctx context.Context, id uuid.UUID, includeCode bool) (*OfferDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "offer id is required")
	}

	offer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading offer")
	}
	return FromModel(offer, includeCode), nil
}

func (s *service) ListChannelOffers(ctx context.Context, channelID uuid.UUID, status enums.OfferStatus, params pagination.Params, includeCode bool) ([]OfferDTO, pagination.Meta, error) {
	if channelID == uuid.Nil {
		return nil, pagination.Meta{}, pkgerrors.New(pkgerrors.CodeValidation, "channel id is required")
	}
	if status != "" && !status.IsValid() {
		return nil, pagination.Meta{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid offer status %q", status))
	}
	params = params.Normalize()

	rows, total, err := s.repo.ListByChannel(ctx, channelID, status, params)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing offers")
	}

	dtos := make([]OfferDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i], includeCode))
	}
	return dtos, pagination.MetaFor(params, total), nil
}

// CancelOffer withdraws an active offer from sale. Sold offers stay sold.
func (s *service) CancelOffer(ctx context.Context, id uuid.UUID) (*OfferDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "offer id is required")
	}

	rows, err := s.repo.UpdateStatus(ctx, id, enums.OfferStatusActive, enums.OfferStatusCancelled)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancelling offer")
	}
	if rows == 0 {
		offer, findErr := s.repo.FindByID(ctx, id)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, findErr, "loading offer")
		}
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("offer is %s and cannot be cancelled", offer.Status))
	}

	offer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading offer")
	}
	return FromModel(offer, true), nil
}
