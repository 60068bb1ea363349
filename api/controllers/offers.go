package controllers

import (
	"net/http"
	"strings"

	"github.com/danielovera/streampass-backend/api/responses"
	"github.com/danielovera/streampass-backend/api/validators"
	offersvc "github.com/danielovera/streampass-backend/internal/offers"
	"github.com/danielovera/streampass-backend/pkg/enums"
	pkgerrors "github.com/danielovera/streampass-backend/pkg/errors"
	"github.com/danielovera/streampass-backend/pkg/logger"
	"github.com/danielovera/streampass-backend/pkg/types"
)

type createOfferRequest struct {
	Code         string `json:"code" validate:"required"`
	PriceCredits int64  `json:"price_credits" validate:"required,min=1"`
	Duration     string `json:"duration" validate:"required"`
}

// CreateOffer adds a subscription code to a channel's inventory.
func CreateOffer(svc offersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		channelID, err := validators.ParseUUIDParam(r, "channelID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createOfferRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		duration, err := enums.ParseOfferDuration(strings.TrimSpace(payload.Duration))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid duration"))
			return
		}

		offer, err := svc.CreateOffer(r.Context(), offersvc.CreateOfferDTO{
			ChannelID:    channelID,
			Code:         payload.Code,
			PriceCredits: payload.PriceCredits,
			Duration:     duration,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, offer)
	}
}

// AdminListChannelOffers lists a channel's offers with redemption codes visible.
func AdminListChannelOffers(svc offersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return listChannelOffers(svc, logg, true)
}

// StoreListChannelOffers lists purchasable offers without exposing codes.
func StoreListChannelOffers(svc offersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return listChannelOffers(svc, logg, false)
}

func listChannelOffers(svc offersvc.Service, logg *logger.Logger, includeCode bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		channelID, err := validators.ParseUUIDParam(r, "channelID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var status enums.OfferStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, err := enums.ParseOfferStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			status = parsed
		}
		if !includeCode {
			// The storefront only ever sees codes still up for sale.
			status = enums.OfferStatusActive
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		offers, meta, err := svc.ListChannelOffers(r.Context(), channelID, status, params, includeCode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.NewPagedData(offers, meta))
	}
}

// AdminGetOffer returns one offer with its redemption code.
func AdminGetOffer(svc offersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "offerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		offer, err := svc.GetOffer(r.Context(), id, true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, offer)
	}
}

// CancelOffer withdraws an unsold offer from sale.
func CancelOffer(svc offersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "offerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		offer, err := svc.CancelOffer(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, offer)
	}
}
