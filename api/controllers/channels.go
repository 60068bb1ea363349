package controllers

import (
	"net/http"
	"strings"

	"github.com/danielovera/streampass-backend/api/responses"
	"github.com/danielovera/streampass-backend/api/validators"
	catalogsvc "github.com/danielovera/streampass-backend/internal/catalog"
	"github.com/danielovera/streampass-backend/pkg/enums"
	pkgerrors "github.com/danielovera/streampass-backend/pkg/errors"
	"github.com/danielovera/streampass-backend/pkg/logger"
	"github.com/danielovera/streampass-backend/pkg/types"
)

type createChannelRequest struct {
	Name        string  `json:"name" validate:"required"`
	Category    string  `json:"category" validate:"required"`
	Description *string `json:"description,omitempty"`
	LogoURL     *string `json:"logo_url,omitempty"`
	LogoBlobID  *string `json:"logo_blob_id,omitempty"`
}

type updateChannelRequest struct {
	Name        *string `json:"name,omitempty"`
	Category    *string `json:"category,omitempty"`
	Description *string `json:"description,omitempty"`
	LogoURL     *string `json:"logo_url,omitempty"`
	LogoBlobID  *string `json:"logo_blob_id,omitempty"`
}

// parseCatalogFilter reads the shared listing filters from the query string.
func parseCatalogFilter(r *http.Request) (catalogsvc.ListFilter, error) {
	filter := catalogsvc.ListFilter{
		Search: validators.SanitizeString(r.URL.Query().Get("search"), 200),
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
		category, err := enums.ParseChannelCategory(raw)
		if err != nil {
			return catalogsvc.ListFilter{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
		}
		filter.Category = category
	}

	minPrice, err := validators.ParseQueryInt64(r, "min_price")
	if err != nil {
		return catalogsvc.ListFilter{}, err
	}
	filter.MinPrice = minPrice

	maxPrice, err := validators.ParseQueryInt64(r, "max_price")
	if err != nil {
		return catalogsvc.ListFilter{}, err
	}
	filter.MaxPrice = maxPrice

	createdAfter, err := validators.ParseQueryTime(r, "created_after")
	if err != nil {
		return catalogsvc.ListFilter{}, err
	}
	filter.CreatedAfter = createdAfter

	createdBefore, err := validators.ParseQueryTime(r, "created_before")
	if err != nil {
		return catalogsvc.ListFilter{}, err
	}
	filter.CreatedBefore = createdBefore

	return filter, nil
}

// CreateChannel registers a new channel in the catalog.
func CreateChannel(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createChannelRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := enums.ParseChannelCategory(strings.TrimSpace(payload.Category))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
			return
		}

		channel, err := svc.CreateChannel(r.Context(), catalogsvc.CreateChannelDTO{
			Name:        payload.Name,
			Category:    category,
			Description: payload.Description,
			LogoURL:     payload.LogoURL,
			LogoBlobID:  payload.LogoBlobID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, channel)
	}
}

// GetChannel returns a single channel with its offer counts.
func GetChannel(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "channelID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		channel, err := svc.GetChannel(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, channel)
	}
}

// ListChannels pages through channels with optional filters.
func ListChannels(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseCatalogFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		channels, meta, err := svc.ListChannels(r.Context(), filter, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.NewPagedData(channels, meta))
	}
}

// UpdateChannel applies a partial update to a channel.
func UpdateChannel(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "channelID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateChannelRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto := catalogsvc.UpdateChannelDTO{
			Name:        payload.Name,
			Description: payload.Description,
			LogoURL:     payload.LogoURL,
			LogoBlobID:  payload.LogoBlobID,
		}
		if payload.Category != nil {
			category, err := enums.ParseChannelCategory(strings.TrimSpace(*payload.Category))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
				return
			}
			dto.Category = &category
		}

		channel, err := svc.UpdateChannel(r.Context(), id, dto)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, channel)
	}
}

// DeleteChannel removes a channel from the catalog.
func DeleteChannel(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "channelID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteChannel(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
