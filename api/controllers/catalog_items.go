package controllers

import (
	"net/http"

	"github.com/danielovera/streampass-backend/api/responses"
	"github.com/danielovera/streampass-backend/api/validators"
	catalogsvc "github.com/danielovera/streampass-backend/internal/catalog"
	"github.com/danielovera/streampass-backend/pkg/logger"
	"github.com/danielovera/streampass-backend/pkg/types"
)

type createAppRequest struct {
	Name         string  `json:"name" validate:"required"`
	Description  *string `json:"description,omitempty"`
	PriceCredits int64   `json:"price_credits" validate:"min=0"`
	DownloadURL  *string `json:"download_url,omitempty"`
	IconURL      *string `json:"icon_url,omitempty"`
	IconBlobID   *string `json:"icon_blob_id,omitempty"`
}

type updateAppRequest struct {
	Name         *string `json:"name,omitempty"`
	Description  *string `json:"description,omitempty"`
	PriceCredits *int64  `json:"price_credits,omitempty"`
	DownloadURL  *string `json:"download_url,omitempty"`
	IconURL      *string `json:"icon_url,omitempty"`
	IconBlobID   *string `json:"icon_blob_id,omitempty"`
}

type createVideoRequest struct {
	Title        string  `json:"title" validate:"required"`
	Description  *string `json:"description,omitempty"`
	PriceCredits int64   `json:"price_credits" validate:"min=0"`
	VideoURL     *string `json:"video_url,omitempty"`
	ThumbURL     *string `json:"thumb_url,omitempty"`
	ThumbBlobID  *string `json:"thumb_blob_id,omitempty"`
}

type updateVideoRequest struct {
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	PriceCredits *int64  `json:"price_credits,omitempty"`
	VideoURL     *string `json:"video_url,omitempty"`
	ThumbURL     *string `json:"thumb_url,omitempty"`
	ThumbBlobID  *string `json:"thumb_blob_id,omitempty"`
}

// CreateApp adds a downloadable app to the catalog.
func CreateApp(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createAppRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		app, err := svc.CreateApp(r.Context(), catalogsvc.CreateAppDTO{
			Name:         payload.Name,
			Description:  payload.Description,
			PriceCredits: payload.PriceCredits,
			DownloadURL:  payload.DownloadURL,
			IconURL:      payload.IconURL,
			IconBlobID:   payload.IconBlobID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, app)
	}
}

// GetApp returns one app.
func GetApp(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "appID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		app, err := svc.GetApp(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, app)
	}
}

// ListApps pages through apps with optional filters.
func ListApps(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		apps, meta, err := svc.ListApps(r.Context(), filter, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.NewPagedData(apps, meta))
	}
}

// UpdateApp applies a partial update to an app.
func UpdateApp(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "appID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateAppRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		app, err := svc.UpdateApp(r.Context(), id, catalogsvc.UpdateAppDTO{
			Name:         payload.Name,
			Description:  payload.Description,
			PriceCredits: payload.PriceCredits,
			DownloadURL:  payload.DownloadURL,
			IconURL:      payload.IconURL,
			IconBlobID:   payload.IconBlobID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, app)
	}
}

// DeleteApp removes an app from the catalog.
func DeleteApp(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "appID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteApp(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// CreateVideo adds a demonstration video to the catalog.
func CreateVideo(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createVideoRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		video, err := svc.CreateVideo(r.Context(), catalogsvc.CreateVideoDTO{
			Title:        payload.Title,
			Description:  payload.Description,
			PriceCredits: payload.PriceCredits,
			VideoURL:     payload.VideoURL,
			ThumbURL:     payload.ThumbURL,
			ThumbBlobID:  payload.ThumbBlobID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, video)
	}
}

// GetVideo returns one video.
func GetVideo(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "videoID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		video, err := svc.GetVideo(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, video)
	}
}

// ListVideos pages through videos with optional filters.
func ListVideos(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		videos, meta, err := svc.ListVideos(r.Context(), filter, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.NewPagedData(videos, meta))
	}
}

// UpdateVideo applies a partial update to a video.
func UpdateVideo(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "videoID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateVideoRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		video, err := svc.UpdateVideo(r.Context(), id, catalogsvc.UpdateVideoDTO{
			Title:        payload.Title,
			Description:  payload.Description,
			PriceCredits: payload.PriceCredits,
			VideoURL:     payload.VideoURL,
			ThumbURL:     payload.ThumbURL,
			ThumbBlobID:  payload.ThumbBlobID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, video)
	}
}

// DeleteVideo removes a video from the catalog.
func DeleteVideo(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "videoID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteVideo(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
