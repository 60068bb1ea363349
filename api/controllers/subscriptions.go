package controllers

import (
	"net/http"

	"github.com/danielovera/streampass-backend/api/responses"
	"github.com/danielovera/streampass-backend/api/validators"
	subsvc "github.com/danielovera/streampass-backend/internal/subscriptions"
	"github.com/danielovera/streampass-backend/pkg/logger"
	"github.com/danielovera/streampass-backend/pkg/types"
)

// MySubscriptions pages through the caller's purchased subscriptions.
func MySubscriptions(svc subsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		subscriptions, meta, err := svc.ListMySubscriptions(r.Context(), userID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.NewPagedData(subscriptions, meta))
	}
}
