package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/danielovera/streampass-backend/api/middleware"
	pkgerrors "github.com/danielovera/streampass-backend/pkg/errors"
)

// requestUserID extracts and parses the authenticated user from the context.
func requestUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return id, nil
}
