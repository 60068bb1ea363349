package types

import "github.com/danielovera/streampass-backend/pkg/pagination"

type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// PagedData wraps a list payload together with its pagination metadata.
type PagedData struct {
	Items any             `json:"items"`
	Meta  pagination.Meta `json:"meta"`
}

func NewPagedData(items any, meta pagination.Meta) PagedData {
	return PagedData{Items: items, Meta: meta}
}
