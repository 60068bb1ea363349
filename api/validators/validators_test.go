package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	pkgerrors "github.com/danielovera/streampass-backend/pkg/errors"
	"github.com/danielovera/streampass-backend/pkg/pagination"
)

type samplePayload struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required,min=2"`
}

func TestDecodeJSONBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.com","name":"ok"}`))
	var dest samplePayload
	if err := DecodeJSONBody(r, &dest); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dest.Email != "a@b.com" {
		t.Fatalf("unexpected email: %s", dest.Email)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.com","name":"ok","extra":1}`))
	var dest samplePayload
	err := DecodeJSONBody(r, &dest)
	if err == nil {
		t.Fatal("expected unknown-field error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyReportsFieldMessages(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"nope","name":""}`))
	var dest samplePayload
	err := DecodeJSONBody(r, &dest)
	if err == nil {
		t.Fatal("expected validation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", typed.Details())
	}
	if details["email"] != "must be a valid email" {
		t.Fatalf("unexpected email message: %q", details["email"])
	}
	if details["name"] != "is required" {
		t.Fatalf("unexpected name message: %q", details["name"])
	}
}

func TestParsePagination(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?page=3&limit=10", nil)
	params, err := ParsePagination(r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if params.Page != 3 || params.Limit != 10 {
		t.Fatalf("unexpected params: %+v", params)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	params, err = ParsePagination(r)
	if err != nil {
		t.Fatalf("parse defaults: %v", err)
	}
	if params.Page != 1 || params.Limit != pagination.DefaultLimit {
		t.Fatalf("unexpected defaults: %+v", params)
	}

	r = httptest.NewRequest(http.MethodGet, "/?limit=bananas", nil)
	if _, err := ParsePagination(r); err == nil {
		t.Fatal("expected error for non-numeric limit")
	}

	r = httptest.NewRequest(http.MethodGet, "/?limit=5000", nil)
	if _, err := ParsePagination(r); err == nil {
		t.Fatal("expected error for limit above maximum")
	}
}

func TestParseQueryInt64(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?min_price=25", nil)
	value, err := ParseQueryInt64(r, "min_price")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if value == nil || *value != 25 {
		t.Fatalf("unexpected value: %v", value)
	}

	value, err = ParseQueryInt64(r, "max_price")
	if err != nil || value != nil {
		t.Fatalf("expected nil for absent key, got %v %v", value, err)
	}

	r = httptest.NewRequest(http.MethodGet, "/?min_price=abc", nil)
	if _, err := ParseQueryInt64(r, "min_price"); err == nil {
		t.Fatal("expected error for non-numeric value")
	}
}

func TestParseQueryTime(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?created_after=2026-09-01T00:00:00Z", nil)
	value, err := ParseQueryTime(r, "created_after")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	if value == nil || !value.Equal(want) {
		t.Fatalf("unexpected value: %v", value)
	}

	r = httptest.NewRequest(http.MethodGet, "/?created_after=yesterday", nil)
	if _, err := ParseQueryTime(r, "created_after"); err == nil {
		t.Fatal("expected error for malformed timestamp")
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  hello  ", 0); got != "hello" {
		t.Fatalf("unexpected sanitize result: %q", got)
	}
	if got := SanitizeString("abcdef", 3); got != "abc" {
		t.Fatalf("expected truncation, got %q", got)
	}
}
