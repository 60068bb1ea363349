package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/danielovera/streampass-backend/api/middleware"
	authsvc "github.com/danielovera/streampass-backend/internal/auth"
	usersvc "github.com/danielovera/streampass-backend/internal/users"
	"github.com/danielovera/streampass-backend/pkg/enums"
	pkgerrors "github.com/danielovera/streampass-backend/pkg/errors"
)

type stubAuthService struct {
	registerResp *authsvc.LoginResponse
	registerErr  error
	loginResp    *authsvc.LoginResponse
	loginErr     error
	refreshResp  *authsvc.RefreshResponse
	refreshErr   error
	logoutErr    error

	lastRegister authsvc.RegisterRequest
	lastLogin    authsvc.LoginRequest
	lastRefresh  authsvc.RefreshRequest
	lastLogout   string
}

func (s *stubAuthService) Register(_ context.Context, req authsvc.RegisterRequest) (*authsvc.LoginResponse, error) {
	s.lastRegister = req
	return s.registerResp, s.registerErr
}

func (s *stubAuthService) Login(_ context.Context, req authsvc.LoginRequest) (*authsvc.LoginResponse, error) {
	s.lastLogin = req
	return s.loginResp, s.loginErr
}

func (s *stubAuthService) AdminLogin(_ context.Context, req authsvc.LoginRequest) (*authsvc.LoginResponse, error) {
	s.lastLogin = req
	return s.loginResp, s.loginErr
}

func (s *stubAuthService) Refresh(_ context.Context, req authsvc.RefreshRequest) (*authsvc.RefreshResponse, error) {
	s.lastRefresh = req
	return s.refreshResp, s.refreshErr
}

func (s *stubAuthService) Logout(_ context.Context, accessID string) error {
	s.lastLogout = accessID
	return s.logoutErr
}

func TestRegisterReturnsCreated(t *testing.T) {
	svc := &stubAuthService{
		registerResp: &authsvc.LoginResponse{
			AccessToken:  "access",
			RefreshToken: "refresh",
			User:         &usersvc.UserDTO{ID: uuid.New(), Email: "a@b.com", Role: enums.UserRoleCustomer},
		},
	}
	handler := Register(svc, nil)

	body := `{"email":"a@b.com","password":"longenough","display_name":"Alice"}`
	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}
	if svc.lastRegister.Email != "a@b.com" {
		t.Fatalf("unexpected register payload: %+v", svc.lastRegister)
	}
	var envelope struct {
		Data authsvc.LoginResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.AccessToken != "access" {
		t.Fatalf("unexpected access token %q", envelope.Data.AccessToken)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc := &stubAuthService{}
	handler := Register(svc, nil)

	body := `{"email":"a@b.com","password":"short","display_name":"Alice"}`
	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if svc.lastRegister.Email != "" {
		t.Fatal("service should not be called on validation failure")
	}
}

func TestLoginMapsUnauthorized(t *testing.T) {
	svc := &stubAuthService{loginErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	handler := Login(svc, nil)

	body := `{"email":"a@b.com","password":"whatever"}`
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestRefreshForwardsTokens(t *testing.T) {
	svc := &stubAuthService{
		refreshResp: &authsvc.RefreshResponse{AccessToken: "new-access", RefreshToken: "new-refresh"},
	}
	handler := Refresh(svc, nil)

	body := `{"access_token":"stale","refresh_token":"old-refresh"}`
	req := httptest.NewRequest(http.MethodPost, "/refresh", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.lastRefresh.RefreshToken != "old-refresh" {
		t.Fatalf("unexpected refresh payload: %+v", svc.lastRefresh)
	}
	var envelope struct {
		Data authsvc.RefreshResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.RefreshToken != "new-refresh" {
		t.Fatalf("unexpected refresh token %q", envelope.Data.RefreshToken)
	}
}

func TestLogoutRevokesContextSession(t *testing.T) {
	svc := &stubAuthService{}
	handler := Logout(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req = req.WithContext(middleware.WithAccessID(req.Context(), "session-1"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.lastLogout != "session-1" {
		t.Fatalf("expected revoked session-1 got %s", svc.lastLogout)
	}
}

func TestLogoutWithoutSessionContext(t *testing.T) {
	handler := Logout(&stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}
