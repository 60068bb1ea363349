package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	authsvc "github.com/danielovera/streampass-backend/internal/auth"
	catalogsvc "github.com/danielovera/streampass-backend/internal/catalog"
	mediasvc "github.com/danielovera/streampass-backend/internal/media"
	offersvc "github.com/danielovera/streampass-backend/internal/offers"
	purchasesvc "github.com/danielovera/streampass-backend/internal/purchase"
	subsvc "github.com/danielovera/streampass-backend/internal/subscriptions"
	usersvc "github.com/danielovera/streampass-backend/internal/users"
	pkgAuth "github.com/danielovera/streampass-backend/pkg/auth"
	"github.com/danielovera/streampass-backend/pkg/auth/session"
	"github.com/danielovera/streampass-backend/pkg/config"
	"github.com/danielovera/streampass-backend/pkg/enums"
	"github.com/danielovera/streampass-backend/pkg/logger"
	"github.com/danielovera/streampass-backend/pkg/pagination"
)

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(context.Context, string) (bool, error) { return true, nil }

type stubAuthService struct{}

func (stubAuthService) Register(context.Context, authsvc.RegisterRequest) (*authsvc.LoginResponse, error) {
	return &authsvc.LoginResponse{}, nil
}

func (stubAuthService) Login(context.Context, authsvc.LoginRequest) (*authsvc.LoginResponse, error) {
	return &authsvc.LoginResponse{}, nil
}

func (stubAuthService) AdminLogin(context.Context, authsvc.LoginRequest) (*authsvc.LoginResponse, error) {
	return &authsvc.LoginResponse{}, nil
}

func (stubAuthService) Refresh(context.Context, authsvc.RefreshRequest) (*authsvc.RefreshResponse, error) {
	return &authsvc.RefreshResponse{}, nil
}

func (stubAuthService) Logout(context.Context, string) error { return nil }

type stubUsersService struct{}

func (stubUsersService) GetUser(context.Context, uuid.UUID) (*usersvc.UserDTO, error) {
	return &usersvc.UserDTO{}, nil
}

func (stubUsersService) ListUsers(_ context.Context, _ string, params pagination.Params) ([]usersvc.UserDTO, pagination.Meta, error) {
	return nil, pagination.MetaFor(params, 0), nil
}

func (stubUsersService) AddCredits(context.Context, uuid.UUID, uuid.UUID, int64) (*usersvc.UserDTO, error) {
	return &usersvc.UserDTO{}, nil
}

func (stubUsersService) SetCredits(context.Context, uuid.UUID, uuid.UUID, int64) (*usersvc.UserDTO, error) {
	return &usersvc.UserDTO{}, nil
}

func (stubUsersService) ResetCredits(context.Context, uuid.UUID, uuid.UUID) (*usersvc.UserDTO, error) {
	return &usersvc.UserDTO{}, nil
}

func (stubUsersService) CreditHistory(_ context.Context, _ uuid.UUID, params pagination.Params) ([]usersvc.LedgerEntryDTO, pagination.Meta, error) {
	return nil, pagination.MetaFor(params, 0), nil
}

type stubCatalogService struct{}

func (stubCatalogService) CreateChannel(context.Context, catalogsvc.CreateChannelDTO) (*catalogsvc.ChannelDTO, error) {
	return &catalogsvc.ChannelDTO{}, nil
}

func (stubCatalogService) GetChannel(context.Context, uuid.UUID) (*catalogsvc.ChannelDTO, error) {
	return &catalogsvc.ChannelDTO{}, nil
}

func (stubCatalogService) ListChannels(_ context.Context, _ catalogsvc.ListFilter, params pagination.Params) ([]catalogsvc.ChannelDTO, pagination.Meta, error) {
	return nil, pagination.MetaFor(params, 0), nil
}

func (stubCatalogService) UpdateChannel(context.Context, uuid.UUID, catalogsvc.UpdateChannelDTO) (*catalogsvc.ChannelDTO, error) {
	return &catalogsvc.ChannelDTO{}, nil
}

func (stubCatalogService) DeleteChannel(context.Context, uuid.UUID) error { return nil }

func (stubCatalogService) CreateApp(context.Context, catalogsvc.CreateAppDTO) (*catalogsvc.AppDTO, error) {
	return &catalogsvc.AppDTO{}, nil
}

func (stubCatalogService) GetApp(context.Context, uuid.UUID) (*catalogsvc.AppDTO, error) {
	return &catalogsvc.AppDTO{}, nil
}

func (stubCatalogService) ListApps(_ context.Context, _ catalogsvc.ListFilter, params pagination.Params) ([]catalogsvc.AppDTO, pagination.Meta, error) {
	return nil, pagination.MetaFor(params, 0), nil
}

func (stubCatalogService) UpdateApp(context.Context, uuid.UUID, catalogsvc.UpdateAppDTO) (*catalogsvc.AppDTO, error) {
	return &catalogsvc.AppDTO{}, nil
}

func (stubCatalogService) DeleteApp(context.Context, uuid.UUID) error { return nil }

func (stubCatalogService) CreateVideo(context.Context, catalogsvc.CreateVideoDTO) (*catalogsvc.VideoDTO, error) {
	return &catalogsvc.VideoDTO{}, nil
}

func (stubCatalogService) GetVideo(context.Context, uuid.UUID) (*catalogsvc.VideoDTO, error) {
	return &catalogsvc.VideoDTO{}, nil
}

func (stubCatalogService) ListVideos(_ context.Context, _ catalogsvc.ListFilter, params pagination.Params) ([]catalogsvc.VideoDTO, pagination.Meta, error) {
	return nil, pagination.MetaFor(params, 0), nil
}

func (stubCatalogService) UpdateVideo(context.Context, uuid.UUID, catalogsvc.UpdateVideoDTO) (*catalogsvc.VideoDTO, error) {
	return &catalogsvc.VideoDTO{}, nil
}

func (stubCatalogService) DeleteVideo(context.Context, uuid.UUID) error { return nil }

type stubOffersService struct{}

func (stubOffersService) CreateOffer(context.Context, offersvc.CreateOfferDTO) (*offersvc.OfferDTO, error) {
	return &offersvc.OfferDTO{}, nil
}

func (stubOffersService) GetOffer(context.Context, uuid.UUID, bool) (*offersvc.OfferDTO, error) {
	return &offersvc.OfferDTO{}, nil
}

func (stubOffersService) ListChannelOffers(_ context.Context, _ uuid.UUID, _ enums.OfferStatus, params pagination.Params, _ bool) ([]offersvc.OfferDTO, pagination.Meta, error) {
	return nil, pagination.MetaFor(params, 0), nil
}

func (stubOffersService) CancelOffer(context.Context, uuid.UUID) (*offersvc.OfferDTO, error) {
	return &offersvc.OfferDTO{}, nil
}

type stubPurchaseService struct{}

func (stubPurchaseService) PurchaseOffer(context.Context, uuid.UUID, uuid.UUID) (*purchasesvc.Receipt, error) {
	return &purchasesvc.Receipt{}, nil
}

func (stubPurchaseService) PurchaseApp(context.Context, uuid.UUID, uuid.UUID) (*purchasesvc.Receipt, error) {
	return &purchasesvc.Receipt{}, nil
}

func (stubPurchaseService) PurchaseVideo(context.Context, uuid.UUID, uuid.UUID) (*purchasesvc.Receipt, error) {
	return &purchasesvc.Receipt{}, nil
}

type stubSubscriptionsService struct{}

func (stubSubscriptionsService) ListMySubscriptions(_ context.Context, _ uuid.UUID, params pagination.Params) ([]subsvc.SubscriptionDTO, pagination.Meta, error) {
	return nil, pagination.MetaFor(params, 0), nil
}

func (stubSubscriptionsService) SweepExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}

type stubMediaService struct{}

func (stubMediaService) Upload(context.Context, mediasvc.UploadInput) (*mediasvc.UploadOutput, error) {
	return &mediasvc.UploadOutput{}, nil
}

func (stubMediaService) DeleteBlobBestEffort(context.Context, ...string) {}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "issuer",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("error"), Output: io.Discard})
	return NewRouter(RouterParams{
		Config:               cfg,
		Logger:               logg,
		SessionChecker:       stubSessionChecker{},
		AuthService:          stubAuthService{},
		UsersService:         stubUsersService{},
		CatalogService:       stubCatalogService{},
		OffersService:        stubOffersService{},
		PurchaseService:      stubPurchaseService{},
		SubscriptionsService: stubSubscriptionsService{},
		MediaService:         stubMediaService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthEndpointsArePublic(t *testing.T) {
	router := newTestRouter(testConfig())
	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s got %d", path, resp.Code)
		}
	}
}

func TestStorefrontBrowsingIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	for _, path := range []string{"/api/v1/store/channels", "/api/v1/store/apps", "/api/v1/store/videos"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s got %d", path, resp.Code)
		}
	}
}

func TestPurchaseRequiresToken(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/store/offers/"+uuid.NewString()+"/purchase", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPurchaseSucceedsWithToken(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/store/offers/"+uuid.NewString()+"/purchase", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with token got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	asCustomer := httptest.NewRequest(http.MethodGet, "/api/admin/v1/users/", nil)
	asCustomer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, asCustomer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer got %d", resp.Code)
	}

	asAdmin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/users/", nil)
	asAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, asAdmin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAdminGroupRejectsMissingToken(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/channels/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}
