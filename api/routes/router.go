package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielovera/streampass-backend/api/controllers"
	"github.com/danielovera/streampass-backend/api/middleware"
	authsvc "github.com/danielovera/streampass-backend/internal/auth"
	catalogsvc "github.com/danielovera/streampass-backend/internal/catalog"
	mediasvc "github.com/danielovera/streampass-backend/internal/media"
	offersvc "github.com/danielovera/streampass-backend/internal/offers"
	purchasesvc "github.com/danielovera/streampass-backend/internal/purchase"
	subsvc "github.com/danielovera/streampass-backend/internal/subscriptions"
	usersvc "github.com/danielovera/streampass-backend/internal/users"
	"github.com/danielovera/streampass-backend/pkg/auth/session"
	"github.com/danielovera/streampass-backend/pkg/config"
	"github.com/danielovera/streampass-backend/pkg/enums"
	"github.com/danielovera/streampass-backend/pkg/logger"
	"github.com/danielovera/streampass-backend/pkg/metrics"
)

// RouterParams bundles everything the HTTP surface depends on.
type RouterParams struct {
	Config         *config.Config
	Logger         *logger.Logger
	SessionChecker session.AccessSessionChecker
	HTTPMetrics    *metrics.HTTPMetrics
	Gatherer       prometheus.Gatherer

	AuthService          authsvc.Service
	UsersService         usersvc.Service
	CatalogService       catalogsvc.Service
	OffersService        offersvc.Service
	PurchaseService      purchasesvc.Service
	SubscriptionsService subsvc.Service
	MediaService         mediasvc.Service
}

// NewRouter wires the full route tree: public storefront endpoints, the
// authenticated customer surface, and the admin dashboard API.
func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(cfg.CORS),
		middleware.Logging(logg, p.HTTPMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg))
	})

	if p.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.Register(p.AuthService, logg))
		r.Post("/login", controllers.Login(p.AuthService, logg))
		r.Post("/refresh", controllers.Refresh(p.AuthService, logg))
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, p.SessionChecker, logg))
			r.Post("/logout", controllers.Logout(p.AuthService, logg))
		})
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AdminLogin(p.AuthService, logg))
	})

	// Storefront: browsing is public, buying requires a session.
	r.Route("/api/v1/store", func(r chi.Router) {
		r.Get("/channels", controllers.ListChannels(p.CatalogService, logg))
		r.Get("/channels/{channelID}", controllers.GetChannel(p.CatalogService, logg))
		r.Get("/channels/{channelID}/offers", controllers.StoreListChannelOffers(p.OffersService, logg))
		r.Get("/apps", controllers.ListApps(p.CatalogService, logg))
		r.Get("/apps/{appID}", controllers.GetApp(p.CatalogService, logg))
		r.Get("/videos", controllers.ListVideos(p.CatalogService, logg))
		r.Get("/videos/{videoID}", controllers.GetVideo(p.CatalogService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, p.SessionChecker, logg))
			r.Post("/offers/{offerID}/purchase", controllers.PurchaseOffer(p.PurchaseService, logg))
			r.Post("/apps/{appID}/purchase", controllers.PurchaseApp(p.PurchaseService, logg))
			r.Post("/videos/{videoID}/purchase", controllers.PurchaseVideo(p.PurchaseService, logg))
			r.Get("/subscriptions", controllers.MySubscriptions(p.SubscriptionsService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.SessionChecker, logg))
		r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.AdminListUsers(p.UsersService, logg))
			r.Get("/{userID}", controllers.AdminGetUser(p.UsersService, logg))
			r.Post("/{userID}/credits/add", controllers.AdminAddCredits(p.UsersService, logg))
			r.Post("/{userID}/credits/set", controllers.AdminSetCredits(p.UsersService, logg))
			r.Post("/{userID}/credits/reset", controllers.AdminResetCredits(p.UsersService, logg))
			r.Get("/{userID}/credits/history", controllers.AdminCreditHistory(p.UsersService, logg))
			r.Post("/{userID}/offers/{offerID}/purchase", controllers.AdminPurchaseOffer(p.PurchaseService, logg))
		})

		r.Route("/channels", func(r chi.Router) {
			r.Get("/", controllers.ListChannels(p.CatalogService, logg))
			r.Post("/", controllers.CreateChannel(p.CatalogService, logg))
			r.Get("/{channelID}", controllers.GetChannel(p.CatalogService, logg))
			r.Patch("/{channelID}", controllers.UpdateChannel(p.CatalogService, logg))
			r.Delete("/{channelID}", controllers.DeleteChannel(p.CatalogService, logg))
			r.Get("/{channelID}/offers", controllers.AdminListChannelOffers(p.OffersService, logg))
			r.Post("/{channelID}/offers", controllers.CreateOffer(p.OffersService, logg))
		})

		r.Route("/offers", func(r chi.Router) {
			r.Get("/{offerID}", controllers.AdminGetOffer(p.OffersService, logg))
			r.Post("/{offerID}/cancel", controllers.CancelOffer(p.OffersService, logg))
		})

		r.Route("/apps", func(r chi.Router) {
			r.Get("/", controllers.ListApps(p.CatalogService, logg))
			r.Post("/", controllers.CreateApp(p.CatalogService, logg))
			r.Get("/{appID}", controllers.GetApp(p.CatalogService, logg))
			r.Patch("/{appID}", controllers.UpdateApp(p.CatalogService, logg))
			r.Delete("/{appID}", controllers.DeleteApp(p.CatalogService, logg))
		})

		r.Route("/videos", func(r chi.Router) {
			r.Get("/", controllers.ListVideos(p.CatalogService, logg))
			r.Post("/", controllers.CreateVideo(p.CatalogService, logg))
			r.Get("/{videoID}", controllers.GetVideo(p.CatalogService, logg))
			r.Patch("/{videoID}", controllers.UpdateVideo(p.CatalogService, logg))
			r.Delete("/{videoID}", controllers.DeleteVideo(p.CatalogService, logg))
		})

		r.Post("/media", controllers.MediaUpload(p.MediaService, logg))
	})

	return r
}
