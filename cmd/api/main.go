package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/danielovera/streampass-backend/api/routes"
	"github.com/danielovera/streampass-backend/internal/auth"
	"github.com/danielovera/streampass-backend/internal/catalog"
	"github.com/danielovera/streampass-backend/internal/media"
	"github.com/danielovera/streampass-backend/internal/offers"
	"github.com/danielovera/streampass-backend/internal/purchase"
	"github.com/danielovera/streampass-backend/internal/subscriptions"
	"github.com/danielovera/streampass-backend/internal/users"
	"github.com/danielovera/streampass-backend/pkg/auth/session"
	"github.com/danielovera/streampass-backend/pkg/config"
	"github.com/danielovera/streampass-backend/pkg/db"
	"github.com/danielovera/streampass-backend/pkg/logger"
	"github.com/danielovera/streampass-backend/pkg/metrics"
	"github.com/danielovera/streampass-backend/pkg/migrate"
	"github.com/danielovera/streampass-backend/pkg/redis"
	"github.com/danielovera/streampass-backend/pkg/storage/blobcdn"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())
	offersRepo := offers.NewRepository(dbClient.DB())
	subsRepo := subscriptions.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(usersRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	offersService, err := offers.NewService(offersRepo, catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create offers service", err)
		os.Exit(1)
	}

	subscriptionsService, err := subscriptions.NewService(subsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create subscriptions service", err)
		os.Exit(1)
	}

	purchaseService, err := purchase.NewService(usersRepo, offersRepo, catalogRepo, subsRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create purchase service", err)
		os.Exit(1)
	}

	var uploader *blobcdn.Client
	if cfg.BlobCDN.Configured() {
		uploader, err = blobcdn.NewClient(context.Background(), cfg.BlobCDN, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create blob cdn client", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "blob cdn not configured, media uploads stay inline")
	}

	var mediaService media.Service
	if uploader != nil {
		mediaService, err = media.NewService(uploader, cfg.Media, logg)
	} else {
		mediaService, err = media.NewService(nil, cfg.Media, logg)
	}
	if err != nil {
		logg.Error(context.Background(), "failed to create media service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalogRepo, mediaService)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:         cfg,
			Logger:         logg,
			SessionChecker: sessionManager,
			HTTPMetrics:    httpMetrics,
			Gatherer:       registry,

			AuthService:          authService,
			UsersService:         usersService,
			CatalogService:       catalogService,
			OffersService:        offersService,
			PurchaseService:      purchaseService,
			SubscriptionsService: subscriptionsService,
			MediaService:         mediaService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
