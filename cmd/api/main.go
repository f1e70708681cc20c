package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/casatienda/storefront-backend/api/routes"
	"github.com/casatienda/storefront-backend/internal/affiliate"
	"github.com/casatienda/storefront-backend/internal/auth"
	"github.com/casatienda/storefront-backend/internal/buttons"
	"github.com/casatienda/storefront-backend/internal/orders"
	product "github.com/casatienda/storefront-backend/internal/products"
	"github.com/casatienda/storefront-backend/internal/users"
	"github.com/casatienda/storefront-backend/pkg/auth/session"
	"github.com/casatienda/storefront-backend/pkg/config"
	"github.com/casatienda/storefront-backend/pkg/db"
	"github.com/casatienda/storefront-backend/pkg/logger"
	"github.com/casatienda/storefront-backend/pkg/metrics"
	"github.com/casatienda/storefront-backend/pkg/migrate"
	"github.com/casatienda/storefront-backend/pkg/redis"
	"github.com/casatienda/storefront-backend/pkg/whatsapp"
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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
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

	registry := prometheus.NewRegistry()
	orderMetrics := metrics.NewOrderMetrics(registry)

	var notifier orders.Notifier
	if cfg.WhatsApp.Enabled() {
		waClient, err := whatsapp.NewClient(context.Background(), cfg.WhatsApp, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create whatsapp client", err)
			os.Exit(1)
		}
		notifier = waClient
	} else {
		logg.Warn(context.Background(), "whatsapp notifications disabled, missing twilio credentials")
	}

	userRepo := users.NewRepository(dbClient.DB())
	productRepo := product.NewRepository(dbClient.DB())
	affiliateRepo := affiliate.NewRepository(dbClient.DB())
	buttonRepo := buttons.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())

	authService, err := auth.NewService(userRepo, sessionManager, cfg.JWT, cfg.Password, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	productService, err := product.NewService(productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	affiliateService, err := affiliate.NewService(affiliateRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create affiliate service", err)
		os.Exit(1)
	}

	buttonService, err := buttons.NewService(buttonRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create button service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(
		orderRepo,
		dbClient,
		orders.NewProductFinder(productRepo),
		orders.NewUserFinder(userRepo),
		orders.NewReferralRecorder(affiliateRepo),
		affiliate.NewRateResolver(affiliateRepo, cfg.Affiliate.DefaultCommissionRate),
		notifier,
		logg,
		orderMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

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
		Handler: routes.NewRouter(routes.Deps{
			Config:           cfg,
			Logger:           logg,
			Database:         dbClient,
			Cache:            redisClient,
			Sessions:         sessionManager,
			Registry:         registry,
			AuthService:      authService,
			ProductService:   productService,
			OrderService:     orderService,
			AffiliateService: affiliateService,
			ButtonService:    buttonService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
