package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/solehaus/wholesale-backend/api"
	"github.com/solehaus/wholesale-backend/api/middleware"
	"github.com/solehaus/wholesale-backend/api/routes"
	"github.com/solehaus/wholesale-backend/internal/auth"
	"github.com/solehaus/wholesale-backend/internal/buyers"
	"github.com/solehaus/wholesale-backend/internal/listings"
	"github.com/solehaus/wholesale-backend/pkg/auth/session"
	"github.com/solehaus/wholesale-backend/pkg/config"
	"github.com/solehaus/wholesale-backend/pkg/db"
	"github.com/solehaus/wholesale-backend/pkg/logger"
	"github.com/solehaus/wholesale-backend/pkg/metrics"
	"github.com/solehaus/wholesale-backend/pkg/migrate"
	"github.com/solehaus/wholesale-backend/pkg/redis"
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
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	// Without redis the login throttle is off and readiness reports it disabled.
	var (
		redisPinger db.Pinger
		rateStore   middleware.RateLimiterStore
	)
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		redisPinger = redisClient
		rateStore = redisClient
	} else {
		logg.Warn(ctx, "redis not configured, login rate limiting disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	domainMetrics := metrics.NewDomainMetrics(reg)

	adminCodec, err := session.NewCodec(session.AdminConfig(cfg.Session))
	if err != nil {
		return err
	}
	buyerCodec, err := session.NewCodec(session.BuyerConfig(cfg.Session))
	if err != nil {
		return err
	}

	if cfg.Admin.PasswordHash == "" {
		logg.Warn(ctx, "admin password hash not configured, admin login disabled")
	}
	authService, err := auth.NewService(auth.ServiceParams{
		BuyerRepo:         buyers.NewRepository(dbClient.DB()),
		BuyerCodec:        buyerCodec,
		AdminCodec:        adminCodec,
		AdminPasswordHash: cfg.Admin.PasswordHash,
		Metrics:           domainMetrics,
	})
	if err != nil {
		return err
	}

	listingsService, err := listings.NewService(listings.NewRepository(dbClient.DB()), dbClient, domainMetrics)
	if err != nil {
		return err
	}

	handler := routes.NewRouter(routes.Params{
		Config:          cfg,
		Logger:          logg,
		DB:              dbClient,
		Redis:           redisPinger,
		RateStore:       rateStore,
		BuyerCodec:      buyerCodec,
		AdminCodec:      adminCodec,
		AuthService:     authService,
		ListingsService: listingsService,
		HTTPMetrics:     metrics.NewHTTPMetrics(reg),
		Gatherer:        reg,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	srv := api.NewServer(port, handler)

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": srv.Addr,
	})
	logg.Info(logCtx, "starting api server")
	return api.Serve(logCtx, srv, logg)
}
