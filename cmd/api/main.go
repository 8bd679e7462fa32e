package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/carpenter-backend/api"
	"github.com/angelmondragon/carpenter-backend/api/routes"
	"github.com/angelmondragon/carpenter-backend/internal/auth"
	"github.com/angelmondragon/carpenter-backend/internal/catalog"
	"github.com/angelmondragon/carpenter-backend/internal/contact"
	"github.com/angelmondragon/carpenter-backend/internal/content"
	"github.com/angelmondragon/carpenter-backend/internal/quotation"
	"github.com/angelmondragon/carpenter-backend/pkg/config"
	"github.com/angelmondragon/carpenter-backend/pkg/db"
	"github.com/angelmondragon/carpenter-backend/pkg/logger"
	"github.com/angelmondragon/carpenter-backend/pkg/mail"
	"github.com/angelmondragon/carpenter-backend/pkg/metrics"
	"github.com/angelmondragon/carpenter-backend/pkg/migrate"
	"github.com/angelmondragon/carpenter-backend/pkg/redis"
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

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
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

	var redisClient *redis.Client
	var cartKV quotation.KV = quotation.NewMemoryKV()
	var cartKey func(cartID string) string
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		cartKV, cartKey = redisClient, redisClient.QuotationKey
	} else {
		logg.Warn(ctx, "redis not configured: carts are process-local and rate limiting is off")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	sender := mail.NewInstrumented(mail.New(cfg, logg), metrics.NewMailMetrics(registry))

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		return err
	}
	contentService, err := content.NewService(content.NewRepository(dbClient.DB()), catalogService)
	if err != nil {
		return err
	}
	cartService, err := quotation.NewCarts(quotation.CartsParams{
		Products: catalogService,
		KV:       cartKV,
		Key:      cartKey,
		Logger:   logg,
	})
	if err != nil {
		return err
	}
	quotationService, err := quotation.NewSubmitter(quotation.SubmitParams{
		Sender:     sender,
		From:       cfg.Email.From,
		InternalTo: cfg.Email.To,
		Logger:     logg,
	})
	if err != nil {
		return err
	}
	contactService, err := contact.NewService(contact.Params{
		Sender:     sender,
		From:       cfg.Email.From,
		InternalTo: cfg.Email.To,
		Logger:     logg,
	})
	if err != nil {
		return err
	}
	authService, err := auth.NewService(auth.ServiceParams{
		AdminRepo:      auth.NewRepository(dbClient.DB()),
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":   cfg.App.Env,
		"addr":  addr,
		"redis": redisClient != nil,
	})
	logg.Info(ctx, "starting api server")

	handler := routes.NewRouter(
		cfg,
		logg,
		metrics.NewHTTPMetrics(registry),
		registry,
		dbClient,
		redisClient,
		catalogService,
		contentService,
		cartService,
		quotationService,
		contactService,
		authService,
	)
	return api.Serve(ctx, api.NewServer(addr, handler), logg)
}
