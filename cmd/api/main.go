package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"eventflow/docs"
	"eventflow/internal/auth/oauth"
	"eventflow/internal/config"
	"eventflow/internal/database"
	"eventflow/internal/database/migration"
	handlers "eventflow/internal/http/handler"
	"eventflow/internal/http/middleware"
	"eventflow/internal/otel"
	"eventflow/internal/repository/postgres"
	"eventflow/internal/service"
	"eventflow/internal/storage"
)

// @title EventFlow API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx := context.Background()

	// Tracing: OTLP exporter, propagators and tracer provider
	shutdownTracer, err := otel.Init(ctx, time.UTC)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Printf("tracer shutdown: %v", err)
		}
	}()

	// PostgreSQL connection (pooled via database/sql, instrumented with otelsql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, time.UTC, cfg.Database.Host); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// Redis-backed OAuth state and one-time login codes
	stateStore := oauth.NewRedisStore(cfg.Redis)
	defer stateStore.Close()

	// Identity providers. Google needs OIDC discovery at startup, so a
	// misconfigured provider is skipped rather than taking the API down.
	authn := oauth.NewAuthenticator()
	if cfg.OAuth.Google.ClientID != "" {
		google, err := oauth.NewGoogle(ctx, cfg.OAuth.Google)
		if err != nil {
			log.Printf("google oauth disabled: %v", err)
		} else if err := authn.Use("google", google); err != nil {
			log.Fatalf("failed to register google provider: %v", err)
		}
	}
	if cfg.OAuth.MediaWiki.ClientID != "" {
		if err := authn.Use("mediawiki", oauth.NewMediaWiki(cfg.OAuth.MediaWiki)); err != nil {
			log.Fatalf("failed to register mediawiki provider: %v", err)
		}
	}

	// Repositories
	userRepo := postgres.NewUserPostgres(db)
	accountRepo := postgres.NewAccountPostgres(db)
	tokenRepo := postgres.NewVerificationTokenPostgres(db)
	communityRepo := postgres.NewCommunityPostgres(db)
	adminRepo := postgres.NewCommunityAdminPostgres(db)
	memberRepo := postgres.NewCommunityMemberPostgres(db)
	eventRepo := postgres.NewEventPostgres(db)
	subRepo := postgres.NewSubscriptionPostgres(db)
	requestRepo := postgres.NewSubscriptionRequestPostgres(db)
	paymentRepo := postgres.NewPaymentTransactionPostgres(db)

	// Services
	jwtSecret := []byte(cfg.Auth.JWTSecret)
	svcs := handlers.Services{
		Auth:          service.NewAuthService(userRepo, accountRepo, tokenRepo, subRepo, jwtSecret, cfg.Auth.TokenTTL),
		Communities:   service.NewCommunityService(communityRepo, adminRepo, memberRepo, subRepo, objStore),
		Events:        service.NewEventService(eventRepo, communityRepo, adminRepo, subRepo, objStore),
		Subscriptions: service.NewSubscriptionService(subRepo, requestRepo, paymentRepo, userRepo, accountRepo),
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Global middleware
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	// Prometheus request metrics plus the /metrics scrape endpoint
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	promMW, err := middleware.NewPrometheusMiddleware(registry)
	if err != nil {
		log.Fatalf("failed to initialize prometheus middleware: %v", err)
	}
	app.Use(promMW.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, db, jwtSecret, authn, stateStore, svcs)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
