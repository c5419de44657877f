package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"minutesapi/internal/config"
	"minutesapi/internal/correction"
	"minutesapi/internal/database"
	"minutesapi/internal/database/migration"
	handlers "minutesapi/internal/http/handler"
	"minutesapi/internal/http/middleware"
	applogger "minutesapi/internal/logger"
	"minutesapi/internal/otel"
	"minutesapi/internal/publish"
	"minutesapi/internal/repository/postgres"
	"minutesapi/internal/service"
	"minutesapi/internal/speech"
	"minutesapi/internal/storage"
	"minutesapi/internal/summarize"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	appLog := applogger.New()
	loc := time.UTC
	ctx := context.Background()

	// Initialize OpenTelemetry tracing (no-op when OTEL_SDK_DISABLED=true)
	otelShutdown, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = otelShutdown(shutdownCtx)
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// Pipeline stages
	recognizer := speech.NewClient(cfg.Speech, appLog)
	engine := summarize.NewGeminiEngine(cfg.Gemini)
	templates := summarize.Templates()
	filter := correction.NewFilter(correction.DefaultRules())

	publisher := publish.NewDriveClient(cfg.Drive, appLog)
	// Verify the Drive folder is reachable up front. A failed check is logged
	// but does not prevent startup; publication errors surface per request.
	if err := publisher.CheckAccess(ctx); err != nil {
		appLog.WithComponent("publish").WithError(err).Warn("drive folder access check failed")
	}

	// Initialize repositories and services
	userRepo := postgres.NewUserPostgres(db)
	transcriptRepo := postgres.NewTranscriptionPostgres(db)
	minutesRepo := postgres.NewMinutesPostgres(db)

	authSvc := service.NewAuthService(userRepo)
	minutesSvc := service.NewMinutesService(
		objStore, recognizer, filter, engine, templates,
		publisher, transcriptRepo, minutesRepo, appLog,
	)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		// Meeting recordings run large; default 4 MiB body limit is too small.
		BodyLimit: 200 * 1024 * 1024,
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, authSvc, minutesSvc)

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
