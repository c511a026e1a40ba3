package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/vortisllc/memre-backend/internal/config"
	"github.com/vortisllc/memre-backend/internal/database"
	"github.com/vortisllc/memre-backend/internal/handlers"
	"github.com/vortisllc/memre-backend/internal/logging"
	"github.com/vortisllc/memre-backend/internal/mailer"
	"github.com/vortisllc/memre-backend/internal/memo"
	"github.com/vortisllc/memre-backend/internal/middleware"
	"github.com/vortisllc/memre-backend/internal/routes"
	"github.com/vortisllc/memre-backend/internal/schema"
	"github.com/vortisllc/memre-backend/internal/services"
	"github.com/vortisllc/memre-backend/internal/vault"
	"github.com/vortisllc/memre-backend/internal/worker"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}

	// Databases: the combined legacy DB and the dedicated MemrE DB
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	// Migrate shared identity and bookkeeping tables (legacy backend only;
	// per-user tables are provisioned on registration)
	if err := database.MigrateShared(); err != nil {
		slog.Error("shared migration failed", "error", err)
		os.Exit(1)
	}

	// DB log handler (ERROR+ async batch)
	dbLogHandler := logging.NewDBHandler(database.Legacy)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		dbLogHandler,
	)))

	// Log cleanup
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.Legacy, cfg.LogRetention, cleanupDone)

	// Backup vault for pre-deletion exports
	backupVault, err := vault.NewFromConfig(cfg)
	if err != nil {
		slog.Error("backup vault init failed", "type", cfg.VaultType, "error", err)
		os.Exit(1)
	}

	// Outbound mail
	mail, err := mailer.New(cfg)
	if err != nil {
		slog.Error("mailer init failed", "error", err)
		os.Exit(1)
	}

	// Schema lifecycle components
	provisioner := schema.NewProvisioner(database.Legacy, database.App, cfg.StatementLimit)
	verifier := schema.NewVerifier(database.Legacy, database.App, cfg.StrictVerification, cfg.StatementLimit)
	exporter := schema.NewExporter(schema.NewGormTableReader(database.Legacy), cfg.LegacyDBName, cfg.StatementLimit)
	teardown := schema.NewTeardown(database.Legacy, database.App, exporter, backupVault, cfg.StatementLimit)

	// Services
	authService := services.NewAuthService(database.Legacy, cfg)
	subscriptionService := services.NewSubscriptionService(database.Legacy, cfg)
	lifecycleService := services.NewLifecycleService(
		database.Legacy, cfg, authService, subscriptionService,
		provisioner, verifier, teardown, mail)
	memoRepo := memo.NewRepository(database.Legacy, cfg.StatementLimit)
	scanner := memo.NewScanner(database.Legacy, cfg.StatementLimit)
	dispatchService := services.NewDispatchService(database.Legacy, scanner, mail, cfg)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	lifecycleHandler := handlers.NewLifecycleHandler(lifecycleService, authService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService, lifecycleService)
	memoHandler := handlers.NewMemoHandler(memoRepo)
	reminderHandler := handlers.NewReminderHandler(dispatchService)
	healthHandler := handlers.NewHealthHandler()

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app; body limit sized for LONGBLOB attachment uploads
	app := fiber.New(fiber.Config{
		BodyLimit:    32 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	routes.Setup(app, cfg, database.Legacy,
		authHandler, lifecycleHandler, subscriptionHandler,
		memoHandler, reminderHandler, healthHandler)

	// Background reminder sweep
	sweep := worker.New(services.NewMetaStore(database.Legacy), dispatchService, cfg.SweepInterval)
	sweep.Start()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	sweep.Stop()
	close(cleanupDone)
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	// Close database connections
	if sqlDB, err := database.Legacy.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("legacy database close error", "error", err)
		}
	}
	if sqlDB, err := database.App.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("app database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
