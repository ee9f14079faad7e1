package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jeffstoncourt/bookingserver/internal/config"
	"github.com/jeffstoncourt/bookingserver/internal/connect"
	"github.com/jeffstoncourt/bookingserver/internal/container"
	"github.com/jeffstoncourt/bookingserver/internal/metrics"
	"github.com/jeffstoncourt/bookingserver/internal/models"
	"github.com/jeffstoncourt/bookingserver/internal/notify"
	"github.com/jeffstoncourt/bookingserver/internal/payments"
	"github.com/jeffstoncourt/bookingserver/internal/routes"
	"github.com/jeffstoncourt/bookingserver/internal/services"
	"github.com/jeffstoncourt/bookingserver/internal/sheetapi"
)

func main() {
	// Load environment variables
	_ = godotenv.Load(".env.local")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup logger
	logger := setupLogger(cfg)
	logger.Info("Starting Jeffston Court API server", "environment", cfg.Environment, "backend", cfg.StorageBackend)

	metrics.Register()

	notifier := notify.NewCollector(logger)

	// Mongo is optional; without it failed submissions are not parked for
	// retry.
	var mongoClient *mongo.Client
	var outbox models.OutboxRepo
	if cfg.MongoDBURI != "" {
		mongoClient, err = connect.MongoDBConnect()
		if err != nil {
			logger.Error("Failed to connect to MongoDB", "error", err)
			os.Exit(1)
		}
		logger.Info("Connected to MongoDB successfully")
		outbox = models.MongodbNewRepo(mongoClient)
	}

	// Pick the storage backend
	var backend container.StorageBackend
	var lister services.BookingLister
	switch cfg.StorageBackend {
	case config.BackendSheets:
		store, err := connect.InitSheetStore(context.Background(), cfg.GoogleCredentialsFile, cfg.SpreadsheetID)
		if err != nil {
			logger.Error("Failed to connect to Google Sheets", "error", err)
			os.Exit(1)
		}
		logger.Info("Connected to Google Sheets successfully")
		backend = store
		lister = store
	default:
		opts := []sheetapi.Option{sheetapi.WithNotifier(notifier)}
		if outbox != nil {
			opts = append(opts, sheetapi.WithOutbox(outbox))
		}
		backend = sheetapi.NewClient(cfg.ScriptURL, opts...)
	}

	gateway := payments.NewPaystack(cfg.PaystackSecretKey)

	// Initialize dependency container
	appContainer := container.NewContainer(logger, notifier, backend, lister, gateway, gateway, mongoClient, cfg)

	// Setup routes
	router := routes.SetupRoutes(appContainer, cfg.AllowOrigin)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	if err := connect.MongoDBDisconnect(); err != nil {
		logger.Error("Error disconnecting from MongoDB", "error", err)
	}

	logger.Info("Server exited")
}

func setupLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	if cfg.IsProduction() {
		// JSON logging for production
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		// Human-readable logging for development
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	return slog.New(handler)
}
