// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JdarlingGT/portoJD-fresh/internal/application/container"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/observability/logging"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/persistence/kv"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/security"
	"github.com/JdarlingGT/portoJD-fresh/internal/presentation/http/server"
	"github.com/JdarlingGT/portoJD-fresh/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// Initialize performs the complete startup sequence
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found -- config defaults will be used")
	}

	_, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	// Step 1: Initialize channeled logging
	log.Println("Initializing...")
	logger, err := logging.NewChanneledLogger(logging.DefaultLoggerConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logger.Startup().Info("Channeled logging initialized")

	// Step 2: Open the durable key-value store
	logger.Startup().Info("Opening telemetry store",
		"driver", config.StorageDriver, "path", config.StoragePath)
	store, err := kv.NewSQLStore(config.StorageDriver, config.StoragePath, logger)
	if err != nil {
		return fmt.Errorf("failed to open telemetry store: %w", err)
	}

	// A password hash without a signing secret would leave the admin
	// surface half-configured; mint an ephemeral secret instead.
	if config.AdminPasswordHash != "" && config.JWTSecret == "" {
		secret, keyErr := security.GenerateSecureKey(64)
		if keyErr != nil {
			return fmt.Errorf("failed to generate jwt secret: %w", keyErr)
		}
		config.JWTSecret = secret
		logger.Startup().Warn("HEP_JWT_SECRET not set; generated an ephemeral secret, admin tokens will not survive a restart")
	}

	// Step 3: Create dependency injection container
	logger.Startup().Info("Initializing dependency injection container...")
	appContainer := container.NewContainer(store, logger)
	logger.Startup().Info("Dependency injection container created with singleton services")

	// Step 4: Run the daily rollup check for anything missed while down
	appContainer.RollupService.PerformDailyRollupIfDue()

	// Step 5: Start the behavior inference loop
	logger.Startup().Info("Starting behavior inference...")
	appContainer.BehaviorService.Start()

	// Step 6: Start HTTP server
	logger.Startup().Info("Starting HTTP server...")
	startServerTime := time.Now()

	port := config.Port
	httpServer := server.New(port, appContainer)

	logger.Startup().Info("HTTP server initialized", "port", port, "duration", time.Since(startServerTime))

	// Step 7: Setup graceful shutdown
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+port)
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}()

	totalStartupTime := time.Since(start)
	logger.Startup().Info("Application startup complete",
		"totalDuration", totalStartupTime,
		"port", port)

	// Wait for shutdown signal
	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")

	shutdownStart := time.Now()

	// Stop behavior timers and background tasks
	appContainer.BehaviorService.Teardown()
	cancelBackgroundTasks()

	// Stop server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Shutdown().Info("Stopping HTTP server...")
	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	// Close the store
	logger.Shutdown().Info("Closing telemetry store...")
	if err := store.Close(); err != nil {
		logger.Shutdown().Error("Error closing telemetry store", "error", err.Error())
	} else {
		logger.Shutdown().Info("Telemetry store closed successfully")
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", appContainer.PerfTracker.Uptime(),
		"operationsCompleted", appContainer.PerfTracker.CompletedCount(),
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
