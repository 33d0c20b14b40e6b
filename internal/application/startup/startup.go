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

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/opc-go/internal/application/container"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/caching/cleanup"
	schema "github.com/AtRiskMedia/opc-go/internal/infrastructure/database"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/manifest"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/persistence/database"
	"github.com/AtRiskMedia/opc-go/internal/presentation/http/server"
	"github.com/AtRiskMedia/opc-go/pkg/config"
)

// Initialize performs the complete startup sequence and blocks until shutdown
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	log.Println("\033[32m" + `
   ___  ____   ____
  / _ \|  _ \ / ___|
 | | | | |_) | |
 | |_| |  __/| |___
  \___/|_|    \____|  on-page composition
` + "\033[0m")

	// Step 1: Channeled logging
	logger, err := logging.NewChanneledLogger(loggerConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logger.Close()
	logger.Startup().Info("Channeled logging initialized", "json", config.LogJSON, "level", config.LogLevel)

	// Step 2: Database
	phaseStart := time.Now()
	db, err := database.NewConnectionWithLogger(config.DBDriver, config.DBDSN, logger)
	if err != nil {
		logger.LogStartupPhase("database", time.Since(phaseStart), false, map[string]any{"driver": config.DBDriver})
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	tc := schema.NewTableCreator()
	if err := tc.CreateSchema(db.DB); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if err := tc.SeedInitialContent(db.DB); err != nil {
		return fmt.Errorf("failed to seed initial content: %w", err)
	}
	logger.LogStartupPhase("database", time.Since(phaseStart), true, map[string]any{"driver": config.DBDriver})

	// Step 3: Portlet manifest
	phaseStart = time.Now()
	overrides, err := manifest.Load(config.PortletManifest)
	if err != nil {
		logger.LogStartupPhase("manifest", time.Since(phaseStart), false, map[string]any{"path": config.PortletManifest})
		return fmt.Errorf("failed to load portlet manifest: %w", err)
	}
	logger.LogStartupPhase("manifest", time.Since(phaseStart), true, map[string]any{"path": config.PortletManifest, "overrides": len(overrides)})

	// Step 4: Dependency injection container
	phaseStart = time.Now()
	appContainer, err := container.NewContainer(logger, container.OptionsFromConfig(db, overrides))
	if err != nil {
		return fmt.Errorf("failed to create container: %w", err)
	}
	logger.LogStartupPhase("container", time.Since(phaseStart), true, nil)

	// Step 5: Background cleanup worker
	cleanupWorker := cleanup.NewWorker(appContainer.FragmentCache, cleanup.NewConfig(), logger)
	go cleanupWorker.Start(ctx)

	// Step 6: HTTP server
	httpServer := server.New(config.Port, appContainer)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- httpServer.Start()
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"port", config.Port)

	select {
	case <-gracefulShutdown:
		logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")
	case err := <-serverErr:
		if err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
			return err
		}
	}

	shutdownStart := time.Now()
	cancelBackgroundTasks()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

func loggerConfig() *logging.LoggerConfig {
	cfg := logging.DefaultLoggerConfig()
	cfg.JSONFormat = config.LogJSON
	cfg.OutputToFile = config.LogToFile
	cfg.LogDirectory = config.LogDirectory
	cfg.DefaultLevel = logging.ParseLevel(config.LogLevel)
	return cfg
}

// setupLogging configures application logging
func setupLogging() {
	switch config.GinMode {
	case gin.DebugMode, gin.TestMode, gin.ReleaseMode:
		gin.SetMode(config.GinMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
