package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/school-directory/internal/config"
	"github.com/SAP-F-2025/school-directory/internal/events"
	"github.com/SAP-F-2025/school-directory/internal/handlers"
	"github.com/SAP-F-2025/school-directory/internal/imagestore"
	"github.com/SAP-F-2025/school-directory/internal/repositories/sqlstore"
	"github.com/SAP-F-2025/school-directory/internal/services"
	"github.com/SAP-F-2025/school-directory/internal/utils"
	"github.com/SAP-F-2025/school-directory/internal/validator"
	"github.com/SAP-F-2025/school-directory/pkg"
)

const shutdownTimeout = 30 * time.Second

var (
	autoMigrate    bool
	createDatabase bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the schools table",
	RunE:  runMigrate,
}

func newLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	slogLogger := newLogger(cfg)
	logger := utils.NewSlogLogger(slogLogger)

	// Initialize database
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return err
	}

	// Closed here until the service manager owns them
	res := &serveResources{db: db}
	defer func() {
		if !res.handedOff {
			res.close(logger)
		}
	}()

	if autoMigrate {
		if err := sqlstore.AutoMigrate(db); err != nil {
			return err
		}
	}

	// Initialize Redis (if configured)
	if cfg.RedisURL != "" {
		redisClient, err := pkg.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("Redis disabled", "error", err)
		} else {
			res.redis = redisClient
		}
	}

	// Initialize repositories
	repoManager := sqlstore.NewRepositoryManager(sqlstore.RepositoryConfig{
		DB:          db,
		RedisClient: res.redis,
	})
	if err := repoManager.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	images, err := imagestore.New(cfg.ImageStore)
	if err != nil {
		return fmt.Errorf("failed to initialize image store: %w", err)
	}

	publisher, err := events.NewPublisher(cfg.Events, slogLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize event publisher: %w", err)
	}
	res.publisher = publisher

	// Initialize services
	serviceManager := services.NewServiceManager(repoManager.GetRepository(), images, publisher, slogLogger, validator.New(), services.ServiceManagerConfig{
		School: services.ServiceConfig{
			CleanupImageOnFailure: cfg.ImageStore.CleanupOnFailure,
		},
		DefaultTimeout: 5 * time.Second,
	})
	if err := serviceManager.Initialize(cmd.Context()); err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	// Shutdown closes the publisher, the database and redis from here on
	res.handedOff = true

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.MaxMultipartMemory = cfg.ImageStore.MaxUploadBytes()
	handlers.SetupMiddleware(router, logger, cfg.CORSAllowedOrigins)

	routerConfig := handlers.RouterConfig{MaxUploadBytes: cfg.ImageStore.MaxUploadBytes()}
	if local, ok := images.(*imagestore.LocalStore); ok {
		routerConfig.ImageDir = local.Dir()
	}
	handlers.NewHandlerManager(serviceManager, logger, routerConfig).SetupRoutes(router)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment, "image_store", cfg.ImageStore.Backend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server failed", "error", err)
		}
	}

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	if err := serviceManager.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown services", "error", err)
	}

	logger.Info("Server exited")
	return nil
}

// serveResources are the connections serve opens before the service manager
// takes ownership of them
type serveResources struct {
	db        *gorm.DB
	redis     *redis.Client
	publisher events.EventPublisher
	handedOff bool
}

func (r *serveResources) close(logger utils.Logger) {
	if r.publisher != nil {
		if err := r.publisher.Close(); err != nil {
			logger.Error("Failed to close event publisher", "error", err)
		}
	}
	if r.redis != nil {
		if err := r.redis.Close(); err != nil {
			logger.Error("Failed to close Redis", "error", err)
		}
	}
	if r.db != nil {
		if sqlDB, err := r.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.Error("Failed to close database", "error", err)
			}
		}
	}
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := newLogger(cfg)

	if createDatabase {
		server, err := pkg.OpenServer(cfg)
		if err != nil {
			return err
		}
		err = sqlstore.CreateDatabase(cmd.Context(), server, cfg.Database.Name)
		if sqlDB, dbErr := server.DB(); dbErr == nil {
			sqlDB.Close()
		}
		if err != nil {
			return fmt.Errorf("failed to create database %s: %w", cfg.Database.Name, err)
		}
		logger.Info("Database ready", "database", cfg.Database.Name)
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	if err := sqlstore.AutoMigrate(db); err != nil {
		return err
	}

	logger.Info("Migration completed", "driver", cfg.Database.Driver, "database", cfg.Database.Name)
	return nil
}
