package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TheFahmi/Laundry-Systems-sub005/config"
	"github.com/TheFahmi/Laundry-Systems-sub005/middleware"
	"github.com/TheFahmi/Laundry-Systems-sub005/migrations"
	"github.com/TheFahmi/Laundry-Systems-sub005/services"
	"github.com/TheFahmi/Laundry-Systems-sub005/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	config.SetConfig(cfg)

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck
	config.SetLogger(logger)

	logger.Info("Starting Laundry API server", zap.String("env", cfg.GoEnv), zap.String("env_file", cfg.EnvFile))

	if err := config.ConnectDatabase(cfg); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), time.Minute)
	version, err := migrations.Up(migrateCtx, config.GetDB(), logger)
	cancelMigrate()
	if err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}
	logger.Info("Database schema is up to date", zap.Int64("version", version))

	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.InitS3Service(context.Background(), cfg)
		if err != nil {
			logger.Fatal("Failed to initialize S3", zap.Error(err))
		}
		services.InitImageService(s3Service)
	} else {
		logger.Warn("AWS_S3_BUCKET not set, step photos are disabled")
	}

	if err := utils.RegisterBindingValidators(); err != nil {
		logger.Fatal("Failed to register validators", zap.Error(err))
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	auth, err := middleware.EnsureValidToken(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to set up JWT validation", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           setupRouter(cfg, logger, auth),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server is listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
}
