package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"merlin/internal/config"
	"merlin/internal/database"
	"merlin/internal/logger"
	"merlin/internal/scheduler"
	"merlin/internal/server"
	"merlin/internal/services"
	"merlin/internal/upstream"
	"merlin/internal/validator"
)

// @title           Merlin API
// @version         1.0
// @description     Merlin is the mobile gateway in front of the finance backend: sessions, assessments, entries and advice.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if appConfig.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.Register()

	// Session store
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Finance backend
	client := upstream.NewClient(appConfig.UpstreamAPIURL, &http.Client{Timeout: appConfig.UpstreamTimeout})
	vault, err := services.NewTokenVault(appConfig.TokenEncryptionKey)
	if err != nil {
		return fmt.Errorf("failed to create token vault: %w", err)
	}

	svc := server.NewServices(dbManager.DB(), client, vault)

	// Background session refresh
	refreshTimeout := 5 * appConfig.UpstreamTimeout
	sched, err := scheduler.New(appConfig.SessionRefreshSchedule, svc.Sessions, refreshTimeout, logger.Named("scheduler"))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	sched.Start()

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           server.NewRouter(appConfig, svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting Merlin gateway on port %s", appConfig.Port)
		if !appConfig.IsProduction() {
			log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		}
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sched.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return dbManager.Close()
}
