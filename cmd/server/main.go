package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hcp-visit-tracker/internal/config"
	"hcp-visit-tracker/internal/database"
	"hcp-visit-tracker/internal/handler"
	"hcp-visit-tracker/internal/logging"
	"hcp-visit-tracker/internal/models"
	"hcp-visit-tracker/internal/repository"
	"hcp-visit-tracker/internal/service"
	"hcp-visit-tracker/pkg/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	// 1. Load configuration
	cfg := config.LoadConfig()
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)
	logger.Info().Msg("Configuration loaded successfully")

	// 2. Token issuer for access and refresh tokens
	tokens := utils.NewTokenIssuer(
		cfg.JWT.AccessSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	// 3. Initialize database connection
	db, err := database.Connect(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	// 4. Initialize repositories
	userRepo := repository.NewUserRepo(db)
	auditRepo := repository.NewAuditRepo(db)
	visitRepo := repository.NewVisitRepo(db)
	hcpRepo := repository.NewHcpRepo(db)
	lookupRepo := repository.NewLookupRepo(db)

	// 5. Initialize services
	authService := service.NewAuthService(userRepo, auditRepo, tokens)
	visitService := service.NewVisitService(visitRepo)
	hcpService := service.NewHcpService(hcpRepo, auditRepo)
	lookupService := service.NewLookupService(lookupRepo)
	cleanupWorker := service.NewTokenCleanupWorker(userRepo, cfg.Cleanup.TokenInterval, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Ensure the configured admin account exists
	if cfg.Seed.AdminEmail != "" && cfg.Seed.AdminPassword != "" {
		_, created, err := authService.EnsureUser(ctx, cfg.Seed.AdminName, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword, models.RoleAdmin)
		switch {
		case err != nil:
			logger.Warn().Err(err).Msg("Failed to seed admin user")
		case created:
			logger.Info().Str("email", cfg.Seed.AdminEmail).Msg("Admin user created")
		}
	}

	// 6. Start background worker in goroutine
	go cleanupWorker.Start(ctx)

	// 7. Setup Gin mode and router
	gin.SetMode(cfg.Server.GinMode)
	router := handler.NewRouter(cfg, logger, tokens, handler.Handlers{
		Auth:   handler.NewAuthHandler(authService, tokens, cfg.Server.GinMode == gin.ReleaseMode, logger),
		Visit:  handler.NewVisitHandler(visitService, logger),
		Hcp:    handler.NewHcpHandler(hcpService, logger),
		Lookup: handler.NewLookupHandler(lookupService, logger),
		Health: handler.NewHealthHandler(db),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 8. Setup graceful shutdown
	go func() {
		logger.Info().Str("port", cfg.Server.Port).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("Shutting down server...")

	// Cancel background worker context
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info().Msg("Server exited")
}
