// @title RFP Portal API
// @version 1.0
// @description Vendor registration, proposal submission and Q&A for RFP rounds.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/rfp-portal/internal/api/handlers"
	"github.com/linskybing/rfp-portal/internal/api/middleware"
	"github.com/linskybing/rfp-portal/internal/api/routes"
	"github.com/linskybing/rfp-portal/internal/bootstrap"
	"github.com/linskybing/rfp-portal/internal/config"
	"github.com/linskybing/rfp-portal/internal/cron"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialise services", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	cron.StartDraftSweepTask(ctx, app.Services.Draft, cfg.DraftSweepInterval, cfg.DraftRetention, logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	router.Use(middleware.LoggingMiddleware(logger))

	h := handlers.New(app.Services, handlers.Options{
		Production: cfg.IsProduction(),
		TokenTTL:   cfg.TokenTTL,
		Logger:     logger,
	})
	routes.RegisterRoutes(router, h, routes.Options{
		Sessions:         app.Sessions,
		MaintenanceToken: cfg.MaintenanceToken,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting API server", "addr", srv.Addr, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
