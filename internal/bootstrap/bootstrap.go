// Package bootstrap wires configuration into services for both binaries.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/linskybing/rfp-portal/internal/api/middleware"
	"github.com/linskybing/rfp-portal/internal/application"
	"github.com/linskybing/rfp-portal/internal/config"
	"github.com/linskybing/rfp-portal/internal/config/db"
	"github.com/linskybing/rfp-portal/internal/notify"
	"github.com/linskybing/rfp-portal/internal/recordstore"
	"github.com/linskybing/rfp-portal/internal/repository"
	"github.com/linskybing/rfp-portal/internal/session"
	"github.com/linskybing/rfp-portal/internal/storage"
)

// App is the assembled service graph plus the resources it must release.
type App struct {
	Config     *config.Config
	Logger     *slog.Logger
	Store      recordstore.Store
	Sessions   session.Store
	Dispatcher *notify.Dispatcher
	Services   *application.Services

	closers []func() error
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = cfg.NewLogger()
	}
	middleware.Init(cfg.JwtSecret, cfg.Issuer)

	app := &App{Config: cfg, Logger: logger}

	store, err := app.openStore(cfg)
	if err != nil {
		return nil, err
	}
	app.Store = store

	docs, err := openDocuments(ctx, cfg, logger)
	if err != nil {
		app.Close()
		return nil, err
	}

	sessions, err := app.openSessions(cfg, logger)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Sessions = sessions

	var notifier notify.Notifier = notify.Nop{}
	if cfg.WebhookURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.WebhookURL, &http.Client{Timeout: cfg.WebhookTimeout})
	}
	app.Dispatcher = notify.NewDispatcher(notifier, cfg.WebhookTimeout, logger)

	app.Services = application.New(application.Deps{
		Repos:     repository.NewRepositories(store, cfg.RecordScanLimit),
		Documents: docs,
		Events:    app.Dispatcher,
		Sessions:  sessions,
		Admin: application.AdminCredentials{
			Email:        cfg.AdminEmail,
			PasswordHash: cfg.AdminPasswordHash,
		},
		TokenTTL:       cfg.TokenTTL,
		DraftRetention: cfg.DraftRetention,
		Logger:         logger,
	})
	return app, nil
}

func (a *App) openStore(cfg *config.Config) (recordstore.Store, error) {
	if cfg.StoreDriver == "memory" {
		a.Logger.Warn("using in-memory record store, data will not survive a restart")
		return recordstore.NewMemoryStore(), nil
	}
	gormDB, err := db.Open(cfg.PostgresConfig)
	if err != nil {
		return nil, fmt.Errorf("open record store: %w", err)
	}
	sqlDB, err := gormDB.DB()
	if err == nil {
		a.closers = append(a.closers, sqlDB.Close)
	}
	return recordstore.NewGormStore(gormDB), nil
}

func openDocuments(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.DocumentStore, error) {
	if cfg.Endpoint == "" {
		logger.Warn("MINIO_ENDPOINT not set, documents are kept in memory")
		return storage.NewMemoryStore(), nil
	}
	docs, err := storage.NewMinioStore(ctx, storage.MinioConfig{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		UseSSL:    cfg.UseSSL,
		Bucket:    cfg.Bucket,
		PublicURL: cfg.PublicURL,
	})
	if err != nil {
		return nil, fmt.Errorf("open document storage: %w", err)
	}
	return docs, nil
}

func (a *App) openSessions(cfg *config.Config, logger *slog.Logger) (session.Store, error) {
	if cfg.RedisURL == "" {
		logger.Warn("REDIS_URL not set, token revocations are kept in memory")
		return session.NewMemoryStore(), nil
	}
	rs, err := session.NewRedisStore(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	a.closers = append(a.closers, rs.Close)
	return rs, nil
}

// Close waits for in-flight notifications and releases connections.
func (a *App) Close() {
	if a.Dispatcher != nil {
		a.Dispatcher.Wait()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Logger.Warn("failed to close resource", "error", err)
		}
	}
	a.closers = nil
}
