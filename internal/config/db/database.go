package db

import (
	"fmt"
	"log/slog"

	"github.com/linskybing/rfp-portal/internal/config"
	"github.com/linskybing/rfp-portal/internal/recordstore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to Postgres and migrates the records table.
func Open(cfg config.PostgresConfig) (*gorm.DB, error) {
	gormDB, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to db: %w", err)
	}

	if err := recordstore.NewGormStore(gormDB).Migrate(); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	slog.Info("database connected and migrated", "host", cfg.Host, "name", cfg.Name)
	return gormDB, nil
}
