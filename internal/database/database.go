package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hugh/lawconnect/internal/database/models"
	"github.com/hugh/lawconnect/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the shared pool. The returned *gorm.DB is safe for concurrent
// use and is injected into every service.
func Connect(cfg *config.DatabaseConfig, env string, log *slog.Logger) (*gorm.DB, error) {
	gormLogger := logger.Default.LogMode(logger.Warn)
	if env == "development" {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying db: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 5
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxOpen)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime())

	log.Info("connected to database",
		"host", cfg.Host,
		"database", cfg.Name,
		"max_open_conns", maxOpen,
	)

	return db, nil
}

// Ping checks the pool can reach the server.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Case{},
		&models.PasswordReset{},
		&models.AILog{},
	)
}
