// Package database opens the gorm connection used by the product repository.
//
// Connect authenticates against the server and syncs the schema. When the
// database is unreachable the failure is logged and the handle is returned
// anyway: the service keeps serving and individual requests fail until the
// driver manages to reconnect.
package database

import (
	"context"
	"fmt"
	"time"

	"catalogo/internal/config"
	"catalogo/internal/models"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const pingTimeout = 5 * time.Second

// Connect opens the pool for cfg.Driver. It returns an error only when the
// dialector itself cannot be built (unknown driver, unusable DSN).
func Connect(cfg config.DatabaseConfig, logger zerolog.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		DisableAutomaticPing: true,
		Logger: gormlogger.New(gormWriter{logger: logger}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	if cfg.Driver == "sqlite" {
		// Every connection to ":memory:" is a separate database.
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}

	if err := authenticate(db); err != nil {
		logger.Error().Err(err).Str("driver", cfg.Driver).Msg("Unable to connect to the database")
		return db, nil
	}

	if err := db.AutoMigrate(&models.Product{}); err != nil {
		logger.Error().Err(err).Msg("Unable to sync the database schema")
		return db, nil
	}

	logger.Info().Str("driver", cfg.Driver).Msg("Connection has been established successfully")
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database pool: %w", err)
	}
	return sqlDB.Close()
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "postgres":
		return postgres.Open(cfg.URL), nil
	case "sqlite":
		return sqlite.Open(cfg.URL), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func authenticate(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// gormWriter routes gorm's log lines into zerolog at warn level; gorm only
// emits warnings and errors with the configured LogLevel.
type gormWriter struct {
	logger zerolog.Logger
}

func (w gormWriter) Printf(format string, args ...any) {
	w.logger.Warn().Str("component", "gorm").Msgf(format, args...)
}
