package database

import (
	"context"
	"database/sql"
	"fmt"

	"stationery-catalog/internal/config"
	"stationery-catalog/internal/repository"
	"stationery-catalog/internal/repository/postgres"
	"stationery-catalog/internal/repository/sqlite"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// StoreHandle is an open store together with the driver specific maintenance hooks
type StoreHandle struct {
	Store  repository.Store
	Driver string
	db     *sql.DB // set for the postgres driver only
}

// OpenStore opens the store selected by cfg.Store.Driver
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*StoreHandle, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		db, err := Open(ctx, DSN(cfg.Database))
		if err != nil {
			return nil, err
		}
		logger.Info("Connected to PostgreSQL",
			zap.String("host", cfg.Database.Host),
			zap.String("database", cfg.Database.Database),
		)
		return &StoreHandle{Store: postgres.New(db), Driver: cfg.Store.Driver, db: db}, nil

	case config.StoreDriverSQLite:
		level := gormlogger.Warn
		if !cfg.IsDevelopment() {
			level = gormlogger.Error
		}
		store, err := sqlite.Open(cfg.SQLite.Path, level)
		if err != nil {
			return nil, err
		}
		logger.Info("Opened SQLite mirror", zap.String("path", cfg.SQLite.Path))
		return &StoreHandle{Store: store, Driver: cfg.Store.Driver}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// Migrate brings the schema up to date. The SQLite mirror migrates itself on open.
func (h *StoreHandle) Migrate(logger *zap.Logger) error {
	if h.db == nil {
		logger.Debug("Schema managed by the store", zap.String("driver", h.Driver))
		return nil
	}
	return RunMigrations(h.db, logger)
}

// MigrationStatus prints the applied migrations
func (h *StoreHandle) MigrationStatus() error {
	if h.db == nil {
		return fmt.Errorf("migration status is only available for the %s driver", config.StoreDriverPostgres)
	}
	return GetMigrationStatus(h.db)
}

// Health reports store reachability
func (h *StoreHandle) Health(ctx context.Context) map[string]string {
	if h.db != nil {
		return Health(ctx, h.db)
	}

	stats := map[string]string{"status": "up"}
	if err := h.Store.Ping(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = err.Error()
	}
	return stats
}

// Close releases the store
func (h *StoreHandle) Close() error {
	return h.Store.Close()
}
