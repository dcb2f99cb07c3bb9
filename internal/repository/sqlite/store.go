// Package sqlite implements the Store Adapter as an embedded single-file SQLite
// database through GORM. It backs the mobile client's offline mirror.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"stationery-catalog/internal/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

var _ repository.Store = (*Store)(nil)

// Store is the offline mirror store
type Store struct {
	db         *gorm.DB
	categories *categoryRepository
	products   *productRepository
	ads        *adRepository
	offers     *offerRepository
	orders     *orderRepository
	admins     *adminRepository
	stats      *statsRepository
}

// Open opens (creating if needed) the mirror database at path and migrates its schema
func Open(path string, logLevel logger.LogLevel) (*Store, error) {
	dsn := path + "?_foreign_keys=on&_busy_timeout=5000"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open mirror database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access mirror connection: %w", err)
	}
	// One connection: writers are serialized and an in-memory database stays a single database.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(allModels()...); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate mirror database: %w", err)
	}

	return New(db), nil
}

// New wraps an already migrated GORM handle
func New(db *gorm.DB) *Store {
	return &Store{
		db:         db,
		categories: &categoryRepository{db: db},
		products:   &productRepository{db: db},
		ads:        &adRepository{db: db},
		offers:     &offerRepository{db: db},
		orders:     &orderRepository{db: db},
		admins:     &adminRepository{db: db},
		stats:      &statsRepository{db: db},
	}
}

func (s *Store) Categories() repository.CategoryRepository { return s.categories }
func (s *Store) Products() repository.ProductRepository   { return s.products }
func (s *Store) Ads() repository.AdRepository             { return s.ads }
func (s *Store) Offers() repository.OfferRepository       { return s.offers }
func (s *Store) Orders() repository.OrderRepository       { return s.orders }
func (s *Store) Admins() repository.AdminRepository       { return s.admins }
func (s *Store) Stats() repository.StatsRepository        { return s.stats }

// Ping verifies the database connection
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying connection
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated) ||
		strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
