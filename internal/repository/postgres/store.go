// Package postgres implements the Store Adapter on PostgreSQL through database/sql and pgx.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"stationery-catalog/internal/domain"
	"stationery-catalog/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes.
const (
	pgErrUniqueViolation     = "23505"
	pgErrForeignKeyViolation = "23503"
	pgErrStringTooLong       = "22001"
	pgErrNumericOutOfRange   = "22003"
)

var _ repository.Store = (*Store)(nil)

// Store is the server-side relational store
type Store struct {
	db         *sql.DB
	categories *categoryRepository
	products   *productRepository
	ads        *adRepository
	offers     *offerRepository
	orders     *orderRepository
	admins     *adminRepository
	stats      *statsRepository
}

// New creates a Store on an open connection pool. The schema is expected to be
// migrated already (see database.RunMigrations).
func New(db *sql.DB) *Store {
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
	return s.db.PingContext(ctx)
}

// Close closes the connection pool
func (s *Store) Close() error {
	return s.db.Close()
}

// withTx runs fn inside a transaction, rolling back on any error
func withTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// isUniqueViolation checks if err is a PostgreSQL unique violation on the named constraint
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgErrUniqueViolation && pgErr.ConstraintName == constraint
	}
	return false
}

// isForeignKeyViolation checks if err is a PostgreSQL foreign key violation
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgErrForeignKeyViolation
	}
	return false
}

// checkRowsAffected maps a zero-row write to notFound
func checkRowsAffected(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}

// columnOverflow reports a value that does not fit its column as a validation
// error, or returns nil for any other error.
func columnOverflow(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}
	if pgErr.Code != pgErrStringTooLong && pgErr.Code != pgErrNumericOutOfRange {
		return nil
	}

	field := pgErr.ColumnName
	if field == "" {
		field = "body"
	}
	return domain.NewValidationError(field, "Value does not fit the stored column")
}
