package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"stationery-catalog/internal/domain"
)

type orderRepository struct {
	db *sql.DB
}

// Create appends an order. The table lock serializes concurrent inserts so each
// order's timestamp is strictly later than the previous one.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	return withTx(ctx, r.db, nil, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `LOCK TABLE orders IN SHARE ROW EXCLUSIVE MODE`); err != nil {
			return fmt.Errorf("failed to lock orders: %w", err)
		}

		var last time.Time
		err := tx.QueryRowContext(ctx, `SELECT created_at FROM orders ORDER BY created_at DESC LIMIT 1`).Scan(&last)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to read latest order: %w", err)
		}
		order.CreatedAt = nextOrderTimestamp(order.CreatedAt, last)

		query := `
			INSERT INTO orders (id, total_amount, items_count, created_at)
			VALUES ($1, $2, $3, $4)
		`
		if _, err := tx.ExecContext(ctx, query, order.ID, order.TotalAmount, order.ItemsCount, order.CreatedAt); err != nil {
			if vErr := columnOverflow(err); vErr != nil {
				return vErr
			}
			return fmt.Errorf("failed to create order: %w", err)
		}
		return nil
	})
}

// List retrieves all orders, newest first
func (r *orderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, total_amount, items_count, created_at FROM orders ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		order := &domain.Order{}
		if err := rows.Scan(&order.ID, &order.TotalAmount, &order.ItemsCount, &order.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}
	return orders, nil
}

// nextOrderTimestamp returns requested at PostgreSQL precision, bumped past last when needed
func nextOrderTimestamp(requested, last time.Time) time.Time {
	ts := requested.UTC().Truncate(time.Microsecond)
	if !ts.After(last) {
		ts = last.UTC().Add(time.Microsecond)
	}
	return ts
}
