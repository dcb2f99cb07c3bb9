package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"stationery-catalog/internal/domain"
)

type statsRepository struct {
	db *sql.DB
}

// Snapshot reads every count from one repeatable-read snapshot
func (r *statsRepository) Snapshot(ctx context.Context) (*domain.StatsSnapshot, error) {
	stats := &domain.StatsSnapshot{ProductsPerCategory: []domain.CategoryProductCount{}}

	opts := &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	err := withTx(ctx, r.db, opts, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			SELECT
				(SELECT COUNT(*) FROM categories),
				(SELECT COUNT(*) FROM products),
				(SELECT COUNT(*) FROM orders),
				(SELECT COUNT(*) FROM ads),
				(SELECT COUNT(*) FROM offers)
		`).Scan(
			&stats.CategoriesCount,
			&stats.ProductsCount,
			&stats.OrdersCount,
			&stats.AdsCount,
			&stats.OffersCount,
		)
		if err != nil {
			return fmt.Errorf("failed to count entities: %w", err)
		}

		rows, err := tx.QueryContext(ctx, `
			SELECT c.id, c.name, COUNT(p.id)
			FROM categories c
			LEFT JOIN products p ON p.category_id = c.id
			GROUP BY c.id, c.name, c.created_at
			ORDER BY c.created_at ASC, c.id ASC
		`)
		if err != nil {
			return fmt.Errorf("failed to count products per category: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var entry domain.CategoryProductCount
			if err := rows.Scan(&entry.CategoryID, &entry.Name, &entry.Count); err != nil {
				return fmt.Errorf("failed to scan category count: %w", err)
			}
			stats.ProductsPerCategory = append(stats.ProductsPerCategory, entry)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return stats, nil
}
