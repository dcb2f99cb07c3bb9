package sqlite

import (
	"context"
	"fmt"

	"stationery-catalog/internal/domain"

	"gorm.io/gorm"
)

type statsRepository struct {
	db *gorm.DB
}

type categoryCountRow struct {
	CategoryID string
	Name       string
	Count      int
}

// Snapshot reads every count inside one transaction
func (r *statsRepository) Snapshot(ctx context.Context) (*domain.StatsSnapshot, error) {
	stats := &domain.StatsSnapshot{ProductsPerCategory: []domain.CategoryProductCount{}}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		counts := []struct {
			model interface{}
			dest  *int
		}{
			{&categoryModel{}, &stats.CategoriesCount},
			{&productModel{}, &stats.ProductsCount},
			{&orderModel{}, &stats.OrdersCount},
			{&adModel{}, &stats.AdsCount},
			{&offerModel{}, &stats.OffersCount},
		}
		for _, c := range counts {
			var n int64
			if err := tx.Model(c.model).Count(&n).Error; err != nil {
				return fmt.Errorf("failed to count entities: %w", err)
			}
			*c.dest = int(n)
		}

		var rows []categoryCountRow
		err := tx.Table("categories").
			Select("categories.id AS category_id, categories.name AS name, COUNT(products.id) AS count").
			Joins("LEFT JOIN products ON products.category_id = categories.id").
			Group("categories.id, categories.name, categories.created_at").
			Order("categories.created_at ASC, categories.id ASC").
			Scan(&rows).Error
		if err != nil {
			return fmt.Errorf("failed to count products per category: %w", err)
		}

		for _, row := range rows {
			stats.ProductsPerCategory = append(stats.ProductsPerCategory, domain.CategoryProductCount{
				CategoryID: parseID(row.CategoryID),
				Name:       row.Name,
				Count:      row.Count,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return stats, nil
}
