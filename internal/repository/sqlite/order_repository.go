package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stationery-catalog/internal/domain"

	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

// Create appends an order whose timestamp is strictly later than the latest stored one
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last orderModel
		err := tx.Order("created_at DESC").Take(&last).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to read latest order: %w", err)
		}

		ts := order.CreatedAt.UTC().Truncate(time.Microsecond)
		if !ts.After(last.CreatedAt) {
			ts = last.CreatedAt.UTC().Add(time.Microsecond)
		}
		order.CreatedAt = ts

		m := &orderModel{
			ID:          order.ID.String(),
			TotalAmount: order.TotalAmount,
			ItemsCount:  order.ItemsCount,
			CreatedAt:   order.CreatedAt,
		}
		if err := tx.Create(m).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return nil
	})
}

// List retrieves all orders, newest first
func (r *orderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	var models []*orderModel
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find orders: %w", err)
	}

	orders := make([]*domain.Order, 0, len(models))
	for _, m := range models {
		orders = append(orders, toOrder(m))
	}
	return orders, nil
}
