package service

import (
	"context"
	"fmt"
	"time"

	"stationery-catalog/internal/domain"
	"stationery-catalog/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService records completed sales. Orders are append-only.
type OrderService interface {
	Record(ctx context.Context, input domain.CreateOrderInput) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	logger    *zap.Logger
	now       func() time.Time
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(orderRepo repository.OrderRepository, logger *zap.Logger) OrderService {
	return &orderService{orderRepo: orderRepo, logger: logger, now: time.Now}
}

// Record appends an order stamped with the current time
func (s *orderService) Record(ctx context.Context, input domain.CreateOrderInput) (*domain.Order, error) {
	if err := domain.Validate(input); err != nil {
		return nil, err
	}

	order := &domain.Order{
		ID:          uuid.New(),
		TotalAmount: *input.TotalAmount,
		ItemsCount:  *input.ItemsCount,
		CreatedAt:   s.now(),
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to record order: %w", err)
	}

	s.logger.Info("order recorded",
		zap.String("order_id", order.ID.String()),
		zap.Float64("total_amount", order.TotalAmount),
		zap.Int("items_count", order.ItemsCount),
	)
	return order, nil
}

// List retrieves all orders, newest first
func (s *orderService) List(ctx context.Context) ([]*domain.Order, error) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}
