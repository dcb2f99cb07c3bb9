package service

import (
	"context"
	"fmt"

	"stationery-catalog/internal/domain"
	"stationery-catalog/internal/repository"
)

// StatsService computes the dashboard aggregates
type StatsService interface {
	Compute(ctx context.Context) (*domain.StatsSnapshot, error)
}

type statsService struct {
	statsRepo repository.StatsRepository
}

// NewStatsService creates a new instance of StatsService
func NewStatsService(statsRepo repository.StatsRepository) StatsService {
	return &statsService{statsRepo: statsRepo}
}

// Compute returns entity counts and the per-category product distribution,
// all read from the same snapshot so ProductsCount equals the distribution sum.
func (s *statsService) Compute(ctx context.Context) (*domain.StatsSnapshot, error) {
	snapshot, err := s.statsRepo.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	if snapshot.ProductsPerCategory == nil {
		snapshot.ProductsPerCategory = []domain.CategoryProductCount{}
	}
	return snapshot, nil
}
