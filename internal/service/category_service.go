package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stationery-catalog/internal/domain"
	"stationery-catalog/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CategoryService defines the interface for category business logic
type CategoryService interface {
	List(ctx context.Context) ([]*domain.Category, error)
	Create(ctx context.Context, input domain.CreateCategoryInput) (*domain.Category, error)
	Update(ctx context.Context, id uuid.UUID, input domain.UpdateCategoryInput) (*domain.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	logger       *zap.Logger
	now          func() time.Time
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(categoryRepo repository.CategoryRepository, logger *zap.Logger) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// List retrieves all categories in creation order
func (s *categoryService) List(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Create adds a category. A duplicate name fails with ErrCategoryAlreadyExists
// and writes nothing.
func (s *categoryService) Create(ctx context.Context, input domain.CreateCategoryInput) (*domain.Category, error) {
	if err := domain.Validate(input); err != nil {
		return nil, err
	}

	category := &domain.Category{
		ID:        uuid.New(),
		Name:      input.Name,
		Icon:      input.Icon,
		CreatedAt: s.now().UTC().Truncate(time.Microsecond),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, domain.ErrCategoryAlreadyExists) {
			s.logger.Debug("category rejected: duplicate name", zap.String("name", input.Name))
		}
		return nil, err
	}

	s.logger.Info("category created",
		zap.String("category_id", category.ID.String()),
		zap.String("name", category.Name),
	)
	return category, nil
}

// Update applies the present fields of input
func (s *categoryService) Update(ctx context.Context, id uuid.UUID, input domain.UpdateCategoryInput) (*domain.Category, error) {
	if err := domain.Validate(input); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.Update(ctx, id, func(c *domain.Category) error {
		if input.Name != nil {
			c.Name = *input.Name
		}
		input.Icon.Apply(&c.Icon)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("category updated", zap.String("category_id", id.String()))
	return category, nil
}

// Delete removes a category. Categories still referenced by products are
// rejected with ErrCategoryInUse.
func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("category deleted", zap.String("category_id", id.String()))
	return nil
}
