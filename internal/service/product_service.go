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

// ProductService defines the interface for product business logic
type ProductService interface {
	// List returns products, restricted to the named category unless category is
	// empty or domain.AllCategories. An unknown category yields an empty list.
	List(ctx context.Context, category string) ([]*domain.Product, error)
	Create(ctx context.Context, input domain.CreateProductInput) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, input domain.UpdateProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	logger       *zap.Logger
	now          func() time.Time
}

// NewProductService creates a new instance of ProductService
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	logger *zap.Logger,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// List retrieves products, optionally filtered by category name
func (s *productService) List(ctx context.Context, category string) ([]*domain.Product, error) {
	var categoryID *uuid.UUID

	if category != "" && category != domain.AllCategories {
		c, err := s.categoryRepo.FindByName(ctx, category)
		if err != nil {
			if errors.Is(err, domain.ErrCategoryNotFound) {
				return []*domain.Product{}, nil
			}
			return nil, fmt.Errorf("failed to resolve category: %w", err)
		}
		categoryID = &c.ID
	}

	products, err := s.productRepo.List(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Create resolves the category name and saves the product. An unknown category
// fails with ErrUnknownCategory and writes nothing.
func (s *productService) Create(ctx context.Context, input domain.CreateProductInput) (*domain.Product, error) {
	if err := domain.Validate(input); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.FindByName(ctx, input.Category)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			s.logger.Debug("product rejected: unknown category", zap.String("category", input.Category))
			return nil, domain.ErrUnknownCategory
		}
		return nil, fmt.Errorf("failed to resolve category: %w", err)
	}

	product := &domain.Product{
		ID:         uuid.New(),
		Name:       input.Name,
		Price:      *input.Price,
		CategoryID: category.ID,
		Image:      input.Image,
		CreatedAt:  s.now().UTC().Truncate(time.Microsecond),
	}
	if input.Rating != nil {
		product.Rating = *input.Rating
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		if errors.Is(err, domain.ErrUnknownCategory) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("category", product.CategoryName),
	)
	return product, nil
}

// Update applies the present fields of input. A category name that does not
// resolve leaves the product's category unchanged.
func (s *productService) Update(ctx context.Context, id uuid.UUID, input domain.UpdateProductInput) (*domain.Product, error) {
	if err := domain.Validate(input); err != nil {
		return nil, err
	}

	var categoryID *uuid.UUID
	if input.Category != nil {
		category, err := s.categoryRepo.FindByName(ctx, *input.Category)
		switch {
		case err == nil:
			categoryID = &category.ID
		case errors.Is(err, domain.ErrCategoryNotFound):
			s.logger.Debug("product update: category ignored", zap.String("category", *input.Category))
		default:
			return nil, fmt.Errorf("failed to resolve category: %w", err)
		}
	}

	product, err := s.productRepo.Update(ctx, id, func(p *domain.Product) error {
		if input.Name != nil {
			p.Name = *input.Name
		}
		if input.Price != nil {
			p.Price = *input.Price
		}
		input.Image.Apply(&p.Image)
		if input.Rating != nil {
			p.Rating = *input.Rating
		}
		if categoryID != nil {
			p.CategoryID = *categoryID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("product updated", zap.String("product_id", id.String()))
	return product, nil
}

// Delete removes a product by ID
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("product deleted", zap.String("product_id", id.String()))
	return nil
}
