package sqlite

import (
	"context"
	"errors"
	"fmt"

	"stationery-catalog/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type productRepository struct {
	db *gorm.DB
}

// Create saves a new product after checking its category inside the same transaction
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		category, err := findCategory(tx, "id = ?", product.CategoryID.String())
		if err != nil {
			if errors.Is(err, domain.ErrCategoryNotFound) {
				return domain.ErrUnknownCategory
			}
			return err
		}

		if err := tx.Omit(clause.Associations).Create(fromProduct(product)).Error; err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrUnknownCategory
			}
			return fmt.Errorf("failed to create product: %w", err)
		}

		product.CategoryName = category.Name
		return nil
	})
}

// List retrieves products in creation order, optionally restricted to one category
func (r *productRepository) List(ctx context.Context, categoryID *uuid.UUID) ([]*domain.Product, error) {
	query := r.db.WithContext(ctx).Joins("Category")
	if categoryID != nil {
		query = query.Where("products.category_id = ?", categoryID.String())
	}

	var models []*productModel
	if err := query.Order("products.created_at ASC, products.id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}

	products := make([]*domain.Product, 0, len(models))
	for _, m := range models {
		products = append(products, toProduct(m))
	}
	return products, nil
}

// FindByID retrieves a product by its ID
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return findProduct(r.db.WithContext(ctx), id)
}

// Update applies mutate inside a transaction
func (r *productRepository) Update(ctx context.Context, id uuid.UUID, mutate func(*domain.Product) error) (*domain.Product, error) {
	var product *domain.Product

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		product, err = findProduct(tx, id)
		if err != nil {
			return err
		}

		if err := mutate(product); err != nil {
			return err
		}

		category, err := findCategory(tx, "id = ?", product.CategoryID.String())
		if err != nil {
			if errors.Is(err, domain.ErrCategoryNotFound) {
				return domain.ErrUnknownCategory
			}
			return err
		}
		product.CategoryName = category.Name

		m := fromProduct(product)
		err = tx.Model(&productModel{}).Where("id = ?", m.ID).Updates(map[string]interface{}{
			"name":        m.Name,
			"price":       m.Price,
			"category_id": m.CategoryID,
			"image":       m.Image,
			"rating":      m.Rating,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product by ID
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&productModel{}, "id = ?", id.String())
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func findProduct(db *gorm.DB, id uuid.UUID) (*domain.Product, error) {
	var m productModel
	if err := db.Joins("Category").Where("products.id = ?", id.String()).Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return toProduct(&m), nil
}
