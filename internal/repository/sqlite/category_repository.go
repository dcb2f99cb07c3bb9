package sqlite

import (
	"context"
	"errors"
	"fmt"

	"stationery-catalog/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type categoryRepository struct {
	db *gorm.DB
}

// Create saves a new category; the unique index guards the name
func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if err := r.db.WithContext(ctx).Create(fromCategory(category)).Error; err != nil {
		if isDuplicateKey(err) {
			return domain.ErrCategoryAlreadyExists
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// List retrieves all categories in creation order
func (r *categoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	var models []*categoryModel
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find categories: %w", err)
	}

	categories := make([]*domain.Category, 0, len(models))
	for _, m := range models {
		categories = append(categories, toCategory(m))
	}
	return categories, nil
}

// FindByID retrieves a category by its ID
func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	return findCategory(r.db.WithContext(ctx), "id = ?", id.String())
}

// FindByName retrieves a category by its unique name
func (r *categoryRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	return findCategory(r.db.WithContext(ctx), "name = ?", name)
}

// Update applies mutate inside a transaction. The single connection serializes
// concurrent read-modify-write cycles.
func (r *categoryRepository) Update(ctx context.Context, id uuid.UUID, mutate func(*domain.Category) error) (*domain.Category, error) {
	var category *domain.Category

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		category, err = findCategory(tx, "id = ?", id.String())
		if err != nil {
			return err
		}

		if err := mutate(category); err != nil {
			return err
		}

		m := fromCategory(category)
		err = tx.Model(&categoryModel{}).Where("id = ?", m.ID).
			Updates(map[string]interface{}{"name": m.Name, "icon": m.Icon}).Error
		if err != nil {
			if isDuplicateKey(err) {
				return domain.ErrCategoryAlreadyExists
			}
			return fmt.Errorf("failed to update category: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category that no product references
func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findCategory(tx, "id = ?", id.String()); err != nil {
			return err
		}

		var products int64
		if err := tx.Model(&productModel{}).Where("category_id = ?", id.String()).Count(&products).Error; err != nil {
			return fmt.Errorf("failed to check category products: %w", err)
		}
		if products > 0 {
			return domain.ErrCategoryInUse
		}

		if err := tx.Delete(&categoryModel{}, "id = ?", id.String()).Error; err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrCategoryInUse
			}
			return fmt.Errorf("failed to delete category: %w", err)
		}
		return nil
	})
}

func findCategory(db *gorm.DB, query string, arg interface{}) (*domain.Category, error) {
	var m categoryModel
	if err := db.Where(query, arg).Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return toCategory(&m), nil
}
