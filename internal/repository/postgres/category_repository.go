package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"stationery-catalog/internal/domain"

	"github.com/google/uuid"
)

const categoryNameConstraint = "categories_name_key"

type categoryRepository struct {
	db *sql.DB
}

// Create inserts a new category; the unique constraint guards the name
func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (id, name, icon, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query, category.ID, category.Name, category.Icon, category.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, categoryNameConstraint) {
			return domain.ErrCategoryAlreadyExists
		}
		if vErr := columnOverflow(err); vErr != nil {
			return vErr
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

// List retrieves all categories in creation order
func (r *categoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	query := `
		SELECT id, name, icon, created_at
		FROM categories
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		category := &domain.Category{}
		if err := rows.Scan(&category.ID, &category.Name, &category.Icon, &category.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// FindByID retrieves a category by ID
func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	query := `SELECT id, name, icon, created_at FROM categories WHERE id = $1`
	return scanCategory(r.db.QueryRowContext(ctx, query, id))
}

// FindByName retrieves a category by its unique name
func (r *categoryRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	query := `SELECT id, name, icon, created_at FROM categories WHERE name = $1`
	return scanCategory(r.db.QueryRowContext(ctx, query, name))
}

// Update locks the category row for the duration of the read-modify-write
func (r *categoryRepository) Update(ctx context.Context, id uuid.UUID, mutate func(*domain.Category) error) (*domain.Category, error) {
	var category *domain.Category

	err := withTx(ctx, r.db, nil, func(tx *sql.Tx) error {
		var err error
		category, err = scanCategory(tx.QueryRowContext(ctx,
			`SELECT id, name, icon, created_at FROM categories WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return err
		}

		if err := mutate(category); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE categories SET name = $2, icon = $3 WHERE id = $1`,
			category.ID, category.Name, category.Icon)
		if err != nil {
			if isUniqueViolation(err, categoryNameConstraint) {
				return domain.ErrCategoryAlreadyExists
			}
			if vErr := columnOverflow(err); vErr != nil {
				return vErr
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
	return withTx(ctx, r.db, nil, func(tx *sql.Tx) error {
		var locked uuid.UUID
		err := tx.QueryRowContext(ctx, `SELECT id FROM categories WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrCategoryNotFound
			}
			return fmt.Errorf("failed to lock category: %w", err)
		}

		var inUse bool
		err = tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM products WHERE category_id = $1)`, id).Scan(&inUse)
		if err != nil {
			return fmt.Errorf("failed to check category products: %w", err)
		}
		if inUse {
			return domain.ErrCategoryInUse
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrCategoryInUse
			}
			return fmt.Errorf("failed to delete category: %w", err)
		}
		return nil
	})
}

func scanCategory(row *sql.Row) (*domain.Category, error) {
	category := &domain.Category{}
	err := row.Scan(&category.ID, &category.Name, &category.Icon, &category.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return category, nil
}
