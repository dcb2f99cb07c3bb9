package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"stationery-catalog/internal/domain"

	"github.com/google/uuid"
)

const selectProducts = `
	SELECT p.id, p.name, p.price, p.category_id, c.name, p.image, p.rating, p.created_at
	FROM products p
	JOIN categories c ON c.id = p.category_id
`

type productRepository struct {
	db *sql.DB
}

// Create inserts a new product and resolves its category name in the same statement
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		WITH inserted AS (
			INSERT INTO products (id, name, price, category_id, image, rating, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING category_id
		)
		SELECT c.name FROM inserted JOIN categories c ON c.id = inserted.category_id
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Price,
		product.CategoryID,
		product.Image,
		product.Rating,
		product.CreatedAt,
	).Scan(&product.CategoryName)

	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUnknownCategory
		}
		if vErr := columnOverflow(err); vErr != nil {
			return vErr
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// List retrieves products in creation order, optionally restricted to one category
func (r *productRepository) List(ctx context.Context, categoryID *uuid.UUID) ([]*domain.Product, error) {
	query := selectProducts
	args := []interface{}{}

	if categoryID != nil {
		query += " WHERE p.category_id = $1"
		args = append(args, *categoryID)
	}
	query += " ORDER BY p.created_at ASC, p.id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// FindByID retrieves a product by ID
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return scanProduct(r.db.QueryRowContext(ctx, selectProducts+" WHERE p.id = $1", id))
}

// Update locks the product row, applies mutate and writes every column back
func (r *productRepository) Update(ctx context.Context, id uuid.UUID, mutate func(*domain.Product) error) (*domain.Product, error) {
	var product *domain.Product

	err := withTx(ctx, r.db, nil, func(tx *sql.Tx) error {
		var err error
		product, err = scanProduct(tx.QueryRowContext(ctx, selectProducts+" WHERE p.id = $1 FOR UPDATE OF p", id))
		if err != nil {
			return err
		}

		if err := mutate(product); err != nil {
			return err
		}

		query := `
			UPDATE products
			SET name = $2, price = $3, category_id = $4, image = $5, rating = $6
			WHERE id = $1
		`
		_, err = tx.ExecContext(ctx, query,
			product.ID,
			product.Name,
			product.Price,
			product.CategoryID,
			product.Image,
			product.Rating,
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrUnknownCategory
			}
			if vErr := columnOverflow(err); vErr != nil {
				return vErr
			}
			return fmt.Errorf("failed to update product: %w", err)
		}

		err = tx.QueryRowContext(ctx, `SELECT name FROM categories WHERE id = $1`, product.CategoryID).
			Scan(&product.CategoryName)
		if err != nil {
			return fmt.Errorf("failed to resolve product category: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return product, nil
}

// Delete removes a product
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return checkRowsAffected(result, domain.ErrProductNotFound)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Price,
		&product.CategoryID,
		&product.CategoryName,
		&product.Image,
		&product.Rating,
		&product.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}
	return product, nil
}
