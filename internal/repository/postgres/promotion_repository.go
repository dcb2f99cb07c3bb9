package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"stationery-catalog/internal/domain"

	"github.com/google/uuid"
)

type adRepository struct {
	db *sql.DB
}

// Create inserts a new ad
func (r *adRepository) Create(ctx context.Context, ad *domain.Ad) error {
	query := `
		INSERT INTO ads (id, title, description, icon, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.db.ExecContext(ctx, query, ad.ID, ad.Title, ad.Description, ad.Icon, ad.CreatedAt); err != nil {
		if vErr := columnOverflow(err); vErr != nil {
			return vErr
		}
		return fmt.Errorf("failed to create ad: %w", err)
	}
	return nil
}

// List retrieves all ads in creation order
func (r *adRepository) List(ctx context.Context) ([]*domain.Ad, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, description, icon, created_at FROM ads ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list ads: %w", err)
	}
	defer rows.Close()

	ads := []*domain.Ad{}
	for rows.Next() {
		ad := &domain.Ad{}
		if err := rows.Scan(&ad.ID, &ad.Title, &ad.Description, &ad.Icon, &ad.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ad: %w", err)
		}
		ads = append(ads, ad)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ads: %w", err)
	}
	return ads, nil
}

// Update locks the ad row, applies mutate and persists it
func (r *adRepository) Update(ctx context.Context, id uuid.UUID, mutate func(*domain.Ad) error) (*domain.Ad, error) {
	ad := &domain.Ad{}

	err := withTx(ctx, r.db, nil, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`SELECT id, title, description, icon, created_at FROM ads WHERE id = $1 FOR UPDATE`, id).
			Scan(&ad.ID, &ad.Title, &ad.Description, &ad.Icon, &ad.CreatedAt)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrAdNotFound
			}
			return fmt.Errorf("failed to find ad: %w", err)
		}

		if err := mutate(ad); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE ads SET title = $2, description = $3, icon = $4 WHERE id = $1`,
			ad.ID, ad.Title, ad.Description, ad.Icon)
		if err != nil {
			if vErr := columnOverflow(err); vErr != nil {
				return vErr
			}
			return fmt.Errorf("failed to update ad: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ad, nil
}

// Delete removes an ad
func (r *adRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM ads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ad: %w", err)
	}
	return checkRowsAffected(result, domain.ErrAdNotFound)
}

type offerRepository struct {
	db *sql.DB
}

// Create inserts a new offer
func (r *offerRepository) Create(ctx context.Context, offer *domain.Offer) error {
	query := `
		INSERT INTO offers (id, title, discount, icon, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.db.ExecContext(ctx, query, offer.ID, offer.Title, offer.Discount, offer.Icon, offer.CreatedAt); err != nil {
		if vErr := columnOverflow(err); vErr != nil {
			return vErr
		}
		return fmt.Errorf("failed to create offer: %w", err)
	}
	return nil
}

// List retrieves all offers in creation order
func (r *offerRepository) List(ctx context.Context) ([]*domain.Offer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, discount, icon, created_at FROM offers ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	defer rows.Close()

	offers := []*domain.Offer{}
	for rows.Next() {
		offer := &domain.Offer{}
		if err := rows.Scan(&offer.ID, &offer.Title, &offer.Discount, &offer.Icon, &offer.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan offer: %w", err)
		}
		offers = append(offers, offer)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating offers: %w", err)
	}
	return offers, nil
}

// Update locks the offer row, applies mutate and persists it
func (r *offerRepository) Update(ctx context.Context, id uuid.UUID, mutate func(*domain.Offer) error) (*domain.Offer, error) {
	offer := &domain.Offer{}

	err := withTx(ctx, r.db, nil, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`SELECT id, title, discount, icon, created_at FROM offers WHERE id = $1 FOR UPDATE`, id).
			Scan(&offer.ID, &offer.Title, &offer.Discount, &offer.Icon, &offer.CreatedAt)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrOfferNotFound
			}
			return fmt.Errorf("failed to find offer: %w", err)
		}

		if err := mutate(offer); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE offers SET title = $2, discount = $3, icon = $4 WHERE id = $1`,
			offer.ID, offer.Title, offer.Discount, offer.Icon)
		if err != nil {
			if vErr := columnOverflow(err); vErr != nil {
				return vErr
			}
			return fmt.Errorf("failed to update offer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return offer, nil
}

// Delete removes an offer
func (r *offerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM offers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete offer: %w", err)
	}
	return checkRowsAffected(result, domain.ErrOfferNotFound)
}
