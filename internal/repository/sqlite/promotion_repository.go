package sqlite

import (
	"context"
	"errors"
	"fmt"

	"stationery-catalog/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type adRepository struct {
	db *gorm.DB
}

// Create saves a new ad
func (r *adRepository) Create(ctx context.Context, ad *domain.Ad) error {
	if err := r.db.WithContext(ctx).Create(fromAd(ad)).Error; err != nil {
		return fmt.Errorf("failed to create ad: %w", err)
	}
	return nil
}

// List retrieves all ads in creation order
func (r *adRepository) List(ctx context.Context) ([]*domain.Ad, error) {
	var models []*adModel
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find ads: %w", err)
	}

	ads := make([]*domain.Ad, 0, len(models))
	for _, m := range models {
		ads = append(ads, toAd(m))
	}
	return ads, nil
}

// Update applies mutate inside a transaction
func (r *adRepository) Update(ctx context.Context, id uuid.UUID, mutate func(*domain.Ad) error) (*domain.Ad, error) {
	var ad *domain.Ad

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m adModel
		if err := tx.Where("id = ?", id.String()).Take(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrAdNotFound
			}
			return fmt.Errorf("failed to find ad: %w", err)
		}

		ad = toAd(&m)
		if err := mutate(ad); err != nil {
			return err
		}

		updated := fromAd(ad)
		err := tx.Model(&adModel{}).Where("id = ?", updated.ID).Updates(map[string]interface{}{
			"title":       updated.Title,
			"description": updated.Description,
			"icon":        updated.Icon,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to update ad: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ad, nil
}

// Delete removes an ad by ID
func (r *adRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&adModel{}, "id = ?", id.String())
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete ad: %w", err)
	}
	if result.RowsAffected == 0 {
		return domain.ErrAdNotFound
	}
	return nil
}

type offerRepository struct {
	db *gorm.DB
}

// Create saves a new offer
func (r *offerRepository) Create(ctx context.Context, offer *domain.Offer) error {
	if err := r.db.WithContext(ctx).Create(fromOffer(offer)).Error; err != nil {
		return fmt.Errorf("failed to create offer: %w", err)
	}
	return nil
}

// List retrieves all offers in creation order
func (r *offerRepository) List(ctx context.Context) ([]*domain.Offer, error) {
	var models []*offerModel
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find offers: %w", err)
	}

	offers := make([]*domain.Offer, 0, len(models))
	for _, m := range models {
		offers = append(offers, toOffer(m))
	}
	return offers, nil
}

// Update applies mutate inside a transaction
func (r *offerRepository) Update(ctx context.Context, id uuid.UUID, mutate func(*domain.Offer) error) (*domain.Offer, error) {
	var offer *domain.Offer

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m offerModel
		if err := tx.Where("id = ?", id.String()).Take(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrOfferNotFound
			}
			return fmt.Errorf("failed to find offer: %w", err)
		}

		offer = toOffer(&m)
		if err := mutate(offer); err != nil {
			return err
		}

		updated := fromOffer(offer)
		err := tx.Model(&offerModel{}).Where("id = ?", updated.ID).Updates(map[string]interface{}{
			"title":    updated.Title,
			"discount": updated.Discount,
			"icon":     updated.Icon,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to update offer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return offer, nil
}

// Delete removes an offer by ID
func (r *offerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&offerModel{}, "id = ?", id.String())
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete offer: %w", err)
	}
	if result.RowsAffected == 0 {
		return domain.ErrOfferNotFound
	}
	return nil
}
