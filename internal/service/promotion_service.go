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

// AdService defines the interface for ad business logic
type AdService interface {
	List(ctx context.Context) ([]*domain.Ad, error)
	Create(ctx context.Context, input domain.CreateAdInput) (*domain.Ad, error)
	Update(ctx context.Context, id uuid.UUID, input domain.UpdateAdInput) (*domain.Ad, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// OfferService defines the interface for offer business logic
type OfferService interface {
	List(ctx context.Context) ([]*domain.Offer, error)
	Create(ctx context.Context, input domain.CreateOfferInput) (*domain.Offer, error)
	Update(ctx context.Context, id uuid.UUID, input domain.UpdateOfferInput) (*domain.Offer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type adService struct {
	adRepo repository.AdRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewAdService creates a new instance of AdService
func NewAdService(adRepo repository.AdRepository, logger *zap.Logger) AdService {
	return &adService{adRepo: adRepo, logger: logger, now: time.Now}
}

func (s *adService) List(ctx context.Context) ([]*domain.Ad, error) {
	ads, err := s.adRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ads: %w", err)
	}
	return ads, nil
}

func (s *adService) Create(ctx context.Context, input domain.CreateAdInput) (*domain.Ad, error) {
	if err := domain.Validate(input); err != nil {
		return nil, err
	}

	ad := &domain.Ad{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		Icon:        input.Icon,
		CreatedAt:   s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.adRepo.Create(ctx, ad); err != nil {
		return nil, err
	}

	s.logger.Info("ad created", zap.String("ad_id", ad.ID.String()))
	return ad, nil
}

func (s *adService) Update(ctx context.Context, id uuid.UUID, input domain.UpdateAdInput) (*domain.Ad, error) {
	if err := domain.Validate(input); err != nil {
		return nil, err
	}

	ad, err := s.adRepo.Update(ctx, id, func(a *domain.Ad) error {
		if input.Title != nil {
			a.Title = *input.Title
		}
		if input.Description != nil {
			a.Description = *input.Description
		}
		input.Icon.Apply(&a.Icon)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ad updated", zap.String("ad_id", id.String()))
	return ad, nil
}

func (s *adService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.adRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("ad deleted", zap.String("ad_id", id.String()))
	return nil
}

type offerService struct {
	offerRepo repository.OfferRepository
	logger    *zap.Logger
	now       func() time.Time
}

// NewOfferService creates a new instance of OfferService
func NewOfferService(offerRepo repository.OfferRepository, logger *zap.Logger) OfferService {
	return &offerService{offerRepo: offerRepo, logger: logger, now: time.Now}
}

func (s *offerService) List(ctx context.Context) ([]*domain.Offer, error) {
	offers, err := s.offerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	return offers, nil
}

func (s *offerService) Create(ctx context.Context, input domain.CreateOfferInput) (*domain.Offer, error) {
	if err := domain.Validate(input); err != nil {
		return nil, err
	}

	offer := &domain.Offer{
		ID:        uuid.New(),
		Title:     input.Title,
		Discount:  input.Discount,
		Icon:      input.Icon,
		CreatedAt: s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.offerRepo.Create(ctx, offer); err != nil {
		return nil, err
	}

	s.logger.Info("offer created", zap.String("offer_id", offer.ID.String()))
	return offer, nil
}

func (s *offerService) Update(ctx context.Context, id uuid.UUID, input domain.UpdateOfferInput) (*domain.Offer, error) {
	if err := domain.Validate(input); err != nil {
		return nil, err
	}

	offer, err := s.offerRepo.Update(ctx, id, func(o *domain.Offer) error {
		if input.Title != nil {
			o.Title = *input.Title
		}
		if input.Discount != nil {
			o.Discount = *input.Discount
		}
		input.Icon.Apply(&o.Icon)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("offer updated", zap.String("offer_id", id.String()))
	return offer, nil
}

func (s *offerService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.offerRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("offer deleted", zap.String("offer_id", id.String()))
	return nil
}
