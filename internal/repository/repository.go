// Package repository defines the Store Adapter: the persistence boundary shared by
// the server relational store and the offline mirror.
package repository

import (
	"context"

	"stationery-catalog/internal/domain"

	"github.com/google/uuid"
)

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	// Create fails with domain.ErrCategoryAlreadyExists when the name is taken.
	Create(ctx context.Context, category *domain.Category) error
	List(ctx context.Context) ([]*domain.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	FindByName(ctx context.Context, name string) (*domain.Category, error)
	// Update locks the row, applies mutate and persists the result.
	Update(ctx context.Context, id uuid.UUID, mutate func(*domain.Category) error) (*domain.Category, error)
	// Delete fails with domain.ErrCategoryInUse while products reference the category.
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductRepository defines the interface for product data access.
// Every returned product has CategoryName resolved.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	List(ctx context.Context, categoryID *uuid.UUID) ([]*domain.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, mutate func(*domain.Product) error) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AdRepository defines the interface for ad data access
type AdRepository interface {
	Create(ctx context.Context, ad *domain.Ad) error
	List(ctx context.Context) ([]*domain.Ad, error)
	Update(ctx context.Context, id uuid.UUID, mutate func(*domain.Ad) error) (*domain.Ad, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// OfferRepository defines the interface for offer data access
type OfferRepository interface {
	Create(ctx context.Context, offer *domain.Offer) error
	List(ctx context.Context) ([]*domain.Offer, error)
	Update(ctx context.Context, id uuid.UUID, mutate func(*domain.Offer) error) (*domain.Offer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	// Create assigns CreatedAt, strictly later than every stored order.
	Create(ctx context.Context, order *domain.Order) error
	// List returns orders newest first.
	List(ctx context.Context) ([]*domain.Order, error)
}

// AdminRepository defines the interface for admin data access
type AdminRepository interface {
	// Create fails with domain.ErrAdminAlreadyExists when the username is taken.
	Create(ctx context.Context, admin *domain.Admin) error
	FindByUsername(ctx context.Context, username string) (*domain.Admin, error)
	SetPasswordHash(ctx context.Context, username, passwordHash string) error
}

// StatsRepository answers the aggregate stats query
type StatsRepository interface {
	// Snapshot reads all counts and the per-category distribution in one
	// read-only transaction. Categories with no products appear with count 0,
	// ordered by category creation order.
	Snapshot(ctx context.Context) (*domain.StatsSnapshot, error)
}

// Store is the Store Adapter implemented by every persistence backend
type Store interface {
	Categories() CategoryRepository
	Products() ProductRepository
	Ads() AdRepository
	Offers() OfferRepository
	Orders() OrderRepository
	Admins() AdminRepository
	Stats() StatsRepository

	Ping(ctx context.Context) error
	Close() error
}
