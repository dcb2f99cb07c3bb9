package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stationery-catalog/internal/domain"
	"stationery-catalog/internal/repository"

	"go.uber.org/zap"
)

// Options configures the catalog services
type Options struct {
	JWTSecret         string
	AccessTokenExpiry time.Duration
}

// Catalog groups the services operating on one store
type Catalog struct {
	Categories CategoryService
	Products   ProductService
	Ads        AdService
	Offers     OfferService
	Orders     OrderService
	Admins     AdminService
	Stats      StatsService
}

// NewCatalog wires every service to store
func NewCatalog(store repository.Store, logger *zap.Logger, opts Options) *Catalog {
	return &Catalog{
		Categories: NewCategoryService(store.Categories(), logger),
		Products:   NewProductService(store.Products(), store.Categories(), logger),
		Ads:        NewAdService(store.Ads(), logger),
		Offers:     NewOfferService(store.Offers(), logger),
		Orders:     NewOrderService(store.Orders(), logger),
		Admins:     NewAdminService(store.Admins(), opts.JWTSecret, opts.AccessTokenExpiry, logger),
		Stats:      NewStatsService(store.Stats()),
	}
}

// SeedCategory is one default category
type SeedCategory struct {
	Name string
	Icon string
}

// DefaultCategories are created by Seed on an empty store
var DefaultCategories = []SeedCategory{
	{Name: "أقلام", Icon: "pencil"},
	{Name: "دفاتر", Icon: "book-open-page-variant"},
	{Name: "أدوات رسم", Icon: "palette"},
	{Name: "أدوات قص", Icon: "scissors-cutting"},
	{Name: "حقائب", Icon: "bag-personal"},
	{Name: "آلات حاسبة", Icon: "calculator"},
}

// SeedOptions describes the initial data
type SeedOptions struct {
	AdminUsername string
	AdminPassword string
	AdminEmail    *string
	Categories    []SeedCategory
}

// DefaultSeed returns the seed for the given admin with the default categories.
// An empty email is stored as absent.
func DefaultSeed(username, password, email string) SeedOptions {
	opts := SeedOptions{
		AdminUsername: username,
		AdminPassword: password,
		Categories:    DefaultCategories,
	}
	if email != "" {
		opts.AdminEmail = &email
	}
	return opts
}

// SeedResult reports what Seed created
type SeedResult struct {
	AdminCreated      bool
	CategoriesCreated int
}

// Seed creates the admin account and the default categories. Existing rows are
// left untouched so running it again is a no-op.
func (c *Catalog) Seed(ctx context.Context, opts SeedOptions) (*SeedResult, error) {
	result := &SeedResult{}

	created, err := c.Admins.EnsureAdmin(ctx, opts.AdminUsername, opts.AdminPassword, opts.AdminEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to seed admin: %w", err)
	}
	result.AdminCreated = created

	for _, sc := range opts.Categories {
		icon := sc.Icon
		_, err := c.Categories.Create(ctx, domain.CreateCategoryInput{Name: sc.Name, Icon: &icon})
		if err != nil {
			if errors.Is(err, domain.ErrCategoryAlreadyExists) {
				continue
			}
			return nil, fmt.Errorf("failed to seed category %q: %w", sc.Name, err)
		}
		result.CategoriesCreated++
	}

	return result, nil
}
