package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"stationery-catalog/internal/domain"
	"stationery-catalog/internal/repository/sqlite"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

func newTestCatalog(t *testing.T, opts Options) *Catalog {
	t.Helper()

	store, err := sqlite.Open(sqlite.MemoryPath, gormlogger.Silent)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return NewCatalog(store, zap.NewNop(), opts)
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func intPtr(i int) *int { return &i }

func mustCreateCategory(t *testing.T, c *Catalog, name string) *domain.Category {
	t.Helper()
	category, err := c.Categories.Create(context.Background(), domain.CreateCategoryInput{Name: name})
	if err != nil {
		t.Fatalf("failed to create category %q: %v", name, err)
	}
	return category
}

func mustCreateProduct(t *testing.T, c *Catalog, name, category string, price float64) *domain.Product {
	t.Helper()
	product, err := c.Products.Create(context.Background(), domain.CreateProductInput{
		Name:     name,
		Price:    floatPtr(price),
		Category: category,
	})
	if err != nil {
		t.Fatalf("failed to create product %q: %v", name, err)
	}
	return product
}

func TestCreateProductResolvesCategory(t *testing.T) {
	c := newTestCatalog(t, Options{})
	ctx := context.Background()
	mustCreateCategory(t, c, "Pens")

	product, err := c.Products.Create(ctx, domain.CreateProductInput{
		Name:     "Blue pen",
		Price:    floatPtr(5),
		Category: "Pens",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if product.CategoryName != "Pens" {
		t.Errorf("expected category Pens, got %q", product.CategoryName)
	}
	if product.Rating != 0 {
		t.Errorf("expected default rating 0, got %v", product.Rating)
	}

	products, err := c.Products.List(ctx, "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(products) != 1 || products[0].Name != "Blue pen" || products[0].Price != 5 {
		t.Errorf("unexpected products: %+v", products)
	}
}

func TestCreateProductWithUnknownCategoryWritesNothing(t *testing.T) {
	c := newTestCatalog(t, Options{})
	ctx := context.Background()

	_, err := c.Products.Create(ctx, domain.CreateProductInput{
		Name:     "Eraser",
		Price:    floatPtr(1),
		Category: "Nonexistent",
	})
	if !errors.Is(err, domain.ErrReferenceNotFound) {
		t.Fatalf("expected ReferenceNotFound, got %v", err)
	}

	stats, err := c.Stats.Compute(ctx)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if stats.ProductsCount != 0 {
		t.Errorf("expected no products, got %d", stats.ProductsCount)
	}
}

func TestCreateProductRejectsMissingFields(t *testing.T) {
	c := newTestCatalog(t, Options{})
	mustCreateCategory(t, c, "Pens")

	tests := []struct {
		name  string
		input domain.CreateProductInput
		field string
	}{
		{"missing name", domain.CreateProductInput{Price: floatPtr(1), Category: "Pens"}, "name"},
		{"missing price", domain.CreateProductInput{Name: "Pen", Category: "Pens"}, "price"},
		{"negative price", domain.CreateProductInput{Name: "Pen", Price: floatPtr(-1), Category: "Pens"}, "price"},
		{"missing category", domain.CreateProductInput{Name: "Pen", Price: floatPtr(1)}, "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Products.Create(context.Background(), tt.input)

			var validationErr *domain.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if validationErr.Fields[0].Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, validationErr.Fields[0].Field)
			}
		})
	}
}

func TestListProductsFilter(t *testing.T) {
	c := newTestCatalog(t, Options{})
	ctx := context.Background()
	mustCreateCategory(t, c, "Pens")
	mustCreateCategory(t, c, "Bags")
	mustCreateProduct(t, c, "Pen", "Pens", 2)
	mustCreateProduct(t, c, "Backpack", "Bags", 40)

	tests := []struct {
		filter string
		want   int
	}{
		{"", 2},
		{domain.AllCategories, 2},
		{"Pens", 1},
		{"Bags", 1},
		{"Unknown", 0},
	}

	for _, tt := range tests {
		products, err := c.Products.List(ctx, tt.filter)
		if err != nil {
			t.Fatalf("List(%q) error = %v", tt.filter, err)
		}
		if len(products) != tt.want {
			t.Errorf("List(%q) returned %d products, want %d", tt.filter, len(products), tt.want)
		}
		if products == nil {
			t.Errorf("List(%q) returned nil slice", tt.filter)
		}
	}
}

func TestUpdateProductIsPartial(t *testing.T) {
	c := newTestCatalog(t, Options{})
	ctx := context.Background()
	mustCreateCategory(t, c, "Pens")
	mustCreateCategory(t, c, "Notebooks")
	product := mustCreateProduct(t, c, "Pen", "Pens", 2)

	updated, err := c.Products.Update(ctx, product.ID, domain.UpdateProductInput{Price: floatPtr(3.5)})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Price != 3.5 || updated.Name != "Pen" || updated.CategoryName != "Pens" {
		t.Errorf("unexpected product after price update: %+v", updated)
	}

	updated, err = c.Products.Update(ctx, product.ID, domain.UpdateProductInput{Category: strPtr("Notebooks")})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.CategoryName != "Notebooks" {
		t.Errorf("expected category Notebooks, got %q", updated.CategoryName)
	}
}

func TestUpdateProductWithUnknownCategoryKeepsCategory(t *testing.T) {
	c := newTestCatalog(t, Options{})
	ctx := context.Background()
	mustCreateCategory(t, c, "Pens")
	product := mustCreateProduct(t, c, "Pen", "Pens", 2)

	updated, err := c.Products.Update(ctx, product.ID, domain.UpdateProductInput{
		Name:     strPtr("Red pen"),
		Category: strPtr("Nonexistent"),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Name != "Red pen" {
		t.Errorf("expected name to change, got %q", updated.Name)
	}
	if updated.CategoryID != product.CategoryID {
		t.Errorf("expected category to stay unchanged")
	}
}

func TestUpdateAndDeleteMissingProduct(t *testing.T) {
	c := newTestCatalog(t, Options{})
	ctx := context.Background()
	mustCreateCategory(t, c, "Pens")
	product := mustCreateProduct(t, c, "Pen", "Pens", 2)

	if err := c.Products.Delete(ctx, product.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := c.Products.Delete(ctx, product.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected NotFound on second delete, got %v", err)
	}
	if _, err := c.Products.Update(ctx, product.ID, domain.UpdateProductInput{Name: strPtr("x")}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected NotFound on update, got %v", err)
	}
}

func TestDuplicateCategoryIsRejected(t *testing.T) {
	c := newTestCatalog(t, Options{})
	ctx := context.Background()
	mustCreateCategory(t, c, "Pens")

	_, err := c.Categories.Create(ctx, domain.CreateCategoryInput{Name: "Pens"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected Conflict, got %v", err)
	}

	categories, err := c.Categories.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(categories) != 1 {
		t.Errorf("expected one category, got %d", len(categories))
	}
}

func TestRenameCategoryToExistingNameIsRejected(t *testing.T) {
	c := newTestCatalog(t, Options{})
	ctx := context.Background()
	mustCreateCategory(t, c, "Pens")
	bags := mustCreateCategory(t, c, "Bags")

	_, err := c.Categories.Update(ctx, bags.ID, domain.UpdateCategoryInput{Name: strPtr("Pens")})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected Conflict, got %v", err)
	}

	_, err = c.Categories.Update(ctx, bags.ID, domain.UpdateCategoryInput{Name: strPtr("")})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ValidationError for empty name, got %v", err)
	}

	updated, err := c.Categories.Update(ctx, bags.ID, domain.UpdateCategoryInput{Icon: domain.Some("bag")})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Name != "Bags" || updated.Icon == nil || *updated.Icon != "bag" {
		t.Errorf("unexpected category: %+v", updated)
	}
}

func TestDeleteCategoryInUseIsRejected(t *testing.T) {
	c := newTestCatalog(t, Options{})
	ctx := context.Background()
	pens := mustCreateCategory(t, c, "Pens")
	empty := mustCreateCategory(t, c, "Empty")
	mustCreateProduct(t, c, "Pen", "Pens", 2)

	if err := c.Categories.Delete(ctx, pens.ID); !errors.Is(err, domain.ErrCategoryInUse) {
		t.Fatalf("expected ErrCategoryInUse, got %v", err)
	}
	if err := c.Categories.Delete(ctx, empty.ID); err != nil {
		t.Fatalf("Delete() of empty category error = %v", err)
	}

	products, err := c.Products.List(ctx, "Pens")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(products) != 1 {
		t.Errorf("expected the product to survive, got %d products", len(products))
	}
}

func TestAdsAndOffers(t *testing.T) {
	c := newTestCatalog(t, Options{})
	ctx := context.Background()

	ad, err := c.Ads.Create(ctx, domain.CreateAdInput{Title: "Back to school", Description: "New arrivals"})
	if err != nil {
		t.Fatalf("Create ad error = %v", err)
	}
	if _, err := c.Ads.Create(ctx, domain.CreateAdInput{Title: "No description"}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ValidationError, got %v", err)
	}

	ad, err = c.Ads.Update(ctx, ad.ID, domain.UpdateAdInput{Description: strPtr("Everything 10% off")})
	if err != nil {
		t.Fatalf("Update ad error = %v", err)
	}
	if ad.Title != "Back to school" || ad.Description != "Everything 10% off" {
		t.Errorf("unexpected ad: %+v", ad)
	}

	offer, err := c.Offers.Create(ctx, domain.CreateOfferInput{Title: "Bags", Discount: "50%", Icon: strPtr("tag")})
	if err != nil {
		t.Fatalf("Create offer error = %v", err)
	}
	offers, err := c.Offers.List(ctx)
	if err != nil {
		t.Fatalf("List offers error = %v", err)
	}
	if len(offers) != 1 || offers[0].Discount != "50%" {
		t.Errorf("unexpected offers: %+v", offers)
	}

	if err := c.Offers.Delete(ctx, offer.ID); err != nil {
		t.Fatalf("Delete offer error = %v", err)
	}
	if err := c.Ads.Delete(ctx, ad.ID); err != nil {
		t.Fatalf("Delete ad error = %v", err)
	}
	if err := c.Ads.Delete(ctx, ad.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestRecordOrders(t *testing.T) {
	c := newTestCatalog(t, Options{})
	ctx := context.Background()

	first, err := c.Orders.Record(ctx, domain.CreateOrderInput{TotalAmount: floatPtr(12.5), ItemsCount: intPtr(3)})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	second, err := c.Orders.Record(ctx, domain.CreateOrderInput{TotalAmount: floatPtr(0), ItemsCount: intPtr(0)})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if !second.CreatedAt.After(first.CreatedAt) {
		t.Errorf("expected strictly increasing timestamps: %v then %v", first.CreatedAt, second.CreatedAt)
	}

	if _, err := c.Orders.Record(ctx, domain.CreateOrderInput{TotalAmount: floatPtr(-1), ItemsCount: intPtr(1)}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ValidationError for negative total, got %v", err)
	}
	if _, err := c.Orders.Record(ctx, domain.CreateOrderInput{TotalAmount: floatPtr(1)}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ValidationError for missing items_count, got %v", err)
	}

	orders, err := c.Orders.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(orders) != 2 || orders[0].ID != second.ID {
		t.Errorf("expected newest order first, got %+v", orders)
	}
}

func TestStatsOnEmptyStore(t *testing.T) {
	c := newTestCatalog(t, Options{})

	stats, err := c.Stats.Compute(context.Background())
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if stats.CategoriesCount != 0 || stats.ProductsCount != 0 || stats.OrdersCount != 0 ||
		stats.AdsCount != 0 || stats.OffersCount != 0 {
		t.Errorf("expected all zero counts, got %+v", stats)
	}
	if stats.ProductsPerCategory == nil || len(stats.ProductsPerCategory) != 0 {
		t.Errorf("expected empty distribution, got %v", stats.ProductsPerCategory)
	}
}

func TestStatsIncludesEmptyCategories(t *testing.T) {
	c := newTestCatalog(t, Options{})
	ctx := context.Background()
	mustCreateCategory(t, c, "Pens")
	mustCreateCategory(t, c, "Bags")
	mustCreateProduct(t, c, "Pen", "Pens", 2)
	mustCreateProduct(t, c, "Pencil", "Pens", 1)

	stats, err := c.Stats.Compute(ctx)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	want := []struct {
		name  string
		count int
	}{{"Pens", 2}, {"Bags", 0}}
	if len(stats.ProductsPerCategory) != len(want) {
		t.Fatalf("expected %d entries, got %v", len(want), stats.ProductsPerCategory)
	}
	for i, w := range want {
		got := stats.ProductsPerCategory[i]
		if got.Name != w.name || got.Count != w.count {
			t.Errorf("entry %d = (%s, %d), want (%s, %d)", i, got.Name, got.Count, w.name, w.count)
		}
	}
	if stats.ProductsCount != stats.SumPerCategory() {
		t.Errorf("products_count %d != sum %d", stats.ProductsCount, stats.SumPerCategory())
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	c := newTestCatalog(t, Options{})
	ctx := context.Background()
	opts := SeedOptions{
		AdminUsername: "admin",
		AdminPassword: "admin123",
		Categories:    DefaultCategories,
	}

	first, err := c.Seed(ctx, opts)
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if !first.AdminCreated || first.CategoriesCreated != len(DefaultCategories) {
		t.Errorf("unexpected first seed result: %+v", first)
	}

	second, err := c.Seed(ctx, opts)
	if err != nil {
		t.Fatalf("second Seed() error = %v", err)
	}
	if second.AdminCreated || second.CategoriesCreated != 0 {
		t.Errorf("expected second seed to be a no-op, got %+v", second)
	}

	categories, err := c.Categories.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(categories) != len(DefaultCategories) {
		t.Fatalf("expected %d categories, got %d", len(DefaultCategories), len(categories))
	}
	for i, category := range categories {
		if category.Name != DefaultCategories[i].Name {
			t.Errorf("category %d = %q, want %q", i, category.Name, DefaultCategories[i].Name)
		}
	}

	result, err := c.Admins.Authenticate(ctx, "admin", "admin123")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if !result.Success || result.Username != "admin" {
		t.Errorf("unexpected auth result: %+v", result)
	}
}

func TestUpdateNullClearsOptionalFields(t *testing.T) {
	c := newTestCatalog(t, Options{})
	ctx := context.Background()
	mustCreateCategory(t, c, "Pens")

	product, err := c.Products.Create(ctx, domain.CreateProductInput{
		Name: "Pen", Price: floatPtr(2), Category: "Pens", Image: strPtr("a.png"),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, err := c.Products.Update(ctx, product.ID, domain.UpdateProductInput{Price: floatPtr(3)})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Image == nil || *updated.Image != "a.png" {
		t.Fatalf("absent image must be kept, got %v", updated.Image)
	}

	updated, err = c.Products.Update(ctx, product.ID, domain.UpdateProductInput{Image: domain.Null[string]()})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Image != nil {
		t.Errorf("explicit null must clear the image, got %q", *updated.Image)
	}

	ad, err := c.Ads.Create(ctx, domain.CreateAdInput{Title: "Sale", Description: "Now", Icon: strPtr("tag")})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	clearedAd, err := c.Ads.Update(ctx, ad.ID, domain.UpdateAdInput{Icon: domain.Null[string]()})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if clearedAd.Icon != nil || clearedAd.Title != "Sale" {
		t.Errorf("unexpected ad after clearing icon: %+v", clearedAd)
	}
}

func TestOversizedInputIsRejected(t *testing.T) {
	c := newTestCatalog(t, Options{})
	ctx := context.Background()
	longName := strings.Repeat("ق", 51)

	if _, err := c.Categories.Create(ctx, domain.CreateCategoryInput{Name: longName}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ValidationError for a 51 character name, got %v", err)
	}
	if _, err := c.Categories.Create(ctx, domain.CreateCategoryInput{Name: strings.Repeat("ق", 50)}); err != nil {
		t.Errorf("50 characters must fit, got %v", err)
	}

	_, err := c.Orders.Record(ctx, domain.CreateOrderInput{TotalAmount: floatPtr(1), ItemsCount: intPtr(3000000000)})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ValidationError for items_count beyond INTEGER, got %v", err)
	}

	if _, err := c.Admins.EnsureAdmin(ctx, strings.Repeat("a", 51), "secret", nil); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ValidationError for a long username, got %v", err)
	}
}

func TestCreatedAtHasStoragePrecision(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 9, 30, 0, 123456789, time.UTC)
	clock := func() time.Time { return fixed }
	want := fixed.Truncate(time.Microsecond)

	c := newTestCatalog(t, Options{})
	ctx := context.Background()
	c.Categories.(*categoryService).now = clock
	c.Products.(*productService).now = clock
	c.Ads.(*adService).now = clock
	c.Offers.(*offerService).now = clock

	category := mustCreateCategory(t, c, "Pens")
	product := mustCreateProduct(t, c, "Pen", "Pens", 1)
	ad, err := c.Ads.Create(ctx, domain.CreateAdInput{Title: "a", Description: "b"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	offer, err := c.Offers.Create(ctx, domain.CreateOfferInput{Title: "a", Discount: "5%"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	for name, got := range map[string]time.Time{
		"category": category.CreatedAt,
		"product":  product.CreatedAt,
		"ad":       ad.CreatedAt,
		"offer":    offer.CreatedAt,
	} {
		if !got.Equal(want) {
			t.Errorf("%s created_at = %v, want %v", name, got, want)
		}
	}

	listed, err := c.Products.List(ctx, "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(listed) != 1 || !listed[0].CreatedAt.Equal(product.CreatedAt) {
		t.Errorf("listed created_at differs from the created product")
	}
}
