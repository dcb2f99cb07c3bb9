// Package repositorytest holds the behaviour every repository.Store
// implementation must share. Adapters run it from their own tests.
package repositorytest

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"stationery-catalog/internal/domain"
	"stationery-catalog/internal/repository"
	"stationery-catalog/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// NewStoreFunc returns an empty store for one subtest
type NewStoreFunc func(t *testing.T) repository.Store

// Run executes the contract suite
func Run(t *testing.T, newStore NewStoreFunc) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s repository.Store)
	}{
		{"CategoryNameIsUnique", testCategoryNameIsUnique},
		{"CategoryRenameConflict", testCategoryRenameConflict},
		{"CategoryLookups", testCategoryLookups},
		{"CategoryDeleteInUse", testCategoryDeleteInUse},
		{"ProductCreateResolvesCategory", testProductCreateResolvesCategory},
		{"ProductCreateUnknownCategory", testProductCreateUnknownCategory},
		{"ProductListFilterAndOrder", testProductListFilterAndOrder},
		{"ProductUpdateAndDelete", testProductUpdateAndDelete},
		{"ConcurrentUpdatesSerialize", testConcurrentUpdatesSerialize},
		{"ConcurrentDuplicateCategory", testConcurrentDuplicateCategory},
		{"Promotions", testPromotions},
		{"OrdersAreStrictlyIncreasing", testOrdersAreStrictlyIncreasing},
		{"Admins", testAdmins},
		{"StatsSnapshot", testStatsSnapshot},
		{"OversizedInputIsValidationError", testOversizedInputIsValidationError},
		{"NullClearsOptionalColumns", testNullClearsOptionalColumns},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newStore(t))
		})
	}
}

var clock = struct {
	sync.Mutex
	last time.Time
}{}

// now returns strictly increasing timestamps at microsecond precision
func now() time.Time {
	clock.Lock()
	defer clock.Unlock()

	ts := time.Now().UTC().Truncate(time.Microsecond)
	if !ts.After(clock.last) {
		ts = clock.last.Add(time.Microsecond)
	}
	clock.last = ts
	return ts
}

func newCategory(name string) *domain.Category {
	return &domain.Category{ID: uuid.New(), Name: name, CreatedAt: now()}
}

func newProduct(name string, categoryID uuid.UUID, price float64) *domain.Product {
	return &domain.Product{ID: uuid.New(), Name: name, Price: price, CategoryID: categoryID, CreatedAt: now()}
}

func createCategory(t *testing.T, s repository.Store, name string) *domain.Category {
	t.Helper()
	c := newCategory(name)
	require.NoError(t, s.Categories().Create(context.Background(), c))
	return c
}

func createProduct(t *testing.T, s repository.Store, name string, categoryID uuid.UUID, price float64) *domain.Product {
	t.Helper()
	p := newProduct(name, categoryID, price)
	require.NoError(t, s.Products().Create(context.Background(), p))
	return p
}

func testCategoryNameIsUnique(t *testing.T, s repository.Store) {
	ctx := context.Background()
	createCategory(t, s, "أقلام")

	err := s.Categories().Create(ctx, newCategory("أقلام"))
	require.ErrorIs(t, err, domain.ErrCategoryAlreadyExists)
	assert.ErrorIs(t, err, domain.ErrConflict)

	categories, err := s.Categories().List(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 1)
}

func testCategoryRenameConflict(t *testing.T, s repository.Store) {
	ctx := context.Background()
	createCategory(t, s, "Pens")
	bags := createCategory(t, s, "Bags")

	_, err := s.Categories().Update(ctx, bags.ID, func(c *domain.Category) error {
		c.Name = "Pens"
		return nil
	})
	require.ErrorIs(t, err, domain.ErrConflict)

	found, err := s.Categories().FindByID(ctx, bags.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bags", found.Name)

	icon := "bag-personal"
	updated, err := s.Categories().Update(ctx, bags.ID, func(c *domain.Category) error {
		c.Icon = &icon
		return nil
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Icon)
	assert.Equal(t, icon, *updated.Icon)
	assert.Equal(t, "Bags", updated.Name)
}

func testCategoryLookups(t *testing.T, s repository.Store) {
	ctx := context.Background()
	pens := createCategory(t, s, "Pens")

	found, err := s.Categories().FindByName(ctx, "Pens")
	require.NoError(t, err)
	assert.Equal(t, pens.ID, found.ID)

	_, err = s.Categories().FindByName(ctx, "Nonexistent")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.Categories().FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.Categories().Update(ctx, uuid.New(), func(*domain.Category) error { return nil })
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, s.Categories().Delete(ctx, uuid.New()), domain.ErrNotFound)
}

func testCategoryDeleteInUse(t *testing.T, s repository.Store) {
	ctx := context.Background()
	pens := createCategory(t, s, "Pens")
	empty := createCategory(t, s, "Empty")
	createProduct(t, s, "Pen", pens.ID, 2)

	err := s.Categories().Delete(ctx, pens.ID)
	require.ErrorIs(t, err, domain.ErrCategoryInUse)

	require.NoError(t, s.Categories().Delete(ctx, empty.ID))

	products, err := s.Products().List(ctx, &pens.ID)
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, "Pens", products[0].CategoryName)
}

func testProductCreateResolvesCategory(t *testing.T, s repository.Store) {
	ctx := context.Background()
	notebooks := createCategory(t, s, "دفاتر")
	image := "notebook.png"

	p := newProduct("دفتر", notebooks.ID, 12.75)
	p.Image = &image
	p.Rating = 4.5
	require.NoError(t, s.Products().Create(ctx, p))
	assert.Equal(t, "دفاتر", p.CategoryName)

	found, err := s.Products().FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, found.Name)
	assert.Equal(t, 12.75, found.Price)
	assert.Equal(t, 4.5, found.Rating)
	assert.Equal(t, notebooks.ID, found.CategoryID)
	assert.Equal(t, "دفاتر", found.CategoryName)
	require.NotNil(t, found.Image)
	assert.Equal(t, image, *found.Image)
}

func testProductCreateUnknownCategory(t *testing.T, s repository.Store) {
	ctx := context.Background()

	err := s.Products().Create(ctx, newProduct("Eraser", uuid.New(), 1))
	require.ErrorIs(t, err, domain.ErrReferenceNotFound)

	products, err := s.Products().List(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func testProductListFilterAndOrder(t *testing.T, s repository.Store) {
	ctx := context.Background()
	pens := createCategory(t, s, "Pens")
	bags := createCategory(t, s, "Bags")
	first := createProduct(t, s, "Pen", pens.ID, 2)
	second := createProduct(t, s, "Backpack", bags.ID, 40)
	third := createProduct(t, s, "Pencil", pens.ID, 1)

	all, err := s.Products().List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []uuid.UUID{first.ID, second.ID, third.ID}, []uuid.UUID{all[0].ID, all[1].ID, all[2].ID})

	onlyPens, err := s.Products().List(ctx, &pens.ID)
	require.NoError(t, err)
	require.Len(t, onlyPens, 2)
	for _, p := range onlyPens {
		assert.Equal(t, "Pens", p.CategoryName)
	}

	missing := uuid.New()
	none, err := s.Products().List(ctx, &missing)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func testProductUpdateAndDelete(t *testing.T, s repository.Store) {
	ctx := context.Background()
	pens := createCategory(t, s, "Pens")
	bags := createCategory(t, s, "Bags")
	p := createProduct(t, s, "Pen", pens.ID, 2)

	updated, err := s.Products().Update(ctx, p.ID, func(p *domain.Product) error {
		p.Price = 2.5
		p.CategoryID = bags.ID
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2.5, updated.Price)
	assert.Equal(t, "Pen", updated.Name)
	assert.Equal(t, "Bags", updated.CategoryName)
	assert.Equal(t, p.CreatedAt.Unix(), updated.CreatedAt.Unix())

	_, err = s.Products().Update(ctx, p.ID, func(p *domain.Product) error {
		p.CategoryID = uuid.New()
		return nil
	})
	require.ErrorIs(t, err, domain.ErrReferenceNotFound)

	found, err := s.Products().FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, bags.ID, found.CategoryID)

	require.NoError(t, s.Products().Delete(ctx, p.ID))
	assert.ErrorIs(t, s.Products().Delete(ctx, p.ID), domain.ErrProductNotFound)

	_, err = s.Products().FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.Products().Update(ctx, p.ID, func(*domain.Product) error { return nil })
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func testConcurrentUpdatesSerialize(t *testing.T, s repository.Store) {
	ctx := context.Background()
	pens := createCategory(t, s, "Pens")
	p := createProduct(t, s, "Pen", pens.ID, 0)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Products().Update(ctx, p.ID, func(p *domain.Product) error {
				p.Price++
				return nil
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	found, err := s.Products().FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(workers), found.Price)
}

func testConcurrentDuplicateCategory(t *testing.T, s repository.Store) {
	ctx := context.Background()

	const workers = 6
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- s.Categories().Create(ctx, newCategory("حقائب"))
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, domain.ErrCategoryAlreadyExists)
	}
	assert.Equal(t, 1, succeeded)

	categories, err := s.Categories().List(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 1)
}

func testPromotions(t *testing.T, s repository.Store) {
	ctx := context.Background()

	ad := &domain.Ad{ID: uuid.New(), Title: "Back to school", Description: "New arrivals", CreatedAt: now()}
	require.NoError(t, s.Ads().Create(ctx, ad))

	updated, err := s.Ads().Update(ctx, ad.ID, func(a *domain.Ad) error {
		a.Description = "Everything 10% off"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Back to school", updated.Title)
	assert.Equal(t, "Everything 10% off", updated.Description)

	ads, err := s.Ads().List(ctx)
	require.NoError(t, err)
	require.Len(t, ads, 1)
	assert.Equal(t, "Everything 10% off", ads[0].Description)

	require.NoError(t, s.Ads().Delete(ctx, ad.ID))
	assert.ErrorIs(t, s.Ads().Delete(ctx, ad.ID), domain.ErrAdNotFound)
	_, err = s.Ads().Update(ctx, ad.ID, func(*domain.Ad) error { return nil })
	assert.ErrorIs(t, err, domain.ErrNotFound)

	icon := "tag"
	offer := &domain.Offer{ID: uuid.New(), Title: "Bags", Discount: "50%", Icon: &icon, CreatedAt: now()}
	require.NoError(t, s.Offers().Create(ctx, offer))

	offers, err := s.Offers().List(ctx)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, "50%", offers[0].Discount)
	require.NotNil(t, offers[0].Icon)

	_, err = s.Offers().Update(ctx, offer.ID, func(o *domain.Offer) error {
		o.Discount = "30%"
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, s.Offers().Delete(ctx, offer.ID))
	assert.ErrorIs(t, s.Offers().Delete(ctx, offer.ID), domain.ErrOfferNotFound)
}

func testOrdersAreStrictlyIncreasing(t *testing.T, s repository.Store) {
	ctx := context.Background()
	requested := time.Now()

	var created []*domain.Order
	for i := 0; i < 3; i++ {
		o := &domain.Order{ID: uuid.New(), TotalAmount: float64(i) * 1.5, ItemsCount: i, CreatedAt: requested}
		require.NoError(t, s.Orders().Create(ctx, o))
		created = append(created, o)
	}

	assert.True(t, created[1].CreatedAt.After(created[0].CreatedAt))
	assert.True(t, created[2].CreatedAt.After(created[1].CreatedAt))

	orders, err := s.Orders().List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, created[2].ID, orders[0].ID)
	assert.Equal(t, created[0].ID, orders[2].ID)
	assert.Equal(t, 3.0, orders[0].TotalAmount)
	assert.Equal(t, 2, orders[0].ItemsCount)
}

func testAdmins(t *testing.T, s repository.Store) {
	ctx := context.Background()
	email := "admin@example.com"

	admin := &domain.Admin{ID: uuid.New(), Username: "admin", PasswordHash: "$2a$10$hash", Email: &email}
	require.NoError(t, s.Admins().Create(ctx, admin))

	err := s.Admins().Create(ctx, &domain.Admin{ID: uuid.New(), Username: "admin", PasswordHash: "x"})
	require.ErrorIs(t, err, domain.ErrAdminAlreadyExists)

	found, err := s.Admins().FindByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, found.ID)
	assert.Equal(t, admin.PasswordHash, found.PasswordHash)
	require.NotNil(t, found.Email)

	require.NoError(t, s.Admins().SetPasswordHash(ctx, "admin", "$2a$10$other"))
	found, err = s.Admins().FindByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$other", found.PasswordHash)

	_, err = s.Admins().FindByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrAdminNotFound)
	assert.ErrorIs(t, s.Admins().SetPasswordHash(ctx, "ghost", "x"), domain.ErrNotFound)
}

func testStatsSnapshot(t *testing.T, s repository.Store) {
	ctx := context.Background()

	empty, err := s.Stats().Snapshot(ctx)
	require.NoError(t, err)
	assert.Zero(t, empty.CategoriesCount)
	assert.Zero(t, empty.ProductsCount)
	assert.Empty(t, empty.ProductsPerCategory)

	pens := createCategory(t, s, "Pens")
	createCategory(t, s, "Bags")
	notebooks := createCategory(t, s, "Notebooks")
	createProduct(t, s, "Pen", pens.ID, 1)
	createProduct(t, s, "Pencil", pens.ID, 1)
	createProduct(t, s, "Notebook", notebooks.ID, 3)
	require.NoError(t, s.Ads().Create(ctx, &domain.Ad{ID: uuid.New(), Title: "a", Description: "b", CreatedAt: now()}))
	require.NoError(t, s.Orders().Create(ctx, &domain.Order{ID: uuid.New(), TotalAmount: 1, ItemsCount: 1, CreatedAt: now()}))

	stats, err := s.Stats().Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.CategoriesCount)
	assert.Equal(t, 3, stats.ProductsCount)
	assert.Equal(t, 1, stats.OrdersCount)
	assert.Equal(t, 1, stats.AdsCount)
	assert.Equal(t, 0, stats.OffersCount)

	require.Len(t, stats.ProductsPerCategory, 3)
	assert.Equal(t, "Pens", stats.ProductsPerCategory[0].Name)
	assert.Equal(t, 2, stats.ProductsPerCategory[0].Count)
	assert.Equal(t, "Bags", stats.ProductsPerCategory[1].Name)
	assert.Equal(t, 0, stats.ProductsPerCategory[1].Count)
	assert.Equal(t, "Notebooks", stats.ProductsPerCategory[2].Name)
	assert.Equal(t, 1, stats.ProductsPerCategory[2].Count)
	assert.Equal(t, stats.ProductsCount, stats.SumPerCategory())
}

// Both stores must answer input beyond the server column sizes the same way.
func testOversizedInputIsValidationError(t *testing.T, s repository.Store) {
	ctx := context.Background()
	catalog := service.NewCatalog(s, zap.NewNop(), service.Options{})
	long := strings.Repeat("x", 51)

	_, err := catalog.Categories.Create(ctx, domain.CreateCategoryInput{Name: long})
	require.ErrorIs(t, err, domain.ErrValidation)

	pens, err := catalog.Categories.Create(ctx, domain.CreateCategoryInput{Name: "Pens"})
	require.NoError(t, err)
	_, err = catalog.Categories.Update(ctx, pens.ID, domain.UpdateCategoryInput{Icon: domain.Some(long)})
	require.ErrorIs(t, err, domain.ErrValidation)

	price := 1.0
	_, err = catalog.Products.Create(ctx, domain.CreateProductInput{
		Name: strings.Repeat("x", 101), Price: &price, Category: "Pens",
	})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = catalog.Offers.Create(ctx, domain.CreateOfferInput{Title: "Bags", Discount: strings.Repeat("%", 101)})
	require.ErrorIs(t, err, domain.ErrValidation)

	items := 3000000000
	_, err = catalog.Orders.Record(ctx, domain.CreateOrderInput{TotalAmount: &price, ItemsCount: &items})
	require.ErrorIs(t, err, domain.ErrValidation)

	categories, err := s.Categories().List(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Nil(t, categories[0].Icon)

	stats, err := s.Stats().Snapshot(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.ProductsCount)
	assert.Zero(t, stats.OrdersCount)
	assert.Zero(t, stats.OffersCount)
}

func testNullClearsOptionalColumns(t *testing.T, s repository.Store) {
	ctx := context.Background()
	catalog := service.NewCatalog(s, zap.NewNop(), service.Options{})
	icon, image, price := "pencil", "pen.png", 2.0

	pens, err := catalog.Categories.Create(ctx, domain.CreateCategoryInput{Name: "Pens", Icon: &icon})
	require.NoError(t, err)
	product, err := catalog.Products.Create(ctx, domain.CreateProductInput{
		Name: "Pen", Price: &price, Category: "Pens", Image: &image,
	})
	require.NoError(t, err)

	_, err = catalog.Categories.Update(ctx, pens.ID, domain.UpdateCategoryInput{Icon: domain.Null[string]()})
	require.NoError(t, err)
	_, err = catalog.Products.Update(ctx, product.ID, domain.UpdateProductInput{Image: domain.Null[string]()})
	require.NoError(t, err)

	storedCategory, err := s.Categories().FindByID(ctx, pens.ID)
	require.NoError(t, err)
	assert.Nil(t, storedCategory.Icon)

	storedProduct, err := s.Products().FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Nil(t, storedProduct.Image)
	assert.True(t, product.CreatedAt.Equal(storedProduct.CreatedAt), "created_at changed on the round trip")
}
