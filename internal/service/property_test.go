package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"unicode"

	"stationery-catalog/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestProperty_DuplicateCategoryNameIsAlwaysRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("second create with the same name fails and leaves one row", prop.ForAll(
		func(name string) bool {
			c := newTestCatalog(t, Options{})
			ctx := context.Background()

			if _, err := c.Categories.Create(ctx, domain.CreateCategoryInput{Name: name}); err != nil {
				t.Logf("first create failed: %v", err)
				return false
			}
			if _, err := c.Categories.Create(ctx, domain.CreateCategoryInput{Name: name}); !errors.Is(err, domain.ErrConflict) {
				t.Logf("expected Conflict, got %v", err)
				return false
			}

			categories, err := c.Categories.List(ctx)
			return err == nil && len(categories) == 1
		},
		gen.OneGenOf(gen.AlphaString(), gen.UnicodeString(unicode.Arabic)).
			SuchThat(func(s string) bool { return s != "" }),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_CreatedProductAppearsOnceInList(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("a created product is listed exactly once with the same fields", prop.ForAll(
		func(name string, price float64, rating float64) bool {
			c := newTestCatalog(t, Options{})
			ctx := context.Background()
			if _, err := c.Categories.Create(ctx, domain.CreateCategoryInput{Name: "دفاتر"}); err != nil {
				return false
			}

			created, err := c.Products.Create(ctx, domain.CreateProductInput{
				Name:     name,
				Price:    &price,
				Category: "دفاتر",
				Rating:   &rating,
			})
			if err != nil {
				t.Logf("create failed: %v", err)
				return false
			}

			products, err := c.Products.List(ctx, "دفاتر")
			if err != nil {
				return false
			}
			matches := 0
			for _, p := range products {
				if p.ID == created.ID {
					matches++
					if p.Name != name || p.Price != price || p.Rating != rating || p.CategoryName != "دفاتر" {
						t.Logf("mismatch: %+v", p)
						return false
					}
				}
			}
			return matches == 1
		},
		gen.AlphaString().SuchThat(func(s string) bool { return s != "" }),
		gen.Float64Range(0, 10000),
		gen.Float64Range(0, 5),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_StatsProductCountMatchesDistribution(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("products_count equals the sum of per-category counts", prop.ForAll(
		func(perCategory []int) bool {
			c := newTestCatalog(t, Options{})
			ctx := context.Background()

			for i, n := range perCategory {
				name := fmt.Sprintf("category-%d", i)
				if _, err := c.Categories.Create(ctx, domain.CreateCategoryInput{Name: name}); err != nil {
					return false
				}
				for j := 0; j < n; j++ {
					price := float64(j)
					_, err := c.Products.Create(ctx, domain.CreateProductInput{
						Name:     fmt.Sprintf("product-%d-%d", i, j),
						Price:    &price,
						Category: name,
					})
					if err != nil {
						return false
					}
				}
			}

			stats, err := c.Stats.Compute(ctx)
			if err != nil {
				return false
			}
			if stats.CategoriesCount != len(perCategory) || len(stats.ProductsPerCategory) != len(perCategory) {
				return false
			}
			for i, n := range perCategory {
				if stats.ProductsPerCategory[i].Count != n {
					return false
				}
			}
			return stats.ProductsCount == stats.SumPerCategory()
		},
		gen.SliceOfN(4, gen.IntRange(0, 5)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
