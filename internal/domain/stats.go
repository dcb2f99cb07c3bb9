package domain

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// StatsSnapshot is the aggregate view returned by the stats operation
type StatsSnapshot struct {
	CategoriesCount     int                    `json:"categories_count"`
	ProductsCount       int                    `json:"products_count"`
	OrdersCount         int                    `json:"orders_count"`
	AdsCount            int                    `json:"ads_count"`
	OffersCount         int                    `json:"offers_count"`
	ProductsPerCategory []CategoryProductCount `json:"products_per_category"`
}

// CategoryProductCount is one row of the per-category product distribution.
// On the wire it is encoded as a [name, count] pair.
type CategoryProductCount struct {
	CategoryID uuid.UUID
	Name       string
	Count      int
}

// MarshalJSON encodes the entry as a two element array
func (c CategoryProductCount) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{c.Name, c.Count})
}

// UnmarshalJSON decodes a [name, count] pair
func (c *CategoryProductCount) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("expected [name, count] pair, got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &c.Name); err != nil {
		return fmt.Errorf("invalid category name: %w", err)
	}
	if err := json.Unmarshal(pair[1], &c.Count); err != nil {
		return fmt.Errorf("invalid product count: %w", err)
	}
	return nil
}

// SumPerCategory adds up the per-category product counts
func (s *StatsSnapshot) SumPerCategory() int {
	total := 0
	for _, c := range s.ProductsPerCategory {
		total += c.Count
	}
	return total
}
