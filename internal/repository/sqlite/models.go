package sqlite

import (
	"time"

	"stationery-catalog/internal/domain"

	"github.com/google/uuid"
)

// Table shapes of the offline mirror. They replicate the server schema.

type categoryModel struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Name      string    `gorm:"size:50;not null;uniqueIndex:idx_categories_name"`
	Icon      *string   `gorm:"size:50"`
	CreatedAt time.Time `gorm:"not null;index"`
}

func (categoryModel) TableName() string { return "categories" }

type productModel struct {
	ID         string        `gorm:"primaryKey;size:36"`
	Name       string        `gorm:"size:100;not null"`
	Price      float64       `gorm:"not null"`
	CategoryID string        `gorm:"size:36;not null;index"`
	Category   categoryModel `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
	Image      *string
	Rating     float64   `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null;index"`
}

func (productModel) TableName() string { return "products" }

type adModel struct {
	ID          string `gorm:"primaryKey;size:36"`
	Title       string `gorm:"size:100;not null"`
	Description string `gorm:"not null"`
	Icon        *string
	CreatedAt   time.Time `gorm:"not null"`
}

func (adModel) TableName() string { return "ads" }

type offerModel struct {
	ID        string `gorm:"primaryKey;size:36"`
	Title     string `gorm:"size:100;not null"`
	Discount  string `gorm:"size:100;not null"`
	Icon      *string
	CreatedAt time.Time `gorm:"not null"`
}

func (offerModel) TableName() string { return "offers" }

type orderModel struct {
	ID          string    `gorm:"primaryKey;size:36"`
	TotalAmount float64   `gorm:"not null"`
	ItemsCount  int       `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null;index"`
}

func (orderModel) TableName() string { return "orders" }

// adminModel stores a bcrypt hash, never the plaintext password.
type adminModel struct {
	ID           string  `gorm:"primaryKey;size:36"`
	Username     string  `gorm:"size:50;not null;uniqueIndex:idx_admins_username"`
	PasswordHash string  `gorm:"size:200;not null"`
	Email        *string `gorm:"size:100"`
}

func (adminModel) TableName() string { return "admins" }

func allModels() []interface{} {
	return []interface{}{
		&categoryModel{},
		&productModel{},
		&adModel{},
		&offerModel{},
		&orderModel{},
		&adminModel{},
	}
}

// Conversions. Stored ids are always written from a uuid.UUID, so parsing cannot fail
// on data this package wrote; uuid.Nil marks a foreign row.

func parseID(id string) uuid.UUID {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil
	}
	return parsed
}

func toCategory(m *categoryModel) *domain.Category {
	return &domain.Category{
		ID:        parseID(m.ID),
		Name:      m.Name,
		Icon:      m.Icon,
		CreatedAt: m.CreatedAt,
	}
}

func fromCategory(c *domain.Category) *categoryModel {
	return &categoryModel{
		ID:        c.ID.String(),
		Name:      c.Name,
		Icon:      c.Icon,
		CreatedAt: c.CreatedAt,
	}
}

func toProduct(m *productModel) *domain.Product {
	return &domain.Product{
		ID:           parseID(m.ID),
		Name:         m.Name,
		Price:        m.Price,
		CategoryID:   parseID(m.CategoryID),
		CategoryName: m.Category.Name,
		Image:        m.Image,
		Rating:       m.Rating,
		CreatedAt:    m.CreatedAt,
	}
}

func fromProduct(p *domain.Product) *productModel {
	return &productModel{
		ID:         p.ID.String(),
		Name:       p.Name,
		Price:      p.Price,
		CategoryID: p.CategoryID.String(),
		Image:      p.Image,
		Rating:     p.Rating,
		CreatedAt:  p.CreatedAt,
	}
}

func toAd(m *adModel) *domain.Ad {
	return &domain.Ad{
		ID:          parseID(m.ID),
		Title:       m.Title,
		Description: m.Description,
		Icon:        m.Icon,
		CreatedAt:   m.CreatedAt,
	}
}

func fromAd(a *domain.Ad) *adModel {
	return &adModel{
		ID:          a.ID.String(),
		Title:       a.Title,
		Description: a.Description,
		Icon:        a.Icon,
		CreatedAt:   a.CreatedAt,
	}
}

func toOffer(m *offerModel) *domain.Offer {
	return &domain.Offer{
		ID:        parseID(m.ID),
		Title:     m.Title,
		Discount:  m.Discount,
		Icon:      m.Icon,
		CreatedAt: m.CreatedAt,
	}
}

func fromOffer(o *domain.Offer) *offerModel {
	return &offerModel{
		ID:        o.ID.String(),
		Title:     o.Title,
		Discount:  o.Discount,
		Icon:      o.Icon,
		CreatedAt: o.CreatedAt,
	}
}

func toOrder(m *orderModel) *domain.Order {
	return &domain.Order{
		ID:          parseID(m.ID),
		TotalAmount: m.TotalAmount,
		ItemsCount:  m.ItemsCount,
		CreatedAt:   m.CreatedAt,
	}
}

func toAdmin(m *adminModel) *domain.Admin {
	return &domain.Admin{
		ID:           parseID(m.ID),
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Email:        m.Email,
	}
}
