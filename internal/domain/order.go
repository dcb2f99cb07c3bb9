package domain

import (
	"time"

	"github.com/google/uuid"
)

// Order is an append-only summary of a completed sale. It carries no line items.
type Order struct {
	ID          uuid.UUID `json:"id" db:"id"`
	TotalAmount float64   `json:"total_amount" db:"total_amount"`
	ItemsCount  int       `json:"items_count" db:"items_count"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Admin is the single administrative principal
type Admin struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Email        *string   `json:"email" db:"email"`
}
