package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. The order workflow reads it for price,
// name and image snapshots; it never mutates products.
type Product struct {
	ID          string          `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description,omitempty"`
	Price       decimal.Decimal `db:"price" json:"price"`
	ImageURL    string          `db:"image_url" json:"imageUrl,omitempty"`
	Stock       int             `db:"stock" json:"stock"`
	CategoryID  string          `db:"category_id" json:"categoryId"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
}

// NewProduct creates a product with a fresh identifier and timestamps
func NewProduct(name, description string, price decimal.Decimal, imageURL string, stock int, categoryID string) *Product {
	now := GetCurrentTime()

	return &Product{
		ID:          GenerateID("prd"),
		Name:        name,
		Description: description,
		Price:       price,
		ImageURL:    imageURL,
		Stock:       stock,
		CategoryID:  categoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
