// Package product describes the farm-goods catalog. The order flow only
// reads it; mutation is an admin concern.
package product

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// ErrInvalidCategory is returned when a category is outside the known set.
var ErrInvalidCategory = errors.New("category must be one of: meat, vegetable")

// Category classifies a catalog item.
type Category string

const (
	CategoryMeat      Category = "meat"
	CategoryVegetable Category = "vegetable"
)

// Valid reports whether the category is one of the known values.
func (c Category) Valid() bool {
	return c == CategoryMeat || c == CategoryVegetable
}

// Product is a catalog item. Stock is informational only: the order flow
// never debits it.
type Product struct {
	ID          string
	Name        string
	Category    Category
	Price       decimal.Decimal
	Description string
	Stock       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Category Category
	// Search matches name or description, case-insensitively.
	Search string
}

// Repository defines catalog operations. Reads are used by the order flow;
// writes are admin-only and gated at the HTTP layer.
type Repository interface {
	List(ctx context.Context, f Filter) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
}
