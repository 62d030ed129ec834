package product

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Filter narrows a catalog listing. Zero values mean "no constraint".
type Filter struct {
	Category string
	Search   string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// Finder is the read-only view of the catalog that pricing depends on.
type Finder interface {
	// FindByID returns the product or a NotFound domain error.
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
}

// ProductRepository defines persistence operations for the catalog.
type ProductRepository interface {
	Finder

	// List returns products matching filter.
	List(ctx context.Context, filter Filter) ([]*Product, error)

	// Count returns the number of products.
	Count(ctx context.Context) (int64, error)

	Save(ctx context.Context, p *Product) error

	// Update overwrites an existing product; NotFound if absent.
	Update(ctx context.Context, p *Product) error

	// Delete removes a product; NotFound if absent.
	Delete(ctx context.Context, id uuid.UUID) error
}
