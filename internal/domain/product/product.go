package product

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/outdoor-rental/service-rental/internal/common/domain"
)

// Attributes are the admin-editable fields of a product.
type Attributes struct {
	Name        string
	Category    string
	Description string
	PricePerDay decimal.Decimal
	Stock       int
	Images      []string
	Brand       *string
	Capacity    *string
}

func (a Attributes) validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return domain.NewValidationError("product name is required")
	}
	if strings.TrimSpace(a.Category) == "" {
		return domain.NewValidationError("product category is required")
	}
	if a.PricePerDay.IsNegative() {
		return domain.NewValidationError("price per day cannot be negative")
	}
	if a.Stock < 0 {
		return domain.NewValidationError("stock cannot be negative")
	}
	return nil
}

// Product is a rentable catalog item.
type Product struct {
	id        uuid.UUID
	attrs     Attributes
	createdAt time.Time
	updatedAt time.Time
}

// NewProduct validates attrs and creates a Product.
func NewProduct(attrs Attributes) (*Product, error) {
	if err := attrs.validate(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Product{
		id:        uuid.New(),
		attrs:     normalize(attrs),
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a Product from persistence data (no validation).
func Reconstruct(id uuid.UUID, attrs Attributes, createdAt, updatedAt time.Time) *Product {
	return &Product{id: id, attrs: attrs, createdAt: createdAt, updatedAt: updatedAt}
}

func (p *Product) ID() uuid.UUID                { return p.id }
func (p *Product) Name() string                 { return p.attrs.Name }
func (p *Product) Category() string             { return p.attrs.Category }
func (p *Product) Description() string          { return p.attrs.Description }
func (p *Product) PricePerDay() decimal.Decimal { return p.attrs.PricePerDay }
func (p *Product) Stock() int                   { return p.attrs.Stock }
func (p *Product) Images() []string             { return p.attrs.Images }
func (p *Product) Brand() *string               { return p.attrs.Brand }
func (p *Product) Capacity() *string            { return p.attrs.Capacity }
func (p *Product) CreatedAt() time.Time         { return p.createdAt }
func (p *Product) UpdatedAt() time.Time         { return p.updatedAt }

// PrimaryImage returns the first image reference, or "" if there is none.
func (p *Product) PrimaryImage() string {
	if len(p.attrs.Images) == 0 {
		return ""
	}
	return p.attrs.Images[0]
}

// HasStockFor reports whether the catalog stock covers quantity.
func (p *Product) HasStockFor(quantity int) bool {
	return p.attrs.Stock >= quantity
}

// Replace overwrites every editable field.
func (p *Product) Replace(attrs Attributes) error {
	if err := attrs.validate(); err != nil {
		return err
	}
	p.attrs = normalize(attrs)
	p.updatedAt = time.Now().UTC()
	return nil
}

func normalize(a Attributes) Attributes {
	a.Name = strings.TrimSpace(a.Name)
	a.Category = strings.TrimSpace(a.Category)
	if a.Images == nil {
		a.Images = []string{}
	}
	return a
}
