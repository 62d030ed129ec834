package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/outdoor-rental/service-rental/internal/common/domain"
	productDomain "github.com/outdoor-rental/service-rental/internal/domain/product"
)

const maxProductListing = 1000

// ProductModel is the GORM model for the products table.
type ProductModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string          `gorm:"not null;size:255" json:"name"`
	Category    string          `gorm:"not null;size:100;index" json:"category"`
	Description string          `gorm:"type:text" json:"description"`
	PricePerDay decimal.Decimal `gorm:"type:numeric;not null" json:"price_per_day"`
	Stock       int             `gorm:"not null" json:"stock"`
	Images      pq.StringArray  `gorm:"type:text[]" json:"images"`
	Brand       *string         `gorm:"size:100" json:"brand,omitempty"`
	Capacity    *string         `gorm:"size:100" json:"capacity,omitempty"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`
}

// TableName returns the table name for the GORM model.
func (ProductModel) TableName() string {
	return "products"
}

// GormProductRepository is the GORM-based implementation of ProductRepository.
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository.
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID retrieves a product by ID.
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*productDomain.Product, error) {
	var model ProductModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Product", id.String())
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return toDomainProduct(&model), nil
}

// List returns products matching filter, newest first.
func (r *GormProductRepository) List(ctx context.Context, filter productDomain.Filter) ([]*productDomain.Product, error) {
	query := r.db.WithContext(ctx).Model(&ProductModel{})

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(search) + "%"
		query = query.Where("(name ILIKE ? OR description ILIKE ?)", pattern, pattern)
	}
	if filter.MinPrice != nil {
		query = query.Where("price_per_day >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price_per_day <= ?", *filter.MaxPrice)
	}

	var models []ProductModel
	if err := query.Order("created_at DESC").Limit(maxProductListing).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]*productDomain.Product, len(models))
	for i := range models {
		products[i] = toDomainProduct(&models[i])
	}
	return products, nil
}

// Count returns the number of products.
func (r *GormProductRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&ProductModel{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return total, nil
}

// Save persists a new product.
func (r *GormProductRepository) Save(ctx context.Context, p *productDomain.Product) error {
	if err := r.db.WithContext(ctx).Create(toProductModel(p)).Error; err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}
	return nil
}

// Update overwrites every editable column of an existing product.
func (r *GormProductRepository) Update(ctx context.Context, p *productDomain.Product) error {
	model := toProductModel(p)
	result := r.db.WithContext(ctx).
		Model(&ProductModel{}).
		Where("id = ?", p.ID()).
		Updates(map[string]interface{}{
			"name":          model.Name,
			"category":      model.Category,
			"description":   model.Description,
			"price_per_day": model.PricePerDay,
			"stock":         model.Stock,
			"images":        model.Images,
			"brand":         model.Brand,
			"capacity":      model.Capacity,
			"updated_at":    model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Product", p.ID().String())
	}
	return nil
}

// Delete removes a product.
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&ProductModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Product", id.String())
	}
	return nil
}

// --- Mapping helpers ---

func toProductModel(p *productDomain.Product) *ProductModel {
	images := pq.StringArray(p.Images())
	if images == nil {
		images = pq.StringArray{}
	}
	return &ProductModel{
		ID:          p.ID(),
		Name:        p.Name(),
		Category:    p.Category(),
		Description: p.Description(),
		PricePerDay: p.PricePerDay(),
		Stock:       p.Stock(),
		Images:      images,
		Brand:       p.Brand(),
		Capacity:    p.Capacity(),
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
}

func toDomainProduct(m *ProductModel) *productDomain.Product {
	images := []string(m.Images)
	if images == nil {
		images = []string{}
	}
	return productDomain.Reconstruct(m.ID, productDomain.Attributes{
		Name:        m.Name,
		Category:    m.Category,
		Description: m.Description,
		PricePerDay: m.PricePerDay,
		Stock:       m.Stock,
		Images:      images,
		Brand:       m.Brand,
		Capacity:    m.Capacity,
	}, m.CreatedAt, m.UpdatedAt)
}

// escapeLike escapes LIKE wildcards so the search term matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
