package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/outdoor-rental/service-rental/internal/common/domain"
	productDomain "github.com/outdoor-rental/service-rental/internal/domain/product"
)

// ProductRequest is the create/replace body for a catalog product.
type ProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Category    string          `json:"category" binding:"required"`
	Description string          `json:"description"`
	PricePerDay decimal.Decimal `json:"price_per_day"`
	Stock       int             `json:"stock"`
	Images      []string        `json:"images"`
	Brand       *string         `json:"brand"`
	Capacity    *string         `json:"capacity"`
}

// ProductDTO is the API response representation of a product.
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	PricePerDay decimal.Decimal `json:"price_per_day"`
	Stock       int             `json:"stock"`
	Images      []string        `json:"images"`
	Brand       *string         `json:"brand,omitempty"`
	Capacity    *string         `json:"capacity,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductService implements catalog use cases.
type ProductService struct {
	repo   productDomain.ProductRepository
	logger *zap.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(repo productDomain.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{repo: repo, logger: logger}
}

// ListProducts returns products matching filter.
func (s *ProductService) ListProducts(ctx context.Context, filter productDomain.Filter) ([]ProductDTO, error) {
	products, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	dtos := make([]ProductDTO, len(products))
	for i, p := range products {
		dtos[i] = toProductDTO(p)
	}
	return dtos, nil
}

// GetProduct returns a product by its raw identifier. Malformed identifiers
// are reported the same way as unknown ones.
func (s *ProductService) GetProduct(ctx context.Context, rawID string) (*ProductDTO, error) {
	id, err := parseProductID(rawID)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toProductDTO(p)
	return &dto, nil
}

// CreateProduct adds a product to the catalog (admin).
func (s *ProductService) CreateProduct(ctx context.Context, req ProductRequest) (*ProductDTO, error) {
	p, err := productDomain.NewProduct(req.attributes())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	s.logger.Info("product created",
		zap.String("product_id", p.ID().String()),
		zap.String("name", p.Name()),
	)
	dto := toProductDTO(p)
	return &dto, nil
}

// UpdateProduct replaces every editable field of a product (admin).
func (s *ProductService) UpdateProduct(ctx context.Context, rawID string, req ProductRequest) (*ProductDTO, error) {
	id, err := parseProductID(rawID)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.Replace(req.attributes()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("product updated", zap.String("product_id", id.String()))
	dto := toProductDTO(p)
	return &dto, nil
}

// DeleteProduct removes a product (admin). Existing bookings keep their
// items; enrichment simply leaves them blank afterwards.
func (s *ProductService) DeleteProduct(ctx context.Context, rawID string) error {
	id, err := parseProductID(rawID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("product deleted", zap.String("product_id", id.String()))
	return nil
}

func (r ProductRequest) attributes() productDomain.Attributes {
	return productDomain.Attributes{
		Name:        r.Name,
		Category:    r.Category,
		Description: r.Description,
		PricePerDay: r.PricePerDay,
		Stock:       r.Stock,
		Images:      r.Images,
		Brand:       r.Brand,
		Capacity:    r.Capacity,
	}
}

func parseProductID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.NewNotFoundError("Product", raw)
	}
	return id, nil
}

func toProductDTO(p *productDomain.Product) ProductDTO {
	images := p.Images()
	if images == nil {
		images = []string{}
	}
	return ProductDTO{
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
