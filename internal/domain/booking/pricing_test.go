package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outdoor-rental/service-rental/internal/common/domain"
	"github.com/outdoor-rental/service-rental/internal/domain/product"
)

type stubCatalog struct {
	products map[uuid.UUID]*product.Product
	err      error
	lookups  int
}

func (s *stubCatalog) FindByID(_ context.Context, id uuid.UUID) (*product.Product, error) {
	s.lookups++
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.products[id]
	if !ok {
		return nil, domain.NewNotFoundError("Product", id.String())
	}
	return p, nil
}

func newCatalogProduct(name string, price int64, stock int) *product.Product {
	return product.Reconstruct(uuid.New(), product.Attributes{
		Name:        name,
		Category:    "tenda",
		PricePerDay: decimal.NewFromInt(price),
		Stock:       stock,
	}, time.Now(), time.Now())
}

func mustPeriod(t *testing.T, start, end string) RentalPeriod {
	t.Helper()
	p, err := ParseRentalPeriod(start, end)
	require.NoError(t, err)
	return p
}

func TestDailyRatePricing_Calculate(t *testing.T) {
	tent := newCatalogProduct("Tenda Dome 4P", 100000, 5)
	stove := newCatalogProduct("Kompor Portable", 25000, 10)
	catalog := &stubCatalog{products: map[uuid.UUID]*product.Product{
		tent.ID():  tent,
		stove.ID(): stove,
	}}
	pricing := NewDailyRatePricing(catalog)

	t.Run("single item multiplies price, quantity and days", func(t *testing.T) {
		quote, err := pricing.Calculate(context.Background(), PricingParams{
			Items:  []ItemRequest{{ProductID: tent.ID().String(), Quantity: 2}},
			Period: mustPeriod(t, "2024-06-01", "2024-06-03"),
		})
		require.NoError(t, err)
		assert.Equal(t, 2, quote.Days)
		assert.True(t, decimal.NewFromInt(400000).Equal(quote.Total), "got %s", quote.Total)
		require.Len(t, quote.Lines, 1)
		assert.Equal(t, "Tenda Dome 4P", quote.Lines[0].ProductName)
	})

	t.Run("multiple items are summed", func(t *testing.T) {
		quote, err := pricing.Calculate(context.Background(), PricingParams{
			Items: []ItemRequest{
				{ProductID: tent.ID().String(), Quantity: 1},
				{ProductID: stove.ID().String(), Quantity: 3},
			},
			Period: mustPeriod(t, "2024-06-01", "2024-06-04"),
		})
		require.NoError(t, err)
		// 100000*1*3 + 25000*3*3
		assert.True(t, decimal.NewFromInt(525000).Equal(quote.Total), "got %s", quote.Total)
	})

	t.Run("stock equal to quantity is enough", func(t *testing.T) {
		_, err := pricing.Calculate(context.Background(), PricingParams{
			Items:  []ItemRequest{{ProductID: tent.ID().String(), Quantity: 5}},
			Period: mustPeriod(t, "2024-06-01", "2024-06-02"),
		})
		assert.NoError(t, err)
	})

	t.Run("insufficient stock names the product", func(t *testing.T) {
		_, err := pricing.Calculate(context.Background(), PricingParams{
			Items:  []ItemRequest{{ProductID: tent.ID().String(), Quantity: 6}},
			Period: mustPeriod(t, "2024-06-01", "2024-06-03"),
		})
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.KindValidation))
		assert.Contains(t, err.Error(), "Tenda Dome 4P")
	})

	t.Run("unknown product is not found", func(t *testing.T) {
		missing := uuid.New()
		_, err := pricing.Calculate(context.Background(), PricingParams{
			Items:  []ItemRequest{{ProductID: missing.String(), Quantity: 1}},
			Period: mustPeriod(t, "2024-06-01", "2024-06-03"),
		})
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.KindNotFound))
		assert.Contains(t, err.Error(), missing.String())
	})

	t.Run("first failing item wins", func(t *testing.T) {
		missing := uuid.New()
		_, err := pricing.Calculate(context.Background(), PricingParams{
			Items: []ItemRequest{
				{ProductID: tent.ID().String(), Quantity: 99},
				{ProductID: missing.String(), Quantity: 1},
			},
			Period: mustPeriod(t, "2024-06-01", "2024-06-03"),
		})
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.KindValidation))
	})

	t.Run("short stock ahead of a malformed ID wins", func(t *testing.T) {
		c := &stubCatalog{products: catalog.products}
		_, err := NewDailyRatePricing(c).Calculate(context.Background(), PricingParams{
			Items: []ItemRequest{
				{ProductID: tent.ID().String(), Quantity: 99},
				{ProductID: "not-a-uuid", Quantity: 1},
			},
			Period: mustPeriod(t, "2024-06-01", "2024-06-03"),
		})
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.KindValidation), "got %v", err)
		assert.Contains(t, err.Error(), "insufficient stock")
		assert.Equal(t, 1, c.lookups)
	})

	t.Run("malformed ID is not found and names the raw value", func(t *testing.T) {
		_, err := pricing.Calculate(context.Background(), PricingParams{
			Items: []ItemRequest{
				{ProductID: "not-a-uuid", Quantity: 1},
				{ProductID: tent.ID().String(), Quantity: 99},
			},
			Period: mustPeriod(t, "2024-06-01", "2024-06-03"),
		})
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.KindNotFound))
		assert.Contains(t, err.Error(), "not-a-uuid")
	})

	t.Run("quote lines carry resolved items in order", func(t *testing.T) {
		quote, err := pricing.Calculate(context.Background(), PricingParams{
			Items: []ItemRequest{
				{ProductID: stove.ID().String(), Quantity: 2},
				{ProductID: tent.ID().String(), Quantity: 1},
			},
			Period: mustPeriod(t, "2024-06-01", "2024-06-02"),
		})
		require.NoError(t, err)
		assert.Equal(t, []Item{
			{ProductID: stove.ID(), Quantity: 2},
			{ProductID: tent.ID(), Quantity: 1},
		}, quote.Items())
	})

	t.Run("zero quantity is rejected", func(t *testing.T) {
		_, err := pricing.Calculate(context.Background(), PricingParams{
			Items:  []ItemRequest{{ProductID: tent.ID().String(), Quantity: 0}},
			Period: mustPeriod(t, "2024-06-01", "2024-06-03"),
		})
		assert.True(t, domain.IsKind(err, domain.KindValidation))
	})

	t.Run("empty item list is rejected", func(t *testing.T) {
		_, err := pricing.Calculate(context.Background(), PricingParams{
			Period: mustPeriod(t, "2024-06-01", "2024-06-03"),
		})
		assert.True(t, domain.IsKind(err, domain.KindValidation))
	})

	t.Run("zero-day period is rejected before any lookup", func(t *testing.T) {
		c := &stubCatalog{products: catalog.products}
		_, err := NewDailyRatePricing(c).Calculate(context.Background(), PricingParams{
			Items:  []ItemRequest{{ProductID: tent.ID().String(), Quantity: 1}},
			Period: RentalPeriod{},
		})
		assert.True(t, domain.IsKind(err, domain.KindValidation))
		assert.Zero(t, c.lookups)
	})

	t.Run("store failures propagate", func(t *testing.T) {
		boom := errors.New("connection reset")
		_, err := NewDailyRatePricing(&stubCatalog{err: boom}).Calculate(context.Background(), PricingParams{
			Items:  []ItemRequest{{ProductID: tent.ID().String(), Quantity: 1}},
			Period: mustPeriod(t, "2024-06-01", "2024-06-03"),
		})
		assert.ErrorIs(t, err, boom)
	})
}

func TestDailyRatePricing_ExactDecimal(t *testing.T) {
	p := product.Reconstruct(uuid.New(), product.Attributes{
		Name:        "Headlamp",
		Category:    "lighting",
		PricePerDay: decimal.RequireFromString("12500.50"),
		Stock:       3,
	}, time.Now(), time.Now())
	catalog := &stubCatalog{products: map[uuid.UUID]*product.Product{p.ID(): p}}

	quote, err := NewDailyRatePricing(catalog).Calculate(context.Background(), PricingParams{
		Items:  []ItemRequest{{ProductID: p.ID().String(), Quantity: 3}},
		Period: mustPeriod(t, "2024-01-30", "2024-02-02"),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, quote.Days)
	assert.Equal(t, "112504.5", quote.Total.String())
}
