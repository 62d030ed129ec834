package booking

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/outdoor-rental/service-rental/internal/common/domain"
	"github.com/outdoor-rental/service-rental/internal/domain/product"
)

// PricingStrategy defines the interface for pricing a rental request.
type PricingStrategy interface {
	// Calculate validates availability and returns the quote. It has no side effects.
	Calculate(ctx context.Context, params PricingParams) (*Quote, error)
}

// ItemRequest is a requested line as received, before its product ID is resolved.
type ItemRequest struct {
	ProductID string
	Quantity  int
}

// PricingParams holds the inputs for price calculation.
type PricingParams struct {
	Items  []ItemRequest
	Period RentalPeriod
}

// QuoteLine is the priced form of one requested item.
type QuoteLine struct {
	Item        Item
	ProductName string
	PricePerDay decimal.Decimal
	Subtotal    decimal.Decimal
}

// Quote is the result of a successful price calculation.
type Quote struct {
	Days  int
	Lines []QuoteLine
	Total decimal.Decimal
}

// Items returns the resolved items in request order.
func (q *Quote) Items() []Item {
	items := make([]Item, len(q.Lines))
	for i, l := range q.Lines {
		items[i] = l.Item
	}
	return items
}

// DailyRatePricing prices items at the catalog's price per day.
//
// Availability is checked against the product's current stock counter only.
// Bookings never reserve or decrement stock, so two overlapping requests for
// the same product can both pass.
type DailyRatePricing struct {
	catalog product.Finder
}

// NewDailyRatePricing creates a DailyRatePricing reading from catalog.
func NewDailyRatePricing(catalog product.Finder) *DailyRatePricing {
	return &DailyRatePricing{catalog: catalog}
}

// Calculate computes Σ price_per_day × quantity × days in input order,
// failing on the first item that is malformed, missing or short of stock.
func (s *DailyRatePricing) Calculate(ctx context.Context, params PricingParams) (*Quote, error) {
	days := params.Period.Days()
	if days < 1 {
		return nil, NewInvalidDateRangeError(params.Period.Start(), params.Period.End())
	}
	if len(params.Items) == 0 {
		return nil, domain.NewValidationError("at least one item is required")
	}

	quote := &Quote{Days: days, Total: decimal.Zero}
	daysDec := decimal.NewFromInt(int64(days))

	for _, req := range params.Items {
		if req.Quantity < 1 {
			return nil, domain.NewValidationError(fmt.Sprintf("quantity for product %s must be at least 1", req.ProductID))
		}

		// Unparseable IDs fail like a lookup miss.
		id, err := uuid.Parse(req.ProductID)
		if err != nil {
			return nil, domain.NewNotFoundError("Product", req.ProductID)
		}
		p, err := s.catalog.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if !p.HasStockFor(req.Quantity) {
			return nil, NewInsufficientStockError(p.Name(), p.Stock(), req.Quantity)
		}

		item := Item{ProductID: id, Quantity: req.Quantity}

		subtotal := p.PricePerDay().Mul(decimal.NewFromInt(int64(item.Quantity))).Mul(daysDec)
		quote.Lines = append(quote.Lines, QuoteLine{
			Item:        item,
			ProductName: p.Name(),
			PricePerDay: p.PricePerDay(),
			Subtotal:    subtotal,
		})
		quote.Total = quote.Total.Add(subtotal)
	}

	return quote, nil
}

// NewInsufficientStockError reports a request exceeding catalog stock.
func NewInsufficientStockError(productName string, available, requested int) error {
	return domain.NewValidationError(fmt.Sprintf(
		"insufficient stock for %s: requested %d, available %d",
		productName, requested, available,
	))
}
