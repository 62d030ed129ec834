package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/outdoor-rental/service-rental/internal/common/domain"
	"github.com/outdoor-rental/service-rental/internal/common/kafka"
	bookingDomain "github.com/outdoor-rental/service-rental/internal/domain/booking"
	productDomain "github.com/outdoor-rental/service-rental/internal/domain/product"
	userDomain "github.com/outdoor-rental/service-rental/internal/domain/user"
)

func init() {
	// Money is rendered as a JSON number, not a quoted string.
	decimal.MarshalJSONWithoutQuotes = true
}

const eventSource = "service-rental"

// BookingItemRequest is one requested product line.
type BookingItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	Items     []BookingItemRequest `json:"items" binding:"required"`
	StartDate string               `json:"start_date" binding:"required"`
	EndDate   string               `json:"end_date" binding:"required"`
	Note      string               `json:"note"`
}

// UpdateStatusRequest is the admin status update body.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// PaymentProofRequest is the payment proof upload body.
type PaymentProofRequest struct {
	ProofBase64 string `json:"bukti_transfer_base64" binding:"required"`
}

// BookingItemDTO is a booking line enriched with live catalog fields.
type BookingItemDTO struct {
	ProductID    uuid.UUID `json:"product_id"`
	Quantity     int       `json:"quantity"`
	ProductName  string    `json:"product_name,omitempty"`
	ProductImage string    `json:"product_image,omitempty"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID               uuid.UUID        `json:"id"`
	UserID           uuid.UUID        `json:"user_id"`
	UserEmail        string           `json:"user_email"`
	UserName         string           `json:"user_name"`
	Items            []BookingItemDTO `json:"items"`
	StartDate        string           `json:"start_date"`
	EndDate          string           `json:"end_date"`
	RentalDays       int              `json:"rental_days"`
	TotalPrice       decimal.Decimal  `json:"total_price"`
	Status           string           `json:"status"`
	PaymentProof     *string          `json:"payment_proof,omitempty"`
	IdentityDocument *string          `json:"identity_document,omitempty"`
	Note             *string          `json:"note,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// QuoteDTO is the response of a speculative price calculation.
type QuoteDTO struct {
	RentalDays int             `json:"days"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Lines      []QuoteLineDTO  `json:"lines"`
}

// QuoteLineDTO is one priced line of a quote.
type QuoteLineDTO struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	PricePerDay decimal.Decimal `json:"price_per_day"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// BookingService is the application service orchestrating booking use cases.
type BookingService struct {
	repo      bookingDomain.BookingRepository
	products  productDomain.Finder
	users     userDomain.UserRepository
	pricing   bookingDomain.PricingStrategy
	publisher kafka.Publisher
	topic     string
	logger    *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	repo bookingDomain.BookingRepository,
	products productDomain.Finder,
	users userDomain.UserRepository,
	pricing bookingDomain.PricingStrategy,
	publisher kafka.Publisher,
	topic string,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:      repo,
		products:  products,
		users:     users,
		pricing:   pricing,
		publisher: publisher,
		topic:     topic,
		logger:    logger,
	}
}

// Quote prices a request without persisting anything.
func (s *BookingService) Quote(ctx context.Context, req CreateBookingRequest) (*QuoteDTO, error) {
	params, err := buildPricingParams(req)
	if err != nil {
		return nil, err
	}
	quote, err := s.pricing.Calculate(ctx, params)
	if err != nil {
		return nil, err
	}
	return toQuoteDTO(quote), nil
}

// CreateBooking prices the request and persists a pending booking for userID.
// Pricing failures are returned unchanged.
func (s *BookingService) CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil, domain.NewUnauthorizedError("user not found")
		}
		return nil, err
	}

	params, err := buildPricingParams(req)
	if err != nil {
		return nil, err
	}

	quote, err := s.pricing.Calculate(ctx, params)
	if err != nil {
		return nil, err
	}

	renter := bookingDomain.Renter{
		UserID:           u.ID(),
		Email:            u.Email(),
		Name:             u.Name(),
		IdentityDocument: u.IdentityDocument(),
	}
	bk, err := bookingDomain.NewBooking(renter, quote.Items(), params.Period, quote, req.Note)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, bk); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	s.logger.Info("booking created",
		zap.String("booking_id", bk.ID().String()),
		zap.String("user_id", userID.String()),
		zap.Int("rental_days", quote.Days),
		zap.String("total_price", bk.TotalPrice().String()),
	)

	s.publishEvent(ctx, bookingDomain.EventBookingCreated, bk.ID().String(), bookingDomain.BookingCreatedEvent{
		BookingID:  bk.ID(),
		UserID:     bk.UserID(),
		UserEmail:  bk.Renter().Email,
		StartDate:  bk.Period().Start().Format(bookingDomain.DateLayout),
		EndDate:    bk.Period().End().Format(bookingDomain.DateLayout),
		ItemCount:  len(bk.Items()),
		TotalPrice: bk.TotalPrice(),
		OccurredAt: time.Now().UTC(),
	})

	result := toBookingDTO(bk)
	return &result, nil
}

// GetUserBookings returns the user's bookings, newest first, enriched with
// current catalog data.
func (s *BookingService) GetUserBookings(ctx context.Context, userID uuid.UUID) ([]BookingDTO, error) {
	bookings, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, bookings)
}

// ListAllBookings returns every booking, newest first, enriched (admin).
func (s *BookingService) ListAllBookings(ctx context.Context) ([]BookingDTO, error) {
	bookings, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return s.enrich(ctx, bookings)
}

// GetBooking returns one enriched booking. Non-admins only see their own.
func (s *BookingService) GetBooking(ctx context.Context, bookingID, userID uuid.UUID, isAdmin bool) (*BookingDTO, error) {
	var (
		bk  *bookingDomain.Booking
		err error
	)
	if isAdmin {
		bk, err = s.repo.FindByID(ctx, bookingID)
	} else {
		bk, err = s.repo.FindByIDForUser(ctx, bookingID, userID)
	}
	if err != nil {
		return nil, err
	}

	dtos, err := s.enrich(ctx, []*bookingDomain.Booking{bk})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

// UpdateStatus overwrites a booking's status (admin). Any defined status may
// be set from any other; out-of-sequence changes are logged.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID, adminID uuid.UUID, rawStatus string) error {
	status, err := bookingDomain.ParseBookingStatus(rawStatus)
	if err != nil {
		return err
	}

	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}

	previous := bk.Status()
	inSequence, err := bk.SetStatus(status)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateStatus(ctx, bk); err != nil {
		return err
	}

	fields := []zap.Field{
		zap.String("booking_id", bookingID.String()),
		zap.String("from", previous.String()),
		zap.String("to", status.String()),
		zap.String("admin_id", adminID.String()),
	}
	if inSequence {
		s.logger.Info("booking status updated", fields...)
	} else {
		s.logger.Warn("booking status set outside the rental flow", fields...)
	}

	s.publishEvent(ctx, bookingDomain.EventBookingStatusChanged, bookingID.String(), bookingDomain.BookingStatusChangedEvent{
		BookingID:      bookingID,
		UserID:         bk.UserID(),
		PreviousStatus: previous.String(),
		NewStatus:      status.String(),
		ChangedBy:      adminID,
		InSequence:     inSequence,
		OccurredAt:     time.Now().UTC(),
	})
	return nil
}

// AttachPaymentProof stores proof on a booking owned by userID, replacing any
// earlier proof. A booking owned by someone else is reported as not found.
func (s *BookingService) AttachPaymentProof(ctx context.Context, bookingID, userID uuid.UUID, proof string) error {
	bk, err := s.repo.FindByIDForUser(ctx, bookingID, userID)
	if err != nil {
		return err
	}

	if err := bk.AttachPaymentProof(proof); err != nil {
		return err
	}

	if err := s.repo.UpdatePaymentProof(ctx, bk); err != nil {
		return err
	}

	s.logger.Info("payment proof attached",
		zap.String("booking_id", bookingID.String()),
		zap.String("user_id", userID.String()),
	)

	s.publishEvent(ctx, bookingDomain.EventPaymentProofAttached, bookingID.String(), bookingDomain.PaymentProofAttachedEvent{
		BookingID:  bookingID,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

// --- Helpers ---

// enrich converts bookings to DTOs, filling each item with the product's
// current name and first image. Products that no longer exist are left blank.
func (s *BookingService) enrich(ctx context.Context, bookings []*bookingDomain.Booking) ([]BookingDTO, error) {
	seen := make(map[uuid.UUID]*productDomain.Product)
	dtos := make([]BookingDTO, len(bookings))

	for i, bk := range bookings {
		dto := toBookingDTO(bk)
		for j := range dto.Items {
			id := dto.Items[j].ProductID
			p, cached := seen[id]
			if !cached {
				found, err := s.products.FindByID(ctx, id)
				if err != nil && !domain.IsKind(err, domain.KindNotFound) {
					return nil, fmt.Errorf("failed to enrich booking %s: %w", bk.ID(), err)
				}
				p = found
				seen[id] = p
			}
			if p != nil {
				dto.Items[j].ProductName = p.Name()
				dto.Items[j].ProductImage = p.PrimaryImage()
			}
		}
		dtos[i] = dto
	}
	return dtos, nil
}

func buildPricingParams(req CreateBookingRequest) (bookingDomain.PricingParams, error) {
	period, err := bookingDomain.ParseRentalPeriod(req.StartDate, req.EndDate)
	if err != nil {
		return bookingDomain.PricingParams{}, err
	}
	if len(req.Items) == 0 {
		return bookingDomain.PricingParams{}, domain.NewValidationError("at least one item is required")
	}

	items := make([]bookingDomain.ItemRequest, len(req.Items))
	for i, it := range req.Items {
		items[i] = bookingDomain.ItemRequest{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	return bookingDomain.PricingParams{Items: items, Period: period}, nil
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	items := make([]BookingItemDTO, len(bk.Items()))
	for i, it := range bk.Items() {
		items[i] = BookingItemDTO{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	renter := bk.Renter()
	return BookingDTO{
		ID:               bk.ID(),
		UserID:           renter.UserID,
		UserEmail:        renter.Email,
		UserName:         renter.Name,
		Items:            items,
		StartDate:        bk.Period().Start().Format(bookingDomain.DateLayout),
		EndDate:          bk.Period().End().Format(bookingDomain.DateLayout),
		RentalDays:       bk.Period().Days(),
		TotalPrice:       bk.TotalPrice(),
		Status:           bk.Status().String(),
		PaymentProof:     bk.PaymentProof(),
		IdentityDocument: renter.IdentityDocument,
		Note:             bk.Note(),
		CreatedAt:        bk.CreatedAt(),
		UpdatedAt:        bk.UpdatedAt(),
	}
}

func toQuoteDTO(q *bookingDomain.Quote) *QuoteDTO {
	lines := make([]QuoteLineDTO, len(q.Lines))
	for i, l := range q.Lines {
		lines[i] = QuoteLineDTO{
			ProductID:   l.Item.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Item.Quantity,
			PricePerDay: l.PricePerDay,
			Subtotal:    l.Subtotal,
		}
	}
	return &QuoteDTO{RentalDays: q.Days, TotalPrice: q.Total, Lines: lines}
}

func (s *BookingService) publishEvent(ctx context.Context, eventType, key string, data interface{}) {
	cloudEvent, err := kafka.NewCloudEvent(eventSource, eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	cloudEvent.Subject = key

	if err := s.publisher.PublishEvent(ctx, s.topic, key, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", s.topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
