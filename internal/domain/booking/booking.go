package booking

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/outdoor-rental/service-rental/internal/common/domain"
)

// Item is one requested product line of a booking.
type Item struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// Renter is the snapshot of the booking user taken at creation time.
type Renter struct {
	UserID           uuid.UUID
	Email            string
	Name             string
	IdentityDocument *string
}

// Booking is the aggregate root for the booking domain.
type Booking struct {
	id           uuid.UUID
	renter       Renter
	items        []Item
	period       RentalPeriod
	totalPrice   decimal.Decimal
	status       BookingStatus
	paymentProof *string
	note         *string
	createdAt    time.Time
	updatedAt    time.Time
}

// NewBooking creates a new Booking aggregate with status=pending.
// The total comes from a Quote and is never recomputed.
func NewBooking(renter Renter, items []Item, period RentalPeriod, quote *Quote, note string) (*Booking, error) {
	if renter.UserID == uuid.Nil {
		return nil, domain.NewValidationError("user ID is required")
	}
	if len(items) == 0 {
		return nil, domain.NewValidationError("at least one item is required")
	}
	if period.Days() < 1 {
		return nil, NewInvalidDateRangeError(period.Start(), period.End())
	}
	if quote == nil || quote.Total.IsNegative() {
		return nil, domain.NewValidationError("a valid price quote is required")
	}

	var notePtr *string
	if n := strings.TrimSpace(note); n != "" {
		notePtr = &n
	}

	now := time.Now().UTC()
	return &Booking{
		id:         uuid.New(),
		renter:     renter,
		items:      append([]Item(nil), items...),
		period:     period,
		totalPrice: quote.Total,
		status:     StatusPending,
		note:       notePtr,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id uuid.UUID,
	renter Renter,
	items []Item,
	start, end time.Time,
	totalPrice decimal.Decimal,
	status BookingStatus,
	paymentProof *string,
	note *string,
	createdAt time.Time,
	updatedAt time.Time,
) *Booking {
	return &Booking{
		id:           id,
		renter:       renter,
		items:        items,
		period:       RentalPeriod{start: truncateToDate(start), end: truncateToDate(end)},
		totalPrice:   totalPrice,
		status:       status,
		paymentProof: paymentProof,
		note:         note,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// UserID returns the owning user's ID.
func (b *Booking) UserID() uuid.UUID { return b.renter.UserID }

// Renter returns the user snapshot taken at creation.
func (b *Booking) Renter() Renter { return b.renter }

// Items returns the requested items in order.
func (b *Booking) Items() []Item { return b.items }

// Period returns the rental period.
func (b *Booking) Period() RentalPeriod { return b.period }

// TotalPrice returns the total computed at creation.
func (b *Booking) TotalPrice() decimal.Decimal { return b.totalPrice }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// PaymentProof returns the payment proof blob, if attached.
func (b *Booking) PaymentProof() *string { return b.paymentProof }

// Note returns the renter's note, if any.
func (b *Booking) Note() *string { return b.note }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// IsOwnedBy reports whether the booking belongs to userID.
func (b *Booking) IsOwnedBy(userID uuid.UUID) bool {
	return b.renter.UserID == userID
}

// SetStatus overwrites the status. Any of the five statuses may be set from
// any other; the returned flag reports whether the change follows the rental
// flow so callers can surface out-of-sequence admin edits.
func (b *Booking) SetStatus(status BookingStatus) (inSequence bool, err error) {
	if !status.IsValid() {
		return false, domain.NewValidationError("invalid booking status: " + string(status))
	}
	inSequence = b.status == status || b.status.CanTransitionTo(status)
	b.status = status
	b.updatedAt = time.Now().UTC()
	return inSequence, nil
}

// AttachPaymentProof stores the proof blob, replacing any previous one.
func (b *Booking) AttachPaymentProof(blob string) error {
	if strings.TrimSpace(blob) == "" {
		return domain.NewValidationError("payment proof is required")
	}
	b.paymentProof = &blob
	b.updatedAt = time.Now().UTC()
	return nil
}
