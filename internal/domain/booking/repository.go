package booking

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingRepository defines the persistence contract for booking aggregates.
// Listings are ordered by creation time, newest first.
type BookingRepository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByIDForUser retrieves a booking only if it belongs to userID.
	FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*Booking, error)

	// FindByUserID retrieves every booking of a user.
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*Booking, error)

	// ListAll retrieves every booking (admin).
	ListAll(ctx context.Context) ([]*Booking, error)

	// ListRecent retrieves the newest limit bookings.
	ListRecent(ctx context.Context, limit int) ([]*Booking, error)

	// Count returns the number of bookings.
	Count(ctx context.Context) (int64, error)

	// CountByStatus returns booking counts grouped by status.
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// SumTotalByStatus sums total prices of bookings in any of statuses.
	SumTotalByStatus(ctx context.Context, statuses []BookingStatus) (decimal.Decimal, error)

	// Save persists a new booking.
	Save(ctx context.Context, booking *Booking) error

	// UpdateStatus overwrites the status; NotFound if no row matched.
	UpdateStatus(ctx context.Context, booking *Booking) error

	// UpdatePaymentProof overwrites the proof of a booking owned by the
	// booking's user; NotFound if no row matched.
	UpdatePaymentProof(ctx context.Context, booking *Booking) error
}
