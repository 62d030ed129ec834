package booking

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types published on the booking topic.
const (
	EventBookingCreated       = "rental.booking.created"
	EventBookingStatusChanged = "rental.booking.status_changed"
	EventPaymentProofAttached = "rental.booking.payment_attached"
)

// BookingCreatedEvent is published after a booking is persisted.
type BookingCreatedEvent struct {
	BookingID  uuid.UUID       `json:"booking_id"`
	UserID     uuid.UUID       `json:"user_id"`
	UserEmail  string          `json:"user_email"`
	StartDate  string          `json:"start_date"`
	EndDate    string          `json:"end_date"`
	ItemCount  int             `json:"item_count"`
	TotalPrice decimal.Decimal `json:"total_price"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// BookingStatusChangedEvent is published after an admin status update.
type BookingStatusChangedEvent struct {
	BookingID      uuid.UUID `json:"booking_id"`
	UserID         uuid.UUID `json:"user_id"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	ChangedBy      uuid.UUID `json:"changed_by"`
	InSequence     bool      `json:"in_sequence"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// PaymentProofAttachedEvent is published after a renter uploads payment proof.
type PaymentProofAttachedEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	UserID     uuid.UUID `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
