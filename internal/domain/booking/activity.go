package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Activity is one entry of a booking's audit trail, derived from a published event.
type Activity struct {
	EventID    string
	BookingID  uuid.UUID
	EventType  string
	ActorID    uuid.UUID
	Status     string
	Detail     string
	OccurredAt time.Time
}

// ActivityRepository stores the audit trail.
type ActivityRepository interface {
	// Save records an activity; re-saving the same EventID is a no-op.
	Save(ctx context.Context, a *Activity) error

	// FindByBookingID returns a booking's activity oldest first.
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*Activity, error)
}
