package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/outdoor-rental/service-rental/internal/common/domain"
	bookingDomain "github.com/outdoor-rental/service-rental/internal/domain/booking"
)

// ActivityDTO is one entry of a booking's audit trail.
type ActivityDTO struct {
	EventID    string     `json:"event_id"`
	EventType  string     `json:"event_type"`
	ActorID    *uuid.UUID `json:"actor_id,omitempty"`
	Status     string     `json:"status,omitempty"`
	Detail     string     `json:"detail,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// ActivityService records and serves the booking audit trail built from
// booking events.
type ActivityService struct {
	repo   bookingDomain.ActivityRepository
	logger *zap.Logger
}

// NewActivityService creates a new ActivityService.
func NewActivityService(repo bookingDomain.ActivityRepository, logger *zap.Logger) *ActivityService {
	return &ActivityService{repo: repo, logger: logger}
}

// Record stores an activity. Redelivered events are ignored.
func (s *ActivityService) Record(ctx context.Context, a *bookingDomain.Activity) error {
	if a.EventID == "" || a.BookingID == uuid.Nil {
		return domain.NewValidationError("activity requires an event ID and a booking ID")
	}
	if err := s.repo.Save(ctx, a); err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	s.logger.Debug("booking activity recorded",
		zap.String("booking_id", a.BookingID.String()),
		zap.String("event_type", a.EventType),
	)
	return nil
}

// GetBookingActivity returns a booking's trail oldest first (admin).
func (s *ActivityService) GetBookingActivity(ctx context.Context, bookingID uuid.UUID) ([]ActivityDTO, error) {
	activities, err := s.repo.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity: %w", err)
	}
	dtos := make([]ActivityDTO, len(activities))
	for i, a := range activities {
		dto := ActivityDTO{
			EventID:    a.EventID,
			EventType:  a.EventType,
			Status:     a.Status,
			Detail:     a.Detail,
			OccurredAt: a.OccurredAt,
		}
		if a.ActorID != uuid.Nil {
			actor := a.ActorID
			dto.ActorID = &actor
		}
		dtos[i] = dto
	}
	return dtos, nil
}
