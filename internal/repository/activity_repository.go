package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	bookingDomain "github.com/outdoor-rental/service-rental/internal/domain/booking"
)

// BookingActivityModel is the GORM model for the booking_activities table.
type BookingActivityModel struct {
	EventID    string     `gorm:"primaryKey;size:64"`
	BookingID  uuid.UUID  `gorm:"type:uuid;index;not null"`
	EventType  string     `gorm:"not null;size:64"`
	ActorID    *uuid.UUID `gorm:"type:uuid"`
	Status     string     `gorm:"size:20"`
	Detail     string     `gorm:"type:text"`
	OccurredAt time.Time  `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingActivityModel) TableName() string {
	return "booking_activities"
}

// GormActivityRepository is the GORM-based implementation of ActivityRepository.
type GormActivityRepository struct {
	db *gorm.DB
}

// NewGormActivityRepository creates a new GormActivityRepository.
func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{db: db}
}

// Save inserts an activity, ignoring an event already recorded.
func (r *GormActivityRepository) Save(ctx context.Context, a *bookingDomain.Activity) error {
	model := &BookingActivityModel{
		EventID:    a.EventID,
		BookingID:  a.BookingID,
		EventType:  a.EventType,
		Status:     a.Status,
		Detail:     a.Detail,
		OccurredAt: a.OccurredAt,
	}
	if a.ActorID != uuid.Nil {
		actor := a.ActorID
		model.ActorID = &actor
	}

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(model).Error; err != nil {
		return fmt.Errorf("failed to save booking activity: %w", err)
	}
	return nil
}

// FindByBookingID returns a booking's activity oldest first.
func (r *GormActivityRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*bookingDomain.Activity, error) {
	var models []BookingActivityModel
	if err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("occurred_at ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find booking activity: %w", err)
	}

	activities := make([]*bookingDomain.Activity, len(models))
	for i, m := range models {
		a := &bookingDomain.Activity{
			EventID:    m.EventID,
			BookingID:  m.BookingID,
			EventType:  m.EventType,
			Status:     m.Status,
			Detail:     m.Detail,
			OccurredAt: m.OccurredAt,
		}
		if m.ActorID != nil {
			a.ActorID = *m.ActorID
		}
		activities[i] = a
	}
	return activities, nil
}
