package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/outdoor-rental/service-rental/internal/common/domain"
	bookingDomain "github.com/outdoor-rental/service-rental/internal/domain/booking"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID       `gorm:"type:uuid;index;not null"`
	UserEmail        string          `gorm:"not null;size:255"`
	UserName         string          `gorm:"not null;size:255"`
	Items            json.RawMessage `gorm:"type:jsonb;not null"`
	StartDate        time.Time       `gorm:"type:date;not null"`
	EndDate          time.Time       `gorm:"type:date;not null"`
	TotalPrice       decimal.Decimal `gorm:"type:numeric;not null"`
	Status           string          `gorm:"not null;size:20;index"`
	PaymentProof     *string         `gorm:"type:text"`
	IdentityDocument *string         `gorm:"type:text"`
	Note             *string         `gorm:"type:text"`
	CreatedAt        time.Time       `gorm:"not null;index"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByIDForUser retrieves a booking only if it belongs to userID.
func (r *GormBookingRepository) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find user booking: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByUserID retrieves every booking of a user, newest first.
func (r *GormBookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find user bookings: %w", err)
	}
	return toDomainBookings(models)
}

// ListAll retrieves every booking, newest first.
func (r *GormBookingRepository) ListAll(ctx context.Context) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return toDomainBookings(models)
}

// ListRecent retrieves the newest limit bookings.
func (r *GormBookingRepository) ListRecent(ctx context.Context, limit int) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list recent bookings: %w", err)
	}
	return toDomainBookings(models)
}

// Count returns the number of bookings.
func (r *GormBookingRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return total, nil
}

// CountByStatus returns booking counts grouped by status.
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count bookings by status: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// SumTotalByStatus sums total prices of bookings in any of statuses.
func (r *GormBookingRepository) SumTotalByStatus(ctx context.Context, statuses []bookingDomain.BookingStatus) (decimal.Decimal, error) {
	if len(statuses) == 0 {
		return decimal.Zero, nil
	}
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = s.String()
	}

	var total decimal.Decimal
	row := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Select("COALESCE(SUM(total_price), 0)").
		Where("status IN ?", names).
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum booking totals: %w", err)
	}
	return total, nil
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model, err := toBookingModel(bk)
	if err != nil {
		return fmt.Errorf("failed to convert booking to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// UpdateStatus overwrites the status column.
func (r *GormBookingRepository) UpdateStatus(ctx context.Context, bk *bookingDomain.Booking) error {
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ?", bk.ID()).
		Updates(map[string]interface{}{
			"status":     bk.Status().String(),
			"updated_at": bk.UpdatedAt(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update booking status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Booking", bk.ID().String())
	}
	return nil
}

// UpdatePaymentProof overwrites the proof of a booking owned by its user.
func (r *GormBookingRepository) UpdatePaymentProof(ctx context.Context, bk *bookingDomain.Booking) error {
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND user_id = ?", bk.ID(), bk.UserID()).
		Updates(map[string]interface{}{
			"payment_proof": bk.PaymentProof(),
			"updated_at":    bk.UpdatedAt(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update payment proof: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Booking", bk.ID().String())
	}
	return nil
}

// --- Mapping helpers ---

func toBookingModel(bk *bookingDomain.Booking) (*BookingModel, error) {
	items, err := json.Marshal(bk.Items())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal booking items: %w", err)
	}

	renter := bk.Renter()
	return &BookingModel{
		ID:               bk.ID(),
		UserID:           renter.UserID,
		UserEmail:        renter.Email,
		UserName:         renter.Name,
		Items:            items,
		StartDate:        bk.Period().Start(),
		EndDate:          bk.Period().End(),
		TotalPrice:       bk.TotalPrice(),
		Status:           bk.Status().String(),
		PaymentProof:     bk.PaymentProof(),
		IdentityDocument: renter.IdentityDocument,
		Note:             bk.Note(),
		CreatedAt:        bk.CreatedAt(),
		UpdatedAt:        bk.UpdatedAt(),
	}, nil
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	var items []bookingDomain.Item
	if err := json.Unmarshal(m.Items, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal booking items: %w", err)
	}

	renter := bookingDomain.Renter{
		UserID:           m.UserID,
		Email:            m.UserEmail,
		Name:             m.UserName,
		IdentityDocument: m.IdentityDocument,
	}
	return bookingDomain.ReconstructBooking(
		m.ID,
		renter,
		items,
		m.StartDate,
		m.EndDate,
		m.TotalPrice,
		bookingDomain.BookingStatus(m.Status),
		m.PaymentProof,
		m.Note,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel) ([]*bookingDomain.Booking, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bk, err := toDomainBooking(&models[i])
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}
