package booking

import (
	"fmt"

	"github.com/outdoor-rental/service-rental/internal/common/domain"
)

// BookingStatus represents the current state of a booking in its lifecycle.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusApproved  BookingStatus = "approved"
	StatusActive    BookingStatus = "active"
	StatusCompleted BookingStatus = "completed"
	StatusRejected  BookingStatus = "rejected"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []BookingStatus{
	StatusPending,
	StatusApproved,
	StatusActive,
	StatusCompleted,
	StatusRejected,
}

// businessTransitions is the intended rental flow. Admin status updates are
// not restricted to it; see Booking.SetStatus.
var businessTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusApproved, StatusRejected},
	StatusApproved:  {StatusActive},
	StatusActive:    {StatusCompleted},
	StatusCompleted: {},
	StatusRejected:  {},
}

// IsValid returns true if the status is a recognized booking status.
func (s BookingStatus) IsValid() bool {
	_, exists := businessTransitions[s]
	return exists
}

// CanTransitionTo returns true if target is the next step of the rental flow.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, t := range businessTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// CountsAsRevenue reports whether a booking in this status contributes to revenue.
func (s BookingStatus) CountsAsRevenue() bool {
	switch s {
	case StatusApproved, StatusActive, StatusCompleted:
		return true
	case StatusPending, StatusRejected:
		return false
	}
	return false
}

// String returns the string representation of the status.
func (s BookingStatus) String() string {
	return string(s)
}

// RevenueStatuses lists the statuses that count as revenue.
func RevenueStatuses() []BookingStatus {
	var out []BookingStatus
	for _, s := range AllStatuses {
		if s.CountsAsRevenue() {
			out = append(out, s)
		}
	}
	return out
}

// ParseBookingStatus converts a string to a BookingStatus, returning a
// validation error if it is not one of the five defined values.
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", domain.NewValidationError(fmt.Sprintf("invalid booking status: %q", s))
	}
	return status, nil
}
