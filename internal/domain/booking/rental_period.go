package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/outdoor-rental/service-rental/internal/common/domain"
)

// DateLayout is the wire format of booking dates.
const DateLayout = "2006-01-02"

// RentalPeriod is a validated [start, end) pair of calendar dates.
type RentalPeriod struct {
	start time.Time
	end   time.Time
}

// NewRentalPeriod validates that end is at least one whole day after start.
func NewRentalPeriod(start, end time.Time) (RentalPeriod, error) {
	p := RentalPeriod{start: truncateToDate(start), end: truncateToDate(end)}
	if p.Days() < 1 {
		return RentalPeriod{}, NewInvalidDateRangeError(p.start, p.end)
	}
	return p, nil
}

// ParseRentalPeriod parses two ISO-8601 dates and validates the range.
func ParseRentalPeriod(start, end string) (RentalPeriod, error) {
	s, err := ParseDate(start)
	if err != nil {
		return RentalPeriod{}, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return RentalPeriod{}, err
	}
	return NewRentalPeriod(s, e)
}

// ParseDate parses an ISO-8601 date or timestamp and keeps only the calendar
// date as written, ignoring any time-of-day or offset.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, domain.NewValidationError("date is required")
	}
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return t, nil
	}
	t, err := dateparse.ParseStrict(raw)
	if err != nil {
		return time.Time{}, domain.NewValidationError(fmt.Sprintf("invalid date %q: expected YYYY-MM-DD", raw))
	}
	return truncateToDate(t), nil
}

// Start returns the first rental day.
func (p RentalPeriod) Start() time.Time { return p.start }

// End returns the return day.
func (p RentalPeriod) End() time.Time { return p.end }

// Days returns the whole-day rental duration.
func (p RentalPeriod) Days() int {
	return int(p.end.Sub(p.start).Hours() / 24)
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NewInvalidDateRangeError reports a rental shorter than one day.
func NewInvalidDateRangeError(start, end time.Time) error {
	return domain.NewValidationError(fmt.Sprintf(
		"invalid date range %s to %s: minimum rental is 1 day",
		start.Format(DateLayout), end.Format(DateLayout),
	))
}
