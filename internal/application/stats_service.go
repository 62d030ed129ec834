package application

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/outdoor-rental/service-rental/internal/common/auth"
	bookingDomain "github.com/outdoor-rental/service-rental/internal/domain/booking"
	productDomain "github.com/outdoor-rental/service-rental/internal/domain/product"
	userDomain "github.com/outdoor-rental/service-rental/internal/domain/user"
)

const recentBookingsLimit = 5

// StatsDTO is the admin dashboard summary.
type StatsDTO struct {
	TotalUsers       int64            `json:"total_users"`
	TotalBookings    int64            `json:"total_bookings"`
	TotalProducts    int64            `json:"total_products"`
	TotalRevenue     decimal.Decimal  `json:"total_revenue"`
	RecentBookings   []BookingDTO     `json:"recent_bookings"`
	BookingsByStatus map[string]int64 `json:"bookings_by_status"`
}

// StatsService aggregates dashboard figures.
type StatsService struct {
	bookings bookingDomain.BookingRepository
	products productDomain.ProductRepository
	users    userDomain.UserRepository
	logger   *zap.Logger
}

// NewStatsService creates a new StatsService.
func NewStatsService(
	bookings bookingDomain.BookingRepository,
	products productDomain.ProductRepository,
	users userDomain.UserRepository,
	logger *zap.Logger,
) *StatsService {
	return &StatsService{bookings: bookings, products: products, users: users, logger: logger}
}

// GetStats computes the dashboard. Revenue counts approved, active and
// completed bookings.
func (s *StatsService) GetStats(ctx context.Context) (*StatsDTO, error) {
	users, err := s.users.CountByRole(ctx, auth.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	bookings, err := s.bookings.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}
	products, err := s.products.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	revenue, err := s.bookings.SumTotalByStatus(ctx, bookingDomain.RevenueStatuses())
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	byStatus, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings by status: %w", err)
	}
	if byStatus == nil {
		byStatus = make(map[string]int64, len(bookingDomain.AllStatuses))
	}
	for _, st := range bookingDomain.AllStatuses {
		if _, ok := byStatus[st.String()]; !ok {
			byStatus[st.String()] = 0
		}
	}

	recent, err := s.bookings.ListRecent(ctx, recentBookingsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent bookings: %w", err)
	}
	recentDTOs := make([]BookingDTO, len(recent))
	for i, bk := range recent {
		recentDTOs[i] = toBookingDTO(bk)
	}

	return &StatsDTO{
		TotalUsers:       users,
		TotalBookings:    bookings,
		TotalProducts:    products,
		TotalRevenue:     revenue,
		RecentBookings:   recentDTOs,
		BookingsByStatus: byStatus,
	}, nil
}
