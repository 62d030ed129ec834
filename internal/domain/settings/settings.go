package settings

import (
	"context"

	"github.com/shopspring/decimal"
)

// Settings is the singleton of business-facing configuration.
// LatePenaltyPerDay is informational; no computation applies it.
type Settings struct {
	WhatsAppNumber    string          `json:"whatsapp_number"`
	ContactEmail      string          `json:"contact_email"`
	Address           string          `json:"address"`
	OperatingHours    string          `json:"operating_hours"`
	LatePenaltyPerDay decimal.Decimal `json:"late_penalty_per_day"`
}

// Defaults returns the settings served before an admin saves any.
func Defaults() Settings {
	return Settings{
		WhatsAppNumber:    "6281234567890",
		ContactEmail:      "info@outdoorrental.com",
		Address:           "Jl. Petualangan No. 123, Jakarta",
		OperatingHours:    "Senin-Minggu: 08.00-20.00 WIB",
		LatePenaltyPerDay: decimal.NewFromInt(50000),
	}
}

// Repository stores the singleton.
type Repository interface {
	// Get returns the stored settings and false when none have been saved.
	Get(ctx context.Context) (Settings, bool, error)

	// Replace overwrites the singleton.
	Replace(ctx context.Context, s Settings) error
}
