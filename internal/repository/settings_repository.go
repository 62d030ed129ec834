package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	settingsDomain "github.com/outdoor-rental/service-rental/internal/domain/settings"
)

// settingsKey is the primary key of the single settings row.
const settingsKey = "site"

// SettingsModel is the GORM model for the settings table.
type SettingsModel struct {
	Key               string          `gorm:"primaryKey;size:20"`
	WhatsAppNumber    string          `gorm:"column:whatsapp_number;size:30"`
	ContactEmail      string          `gorm:"size:255"`
	Address           string          `gorm:"type:text"`
	OperatingHours    string          `gorm:"size:255"`
	LatePenaltyPerDay decimal.Decimal `gorm:"type:numeric;not null"`
	UpdatedAt         time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (SettingsModel) TableName() string {
	return "settings"
}

// GormSettingsRepository stores the settings singleton.
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository.
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// Get returns the stored settings; ok is false when none were saved.
func (r *GormSettingsRepository) Get(ctx context.Context) (settingsDomain.Settings, bool, error) {
	var model SettingsModel
	if err := r.db.WithContext(ctx).Where("key = ?", settingsKey).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return settingsDomain.Settings{}, false, nil
		}
		return settingsDomain.Settings{}, false, fmt.Errorf("failed to load settings: %w", err)
	}
	return settingsDomain.Settings{
		WhatsAppNumber:    model.WhatsAppNumber,
		ContactEmail:      model.ContactEmail,
		Address:           model.Address,
		OperatingHours:    model.OperatingHours,
		LatePenaltyPerDay: model.LatePenaltyPerDay,
	}, true, nil
}

// Replace upserts the singleton row.
func (r *GormSettingsRepository) Replace(ctx context.Context, s settingsDomain.Settings) error {
	model := &SettingsModel{
		Key:               settingsKey,
		WhatsAppNumber:    s.WhatsAppNumber,
		ContactEmail:      s.ContactEmail,
		Address:           s.Address,
		OperatingHours:    s.OperatingHours,
		LatePenaltyPerDay: s.LatePenaltyPerDay,
		UpdatedAt:         time.Now().UTC(),
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			UpdateAll: true,
		}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to replace settings: %w", err)
	}
	return nil
}
