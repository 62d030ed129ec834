package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/outdoor-rental/service-rental/internal/common/domain"
	settingsDomain "github.com/outdoor-rental/service-rental/internal/domain/settings"
)

// SettingsService reads and replaces the site settings singleton.
type SettingsService struct {
	repo   settingsDomain.Repository
	logger *zap.Logger
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(repo settingsDomain.Repository, logger *zap.Logger) *SettingsService {
	return &SettingsService{repo: repo, logger: logger}
}

// Get returns the stored settings, or the defaults if none were saved.
func (s *SettingsService) Get(ctx context.Context) (settingsDomain.Settings, error) {
	stored, ok, err := s.repo.Get(ctx)
	if err != nil {
		return settingsDomain.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	if !ok {
		return settingsDomain.Defaults(), nil
	}
	return stored, nil
}

// Update replaces the singleton (admin).
func (s *SettingsService) Update(ctx context.Context, next settingsDomain.Settings) error {
	if next.LatePenaltyPerDay.IsNegative() {
		return domain.NewValidationError("late penalty per day cannot be negative")
	}
	if err := s.repo.Replace(ctx, next); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	s.logger.Info("settings updated")
	return nil
}
