package service

import (
	"context"
	"strings"

	"brrads/internal/models"
	"brrads/internal/policy"
	"brrads/internal/repository"
)

// SettingsService exposes the site-wide key/value settings the admin panel
// edits (welcome text, social links, feature toggles).
type SettingsService struct {
	settingRepo repository.SiteSettingRepository
}

func NewSettingsService(settingRepo repository.SiteSettingRepository) *SettingsService {
	return &SettingsService{settingRepo: settingRepo}
}

// GetSettings returns all settings. Public: the frontend renders from them.
func (s *SettingsService) GetSettings(ctx context.Context) ([]models.SiteSetting, error) {
	settings, err := s.settingRepo.All(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return settings, nil
}

// SetSetting upserts one setting. Admin only.
func (s *SettingsService) SetSetting(ctx context.Context, actor policy.Actor, key, value string) (*models.SiteSetting, error) {
	if err := policy.Authorize(actor, policy.ActionManageSettings, policy.Resource{}).Err(); err != nil {
		return nil, err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, models.NewValidationError("Setting key is required")
	}
	setting, err := s.settingRepo.Set(ctx, key, value)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return setting, nil
}
