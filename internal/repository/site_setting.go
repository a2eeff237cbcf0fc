package repository

import (
	"context"
	"errors"

	"brrads/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SiteSettingRepository defines the interface for site setting data operations
type SiteSettingRepository interface {
	Get(ctx context.Context, key string) (*models.SiteSetting, error)
	Set(ctx context.Context, key, value string) (*models.SiteSetting, error)
	All(ctx context.Context) ([]models.SiteSetting, error)
}

type siteSettingRepository struct {
	db *gorm.DB
}

// NewSiteSettingRepository creates a new site setting repository
func NewSiteSettingRepository(db *gorm.DB) SiteSettingRepository {
	return &siteSettingRepository{db: db}
}

func (r *siteSettingRepository) Get(ctx context.Context, key string) (*models.SiteSetting, error) {
	var setting models.SiteSetting
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *siteSettingRepository) Set(ctx context.Context, key, value string) (*models.SiteSetting, error) {
	setting := models.SiteSetting{Key: key, Value: value}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&setting).Error
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, key)
}

func (r *siteSettingRepository) All(ctx context.Context) ([]models.SiteSetting, error) {
	var settings []models.SiteSetting
	err := r.db.WithContext(ctx).Order("key ASC").Find(&settings).Error
	return settings, err
}
