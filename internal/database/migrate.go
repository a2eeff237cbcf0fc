package database

import (
	"fmt"

	"brrads/internal/middleware"
	"brrads/internal/models"

	"gorm.io/gorm"
)

// RegisteredModels lists every entity AutoMigrate manages, in dependency order.
func RegisteredModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.GameRequest{},
		&models.FanArt{},
		&models.LiveStream{},
		&models.SiteSetting{},
	}
}

// Migrate brings the schema up to date for all registered models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(RegisteredModels()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	middleware.Logger.Info("Database migration completed")
	return nil
}
