package db

import (
	"video-service/internal/domain/entities"

	"gorm.io/gorm"
)

// AutoMigrate keeps dev environments in sync; production schemas go through
// the goose migration in migrations/.
func AutoMigrate(database *gorm.DB) error {
	return database.AutoMigrate(
		&entities.VideoAsset{},
		&entities.AdminAuditEntry{},
	)
}
