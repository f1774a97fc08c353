package repository

import (
	"styledeco/internal/domain"

	"gorm.io/gorm"
)

// AutoMigrate creates the schema for SQLite databases and tests.
// Postgres deployments run the SQL migrations in cmd/migrate.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&serviceModel{},
		&reviewModel{},
		&bookingModel{},
		&domain.Payment{},
	)
}
