package database

import (
	"fmt"

	"github.com/rvaldez/rentora-api/internal/models"
	"gorm.io/gorm"
)

// Migrate applies the schema for all models. AutoMigrate creates the
// composite unique index on invoices (period, unit_id, tenant_id) that the
// idempotent generator relies on, so it must run before the cron starts.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Property{},
		&models.Unit{},
		&models.Lease{},
		&models.LeaseDocument{},
		&models.Payment{},
		&models.Invoice{},
		&models.Notification{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("failed to migrate database schema: %w", err)
	}
	return nil
}
