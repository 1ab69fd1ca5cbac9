package model

import "gorm.io/gorm"

// AutoMigrate runs GORM auto-migration for all models and creates custom indexes.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&Guest{},
		&Profile{},
		&GuestLink{},
	); err != nil {
		return err
	}

	// Stable fetch order for matching scans.
	return db.Exec(
		"CREATE INDEX IF NOT EXISTS idx_guest_list_created_at_id " +
			"ON guest_list (created_at, id)",
	).Error
}
