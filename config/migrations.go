package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"p9e.in/civicgrid/models"
)

// Migrations runs the versioned schema migrations.
func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20250815_create_core_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Department{}, &models.User{},
					&models.Report{}, &models.StatusUpdate{})
			},
		},
		{
			ID: "20250815_report_indexes",
			Migrate: func(tx *gorm.DB) error {
				// Partial index for the proximity detector's hot path:
				// open reports by category and coordinates.
				return tx.Exec(`CREATE INDEX IF NOT EXISTS idx_reports_open_category_coords
					ON reports (category, latitude, longitude)
					WHERE status != 'CLOSED'`).Error
			},
		},
		{
			ID: "20250902_status_updates_report_created",
			Migrate: func(tx *gorm.DB) error {
				return tx.Exec(`CREATE INDEX IF NOT EXISTS idx_status_updates_report_created
					ON status_updates (report_id, created_at DESC)`).Error
			},
		},
	})

	return m.Migrate()
}
