package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"amana.dev/worklog/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			// First revision: users and daily logs with the original
			// flat attachment columns (work_photos, delivery_certificate).
			ID: "20250301_create_users_and_daily_logs",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.User{}, &models.DailyLog{})
			},
		},
		{
			ID: "20250415_add_notifications",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Notification{})
			},
		},
		{
			// Structured per-file attachment lists and the approval
			// stamp columns. Existing flat columns stay as-is; new
			// writes only go to the jsonb lists.
			ID: "20250602_add_structured_attachments_and_approval",
			Migrate: func(tx *gorm.DB) error {
				statements := []string{
					"ALTER TABLE daily_logs ADD COLUMN IF NOT EXISTS photos jsonb NOT NULL DEFAULT '[]'",
					"ALTER TABLE daily_logs ADD COLUMN IF NOT EXISTS documents jsonb NOT NULL DEFAULT '[]'",
					"ALTER TABLE daily_logs ADD COLUMN IF NOT EXISTS ends_next_day boolean DEFAULT false",
					"ALTER TABLE daily_logs ADD COLUMN IF NOT EXISTS approved_by_id uuid",
					"ALTER TABLE daily_logs ADD COLUMN IF NOT EXISTS approved_at timestamptz",
				}
				for _, stmt := range statements {
					if err := tx.Exec(stmt).Error; err != nil {
						return err
					}
				}
				return nil
			},
		},
	})
	return m.Migrate()
}
