package models

import "gorm.io/gorm"

// migration is one named, idempotent schema step. Steps run in order on
// every start; each must be safe to re-run after a crash mid-list.
type migration struct {
	name string
	run  func(db *gorm.DB) error
}

var migrations = []migration{
	{
		name: "backfill_onboarding_state",
		run: func(db *gorm.DB) error {
			return db.Exec(
				"UPDATE users SET onboarding = ? WHERE onboarding IS NULL OR onboarding = ''",
				OnboardingActive,
			).Error
		},
	},
	{
		name: "backfill_interaction_narrative_defaults",
		run: func(db *gorm.DB) error {
			for _, col := range []string{"context", "response", "reflection"} {
				if err := db.Exec(
					"UPDATE interactions SET " + col + " = '' WHERE " + col + " IS NULL",
				).Error; err != nil {
					return err
				}
			}
			return nil
		},
	},
	{
		name: "drop_expired_sessions",
		run: func(db *gorm.DB) error {
			return db.Exec("DELETE FROM sessions WHERE expires_at < CURRENT_TIMESTAMP").Error
		},
	},
}

// Migrate brings the schema up to date: AutoMigrate for tables and columns,
// then the ordered migration list for data-shape fixes.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&User{}, &Interaction{}, &Session{}, &ShareLink{}, &AuditLog{},
	); err != nil {
		return err
	}
	for _, m := range migrations {
		if err := m.run(db); err != nil {
			return err
		}
	}
	return nil
}
