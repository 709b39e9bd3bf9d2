package database

import (
	"log"

	"gorm.io/gorm"
)

// RunMigrations runs custom data migrations after schema changes.
func RunMigrations(db *gorm.DB) error {
	if err := normalizeCardDefaults(db); err != nil {
		return err
	}
	return nil
}

// normalizeCardDefaults backfills condition and language on rows imported
// before those columns carried defaults. Safe to run repeatedly.
func normalizeCardDefaults(db *gorm.DB) error {
	if !db.Migrator().HasTable("cards") {
		return nil
	}

	result := db.Exec(`UPDATE cards SET condition = 'NM' WHERE condition IS NULL OR condition = ''`)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("Normalized condition on %d card rows", result.RowsAffected)
	}

	result = db.Exec(`UPDATE cards SET language = 'JP' WHERE language IS NULL OR language = ''`)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("Normalized language on %d card rows", result.RowsAffected)
	}

	return nil
}
