package services

import (
	"log"

	"gorm.io/gorm"
)

// InitializeFTS5 creates the station FTS5 virtual table and triggers if
// they don't exist
func InitializeFTS5(db *gorm.DB) error {
	log.Println("Initializing FTS5 search index...")

	// Create FTS5 virtual table
	err := db.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS stations_fts USING fts5(
			station_id UNINDEXED,
			station_code,
			station_name,
			commune_name,
			content='',
			content_rowid='rowid',
			tokenize='unicode61 remove_diacritics 2'
		)
	`).Error
	if err != nil {
		return err
	}

	// Create mapping table
	err = db.Exec(`
		CREATE TABLE IF NOT EXISTS stations_fts_mapping (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			station_id TEXT NOT NULL UNIQUE,
			last_updated DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`).Error
	if err != nil {
		return err
	}

	db.Exec(`CREATE INDEX IF NOT EXISTS idx_fts_mapping_station ON stations_fts_mapping(station_id)`)

	if err := createStationTriggers(db); err != nil {
		log.Printf("[WARNING] Failed to create station triggers: %v", err)
	}

	log.Println("FTS5 search index initialized")
	return nil
}

func createStationTriggers(db *gorm.DB) error {
	// Drop existing triggers first (in case of schema changes)
	db.Exec(`DROP TRIGGER IF EXISTS stations_fts_insert`)
	db.Exec(`DROP TRIGGER IF EXISTS stations_fts_update`)
	db.Exec(`DROP TRIGGER IF EXISTS stations_fts_delete`)

	// Trigger: INSERT on stations
	err := db.Exec(`
		CREATE TRIGGER IF NOT EXISTS stations_fts_insert AFTER INSERT ON stations
		BEGIN
			INSERT OR IGNORE INTO stations_fts_mapping (station_id)
			VALUES (NEW.id);

			INSERT INTO stations_fts (rowid, station_id, station_code, station_name, commune_name)
			SELECT
				m.rowid,
				NEW.id,
				NEW.code,
				COALESCE(NEW.name, ''),
				COALESCE((SELECT name FROM communes WHERE id = NEW.commune_id), '')
			FROM stations_fts_mapping m WHERE m.station_id = NEW.id;
		END
	`).Error
	if err != nil {
		return err
	}

	// Trigger: UPDATE on stations
	err = db.Exec(`
		CREATE TRIGGER IF NOT EXISTS stations_fts_update AFTER UPDATE ON stations
		WHEN OLD.name IS NOT NEW.name
		   OR OLD.code IS NOT NEW.code
		   OR OLD.commune_id IS NOT NEW.commune_id
		BEGIN
			DELETE FROM stations_fts WHERE rowid = (
				SELECT rowid FROM stations_fts_mapping WHERE station_id = OLD.id
			);

			INSERT INTO stations_fts (rowid, station_id, station_code, station_name, commune_name)
			SELECT
				m.rowid,
				NEW.id,
				NEW.code,
				COALESCE(NEW.name, ''),
				COALESCE((SELECT name FROM communes WHERE id = NEW.commune_id), '')
			FROM stations_fts_mapping m WHERE m.station_id = NEW.id;
		END
	`).Error
	if err != nil {
		return err
	}

	// Trigger: DELETE on stations
	return db.Exec(`
		CREATE TRIGGER IF NOT EXISTS stations_fts_delete AFTER DELETE ON stations
		BEGIN
			DELETE FROM stations_fts WHERE rowid = (
				SELECT rowid FROM stations_fts_mapping WHERE station_id = OLD.id
			);
			DELETE FROM stations_fts_mapping WHERE station_id = OLD.id;
		END
	`).Error
}

// BackfillFTS5 indexes stations inserted before the triggers existed.
// The import tool calls it after a run.
func BackfillFTS5(db *gorm.DB) error {
	err := db.Exec(`
		INSERT OR IGNORE INTO stations_fts_mapping (station_id)
		SELECT id FROM stations
	`).Error
	if err != nil {
		return err
	}

	return db.Exec(`
		INSERT INTO stations_fts (rowid, station_id, station_code, station_name, commune_name)
		SELECT
			m.rowid,
			s.id,
			s.code,
			COALESCE(s.name, ''),
			COALESCE(c.name, '')
		FROM stations_fts_mapping m
		JOIN stations s ON s.id = m.station_id
		LEFT JOIN communes c ON c.id = s.commune_id
		WHERE m.rowid NOT IN (SELECT rowid FROM stations_fts)
	`).Error
}
