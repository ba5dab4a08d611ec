package state

import (
	"database/sql"
)

const currentSchemaVersion = 1

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS session_state (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			current_index INTEGER NOT NULL DEFAULT -1,
			shuffle INTEGER NOT NULL DEFAULT 0,
			repeat INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS session_tracks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			position INTEGER NOT NULL,
			track_id INTEGER,
			stream_url TEXT NOT NULL,
			title TEXT NOT NULL,
			artist TEXT,
			album TEXT,
			track_number INTEGER,
			duration_ms INTEGER,
			UNIQUE(position)
		);
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO schema_version (version) VALUES (?)
		ON CONFLICT(version) DO NOTHING
	`, currentSchemaVersion)
	return err
}
