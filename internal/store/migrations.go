package store

import "fmt"

// currentSchemaVersion is the latest schema version.
const currentSchemaVersion = 1

// Migrate runs forward migrations to bring the database schema up to date.
func (db *DB) Migrate() error {
	// Create the schema_version table if it does not exist.
	if _, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	version := 0
	row := db.conn.QueryRow("SELECT version FROM schema_version LIMIT 1")
	if err := row.Scan(&version); err != nil {
		// No rows means version 0 (fresh database).
		version = 0
	}

	if version < 1 {
		if err := db.migrateV1(); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return nil
}

// migrateV1 creates all initial tables and indexes. Activities are an
// append-only log: there is no update path, only insert and bulk delete.
// Timestamps are stored as unix milliseconds so range predicates stay
// plain integer comparisons.
func (db *DB) migrateV1() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			username              TEXT PRIMARY KEY,
			created_at            TEXT NOT NULL,
			last_active           TEXT NOT NULL,
			tracking_enabled      BOOLEAN NOT NULL DEFAULT true,
			sync_interval_minutes INTEGER NOT NULL DEFAULT 5
		)`,

		`CREATE TABLE IF NOT EXISTS activities (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			username        TEXT NOT NULL,
			session_id      TEXT NOT NULL,
			type            TEXT NOT NULL,
			timestamp       INTEGER NOT NULL,
			file_name       TEXT NOT NULL,
			file_path       TEXT,
			language        TEXT,
			project_folder  TEXT,
			workspace       TEXT,
			change_size     INTEGER,
			file_size       INTEGER,
			cursor_position INTEGER,
			line_number     INTEGER,
			character_count INTEGER
		)`,

		// Indexes matching the required query shapes.
		`CREATE INDEX IF NOT EXISTS idx_activities_user_ts ON activities(username, timestamp DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_user_type_ts ON activities(username, type, timestamp DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_user_lang_ts ON activities(username, language, timestamp DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_user_project_ts ON activities(username, project_folder, timestamp DESC)`,
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt[:40], err)
		}
	}

	// Set schema version.
	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion); err != nil {
		return err
	}

	return tx.Commit()
}
