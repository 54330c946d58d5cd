package store

import (
	"fmt"
	"strings"
)

// currentSchemaVersion is the latest schema version.
const currentSchemaVersion = 2

// Migrate runs forward migrations to bring the database schema up to date.
// It is safe to run on every startup, including against a database that is
// already current.
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
	if version < 2 {
		if err := db.migrateV2(); err != nil {
			return fmt.Errorf("migration v2: %w", err)
		}
	}

	return nil
}

// migrateV1 creates all initial tables and indexes.
func (db *DB) migrateV1() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS activity_segments (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			app_name         TEXT NOT NULL,
			window_title     TEXT NOT NULL,
			start_time       TEXT NOT NULL,
			end_time         TEXT NOT NULL,
			duration_seconds REAL NOT NULL,
			category         TEXT NOT NULL DEFAULT 'Other'
		)`,

		`CREATE TABLE IF NOT EXISTS search_records (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp TEXT NOT NULL,
			browser   TEXT NOT NULL,
			query     TEXT NOT NULL,
			url       TEXT NOT NULL,
			source    TEXT NOT NULL DEFAULT 'Unknown'
		)`,

		`CREATE TABLE IF NOT EXISTS daily_stats (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			date                TEXT NOT NULL UNIQUE,
			total_seconds       REAL NOT NULL DEFAULT 0,
			productive_seconds  REAL NOT NULL DEFAULT 0,
			distraction_seconds REAL NOT NULL DEFAULT 0,
			top_app             TEXT NOT NULL DEFAULT '',
			top_category        TEXT NOT NULL DEFAULT '',
			session_count       INTEGER NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS process_snapshots (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   TEXT NOT NULL,
			app_name    TEXT NOT NULL,
			pid         INTEGER NOT NULL,
			memory_mb   REAL NOT NULL DEFAULT 0,
			cpu_percent REAL NOT NULL DEFAULT 0,
			status      TEXT NOT NULL DEFAULT 'running',
			num_threads INTEGER NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS app_usage (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			date          TEXT NOT NULL,
			app_name      TEXT NOT NULL,
			total_duration REAL NOT NULL DEFAULT 0,
			avg_memory_mb REAL NOT NULL DEFAULT 0,
			avg_cpu       REAL NOT NULL DEFAULT 0,
			launch_count  INTEGER NOT NULL DEFAULT 0,
			category      TEXT NOT NULL DEFAULT 'Other',
			role          TEXT NOT NULL DEFAULT '',
			UNIQUE(date, app_name)
		)`,

		`CREATE TABLE IF NOT EXISTS browser_visits (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      TEXT NOT NULL,
			browser        TEXT NOT NULL,
			url            TEXT NOT NULL,
			title          TEXT NOT NULL DEFAULT '',
			visit_duration REAL NOT NULL DEFAULT 0,
			domain         TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS focus_sessions (
			id                 INTEGER PRIMARY KEY AUTOINCREMENT,
			start_time         TEXT NOT NULL,
			end_time           TEXT NOT NULL,
			target_minutes     INTEGER NOT NULL DEFAULT 25,
			focus_seconds      REAL NOT NULL DEFAULT 0,
			distracted_seconds REAL NOT NULL DEFAULT 0,
			interruption_count INTEGER NOT NULL DEFAULT 0,
			focus_score        REAL NOT NULL DEFAULT 0,
			goal_label         TEXT NOT NULL DEFAULT ''
		)`,

		// Indexes.
		`CREATE INDEX IF NOT EXISTS idx_segments_start ON activity_segments(start_time)`,
		`CREATE INDEX IF NOT EXISTS idx_segments_category ON activity_segments(category)`,
		`CREATE INDEX IF NOT EXISTS idx_segments_app ON activity_segments(app_name)`,
		`CREATE INDEX IF NOT EXISTS idx_search_timestamp ON search_records(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_daily_date ON daily_stats(date)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshot_timestamp ON process_snapshots(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshot_app ON process_snapshots(app_name)`,
		`CREATE INDEX IF NOT EXISTS idx_app_usage_date ON app_usage(date)`,
		`CREATE INDEX IF NOT EXISTS idx_app_usage_name ON app_usage(app_name)`,
		`CREATE INDEX IF NOT EXISTS idx_visits_timestamp ON browser_visits(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_visits_domain ON browser_visits(domain)`,
		`CREATE INDEX IF NOT EXISTS idx_focus_start ON focus_sessions(start_time)`,
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

	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", 1); err != nil {
		return err
	}

	return tx.Commit()
}

// migrateV2 adds per-segment resource columns to activity_segments. SQLite
// has no ADD COLUMN IF NOT EXISTS, so a duplicate-column error means the
// column is already present and is skipped.
func (db *DB) migrateV2() error {
	columns := []string{
		"ALTER TABLE activity_segments ADD COLUMN memory_mb REAL DEFAULT 0",
		"ALTER TABLE activity_segments ADD COLUMN cpu_percent REAL DEFAULT 0",
		"ALTER TABLE activity_segments ADD COLUMN pid INTEGER DEFAULT 0",
	}

	for _, stmt := range columns {
		if _, err := db.conn.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column") {
				continue
			}
			return fmt.Errorf("executing %q: %w", stmt, err)
		}
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion); err != nil {
		return err
	}

	return tx.Commit()
}
