package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies every schema statement. Statements are idempotent so the
// full list runs on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	// Flat key-value blobs: auth tokens, chat history, preferences.
	`CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS exercise_plans (
		id               TEXT PRIMARY KEY,
		name             TEXT NOT NULL UNIQUE,
		duration_minutes INTEGER NOT NULL CHECK(duration_minutes > 0),
		calories         INTEGER NOT NULL DEFAULT 0 CHECK(calories >= 0),
		intensity        TEXT NOT NULL DEFAULT '',
		created_at       TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS exercise_records (
		id                 TEXT PRIMARY KEY,
		plan_name          TEXT NOT NULL,
		start_time         TEXT NOT NULL,
		end_time           TEXT NOT NULL,
		duration_minutes   INTEGER NOT NULL DEFAULT 0,
		calories_burned    INTEGER NOT NULL DEFAULT 0,
		average_heart_rate INTEGER NOT NULL DEFAULT 0,
		steps              INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_exercise_records_start ON exercise_records(start_time)`,

	`CREATE TABLE IF NOT EXISTS meals (
		id         TEXT PRIMARY KEY,
		meal_type  TEXT NOT NULL,
		meal_time  TEXT NOT NULL,
		foods      TEXT NOT NULL DEFAULT '[]',
		calories   INTEGER NOT NULL DEFAULT 0,
		nutrients  TEXT NOT NULL DEFAULT '{}',
		meal_date  TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_meals_date ON meals(meal_date)`,

	`CREATE TABLE IF NOT EXISTS food_history (
		food    TEXT PRIMARY KEY,
		used_at TEXT NOT NULL
	)`,
}
