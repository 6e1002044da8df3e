package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrate_RunsOnEveryOpen(t *testing.T) {
	db := memDB(t)
	// OpenDB already migrated once.
	require.NoError(t, Migrate(db))
}

func TestMigrate_Schema(t *testing.T) {
	db := memDB(t)

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' ORDER BY name`)
	require.NoError(t, err)
	defer rows.Close()
	var tables []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		tables = append(tables, name)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"exercise_plans", "exercise_records", "food_history", "kv", "meals"}, tables)
}

func TestMigrate_PlanConstraints(t *testing.T) {
	db := memDB(t)
	insert := `INSERT INTO exercise_plans (id, name, duration_minutes, calories, created_at) VALUES (?, ?, ?, ?, 'x')`

	_, err := db.Exec(insert, "p1", "慢跑", 0, 100)
	assert.Error(t, err, "zero duration")
	_, err = db.Exec(insert, "p2", "慢跑", 30, -1)
	assert.Error(t, err, "negative calories")

	_, err = db.Exec(insert, "p3", "慢跑", 30, 200)
	require.NoError(t, err)
	_, err = db.Exec(insert, "p4", "慢跑", 20, 150)
	assert.Error(t, err, "duplicate plan name")
}

func TestMigrate_MealDefaults(t *testing.T) {
	db := memDB(t)
	_, err := db.Exec(`INSERT INTO meals (id, meal_type, meal_time, meal_date, created_at) VALUES ('m1', '早餐', '08:00', '2024-03-01', 'x')`)
	require.NoError(t, err)

	var foods, nutrients string
	var calories int
	require.NoError(t, db.QueryRow(`SELECT foods, calories, nutrients FROM meals WHERE id = 'm1'`).Scan(&foods, &calories, &nutrients))
	assert.Equal(t, "[]", foods)
	assert.Zero(t, calories)
	assert.Equal(t, "{}", nutrients)
}

func TestOpenDB_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".pulse", "data", "pulse.db")
	db, err := OpenDB(path)
	require.NoError(t, err)
	defer db.Close()
	assert.FileExists(t, path)
}
