// Package testutil provides SQLite-backed fixtures for package tests.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"farmstay-go/internal/database"
)

// OpenDB opens a fresh SQLite database with the schema applied.
// The database is closed when the test finishes.
func OpenDB(t testing.TB) *sqlx.DB {
	t.Helper()
	db, err := database.Open(database.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// Date parses a YYYY-MM-DD string as midnight UTC
func Date(t testing.TB, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

// CreateUser inserts a user and returns its id
func CreateUser(t testing.TB, db *sqlx.DB, name string) int {
	t.Helper()
	var id int
	err := db.QueryRow(db.Rebind(`
        INSERT INTO users (name, email, password_hash)
        VALUES (?, ?, ?)
        RETURNING id`), name, name+"@example.com", "not-a-hash").Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateFarm inserts a farm in the given prefecture and returns its id
func CreateFarm(t testing.TB, db *sqlx.DB, hostID int, name, prefecture, experienceType string) int {
	t.Helper()
	var id int
	err := db.QueryRow(db.Rebind(`
        INSERT INTO farms (host_id, name, prefecture, experience_type)
        VALUES (?, ?, ?, ?)
        RETURNING id`), hostID, name, prefecture, experienceType).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateReview inserts a review dated on experienceDate (YYYY-MM-DD) and returns its id
func CreateReview(t testing.TB, db *sqlx.DB, guestID, farmID int, experienceDate string) int {
	t.Helper()
	var id int
	err := db.QueryRow(db.Rebind(`
        INSERT INTO reviews (guest_id, farm_id, rating, experience_date)
        VALUES (?, ?, ?, ?)
        RETURNING id`), guestID, farmID, 5, Date(t, experienceDate)).Scan(&id)
	require.NoError(t, err)
	return id
}

// DateString formats t as YYYY-MM-DD for comparisons
func DateString(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
