package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteAppliesSchema(t *testing.T) {
	db, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"users", "farms", "reviews", "regions", "visit_records", "region_aggregates"} {
		var n int
		err := db.Get(&n, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table)
		require.NoError(t, err)
		assert.Equal(t, 1, n, "table %s", table)
	}
	assert.False(t, IsPostgres(db))
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(DriverSQLite, path)
	require.NoError(t, err)
	db.Close()

	db, err = Open(DriverSQLite, path)
	require.NoError(t, err)
	db.Close()
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("mysql", "whatever")
	assert.Error(t, err)
}

func TestIsUniqueViolation(t *testing.T) {
	db, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	insert := "INSERT INTO users (name, email, password_hash) VALUES (?, ?, ?)"
	_, err = db.Exec(insert, "a", "a@example.com", "x")
	require.NoError(t, err)

	_, err = db.Exec(insert, "b", "a@example.com", "x")
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
	assert.False(t, IsUniqueViolation(assert.AnError))
}
