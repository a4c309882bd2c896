package migration

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpCreatesStorageTable(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "m.db")

	m, err := NewManager(dbPath)
	require.NoError(t, err)
	defer m.Close()

	require.NoError(t, m.Up())
	require.NoError(t, m.Up())

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)

	var count int
	err = m.db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'storage'").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDownRollsBackOneStep(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "m.db")

	m, err := NewManager(dbPath)
	require.NoError(t, err)
	defer m.Close()

	require.NoError(t, m.Up())
	require.NoError(t, m.Down())

	version, _, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
}

func TestNewManagerWithSharedDB(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "shared.db")
	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()

	m, err := NewManagerWithDB(db)
	require.NoError(t, err)
	require.NoError(t, m.Up())
	require.NoError(t, m.Close())

	assert.NoError(t, db.Ping())
}
