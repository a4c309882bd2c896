package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/marianozunino/uploadpro/internal/config"
	"github.com/marianozunino/uploadpro/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	cfg := &config.Config{
		SQLitePath: dbPath,
	}

	db, err := NewDB(cfg)
	require.NoError(t, err)

	err = testutil.RunTestMigrations(dbPath)
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewDB(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "new_test.db")

	db, err := NewDB(&config.Config{SQLitePath: dbPath})
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err)

	err = db.Ping()
	assert.NoError(t, err)
}

func TestNewDBWithInvalidPath(t *testing.T) {
	cfg := &config.Config{
		SQLitePath: "/invalid/path/that/does/not/exist/test.db",
	}

	db, err := NewDB(cfg)
	assert.Error(t, err)
	assert.Nil(t, db)
}

func TestSetAndGet(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.Set("appSettings", `{"settings":{}}`))

	value, err := db.Get("appSettings")
	require.NoError(t, err)
	assert.Equal(t, `{"settings":{}}`, value)
}

func TestSetOverwrites(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.Set("locale:v1", "ar"))
	require.NoError(t, db.Set("locale:v1", "en"))

	value, err := db.Get("locale:v1")
	require.NoError(t, err)
	assert.Equal(t, "en", value)
}

func TestGetMissingKey(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.Set("k", "v"))
	require.NoError(t, db.Delete("k"))
	require.NoError(t, db.Delete("k"))

	_, err := db.Get("k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestKeys(t *testing.T) {
	db := setupTestDB(t)

	for _, k := range []string{"locale:b", "appSettings", "locale:a"} {
		require.NoError(t, db.Set(k, "x"))
	}

	keys, err := db.Keys("locale:")
	require.NoError(t, err)
	assert.Equal(t, []string{"locale:a", "locale:b"}, keys)

	all, err := db.Keys("")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMemoryStorage(t *testing.T) {
	m := NewMemoryStorage()

	_, err := m.Get("k")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Set("k", "v"))
	v, err := m.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	m.FailWrites = true
	assert.Error(t, m.Set("k", "w"))
	v, _ = m.Get("k")
	assert.Equal(t, "v", v)
}
