package testutil

import (
	"github.com/marianozunino/uploadpro/internal/migration"
)

// RunTestMigrations runs the embedded migrations against the database at dbPath
func RunTestMigrations(dbPath string) error {
	m, err := migration.NewManager(dbPath)
	if err != nil {
		return err
	}
	defer m.Close()

	return m.Up()
}
