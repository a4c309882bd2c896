package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/marianozunino/uploadpro/internal/migration"
)

func main() {
	var (
		dbPath  = flag.String("db", "./data/uploadpro.db", "Database path")
		action  = flag.String("action", "up", "Migration action: up, down, force, version")
		steps   = flag.Int("steps", 0, "Number of steps to migrate (0 = all)")
		version = flag.Int("version", 0, "Version to force to")
	)
	flag.Parse()

	// Ensure the database directory exists
	if err := os.MkdirAll(filepath.Dir(*dbPath), 0o755); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}

	m, err := migration.NewManager(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create migrator: %v", err)
	}
	defer m.Close()

	switch *action {
	case "up":
		if *steps > 0 {
			err = m.Steps(*steps)
		} else {
			err = m.Up()
		}
		if err != nil {
			log.Fatalf("Migration failed: %v", err)
		}

	case "down":
		if *steps > 0 {
			err = m.Steps(-*steps)
		} else {
			err = m.Down()
		}
		if err != nil {
			log.Fatalf("Migration failed: %v", err)
		}

	case "force":
		if *version == 0 {
			log.Fatal("Version must be specified for force action")
		}
		if err := m.Force(*version); err != nil {
			log.Fatalf("Force migration failed: %v", err)
		}

	case "version":
		v, dirty, err := m.Version()
		if err != nil {
			log.Fatalf("Failed to read version: %v", err)
		}
		log.Printf("Database version: %d (dirty: %t)", v, dirty)

	default:
		log.Fatalf("Unknown action: %s", *action)
	}
}
