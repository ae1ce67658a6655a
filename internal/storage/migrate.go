package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

type migrateDirection string

const (
	directionUp   migrateDirection = "up"
	directionDown migrateDirection = "down"
)

// MigrateUp brings the schema to the latest version. Migration files run
// in lexical order, so a new migration takes the next numeric prefix.
func MigrateUp(db *sql.DB) error {
	return runMigrations(db, directionUp)
}

// MigrateDown unwinds the schema, newest migration first.
func MigrateDown(db *sql.DB) error {
	return runMigrations(db, directionDown)
}

func runMigrations(db *sql.DB, direction migrateDirection) error {
	names, err := fs.Glob(migrationFS, fmt.Sprintf("migrations/*.%s.sql", direction))
	if err != nil {
		return fmt.Errorf("list %s migrations: %w", direction, err)
	}
	sort.Strings(names)
	if direction == directionDown {
		for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
			names[i], names[j] = names[j], names[i]
		}
	}

	for _, name := range names {
		stmt, err := migrationFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := db.Exec(string(stmt)); err != nil {
			return fmt.Errorf("apply migration %s (%s): %w", name, direction, err)
		}
	}
	return nil
}
