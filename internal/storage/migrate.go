package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var schemaFS embed.FS

const migrationDir = "migrations"

// MigrateUp applies every *.up.sql script, oldest first. The scripts guard
// with IF NOT EXISTS, so running against a current database is a no-op.
func MigrateUp(db *sql.DB) error {
	return runSchemaScripts(db, ".up.sql", false)
}

// MigrateDown unwinds the schema, newest script first.
func MigrateDown(db *sql.DB) error {
	return runSchemaScripts(db, ".down.sql", true)
}

func runSchemaScripts(db *sql.DB, suffix string, newestFirst bool) error {
	entries, err := schemaFS.ReadDir(migrationDir)
	if err != nil {
		return fmt.Errorf("read %s: %w", migrationDir, err)
	}
	var names []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), suffix) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	if newestFirst {
		for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
			names[i], names[j] = names[j], names[i]
		}
	}
	for _, name := range names {
		script, err := schemaFS.ReadFile(migrationDir + "/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := db.Exec(string(script)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}
	return nil
}
