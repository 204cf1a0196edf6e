package postgres

import (
	"database/sql"
	"fmt"
	"os"
)

var schemaPaths = []string{
	"script/migration/schema.sql",
	"../script/migration/schema.sql",
	"../../script/migration/schema.sql",
	"../../../script/migration/schema.sql",
	"backend/script/migration/schema.sql",
}

// findSchema returns the first schema.sql found relative to the working
// directory, so both `go run ./cmd/api` and the built binary work.
func findSchema() string {
	for _, path := range schemaPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return schemaPaths[0]
}

// RunMigrations executes schema.sql; every statement is idempotent.
func RunMigrations(db *sql.DB) error {
	schemaPath := findSchema()

	content, err := os.ReadFile(schemaPath)
	if err != nil {
		wd, _ := os.Getwd()
		return fmt.Errorf("failed to read migration file %q (wd %s): %w", schemaPath, wd, err)
	}

	if _, err := db.Exec(string(content)); err != nil {
		return fmt.Errorf("failed to execute schema.sql: %w", err)
	}
	return nil
}
