// Package loader prepares the store at process start: it applies the schema
// and makes sure the receipts directory exists.
package loader

import (
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
)

// InitDatabase applies schema.sql and creates the receipts directory. The
// schema only uses CREATE ... IF NOT EXISTS, so an existing shop.db is left
// untouched.
func InitDatabase(db *sqlx.DB, receiptsDir string) error {
	if err := applySchema(db); err != nil {
		return fmt.Errorf("failed to apply schema.sql: %w", err)
	}
	if receiptsDir != "" {
		if err := os.MkdirAll(receiptsDir, 0755); err != nil {
			return fmt.Errorf("failed to create receipts directory %s: %w", receiptsDir, err)
		}
	}
	return nil
}

func applySchema(db *sqlx.DB) error {
	schemaBytes, err := os.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("could not read schema.sql: %w", err)
	}
	if _, err := db.Exec(string(schemaBytes)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}
