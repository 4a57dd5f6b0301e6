package db

import (
	"database/sql"
	"fmt"
)

// migrations are applied in order after schema creation. The database's
// user_version records how many have run. Append new migrations at the end.
var migrations = []string{
	// Migration 1: owner and claimant lookups.
	`CREATE INDEX IF NOT EXISTS idx_items_owner ON items(owner_id)`,
	// Migration 2: a user's claims are listed newest first.
	`CREATE INDEX IF NOT EXISTS idx_claims_claimant ON claims(claimant_id, created_at)`,
}

// Migrate ensures the schema exists and applies pending migrations.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	var applied int
	if err := db.QueryRow(`PRAGMA user_version`).Scan(&applied); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for i := applied; i < len(migrations); i++ {
		if _, err := db.Exec(migrations[i]); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
		if _, err := db.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, i+1)); err != nil {
			return fmt.Errorf("recording migration %d: %w", i+1, err)
		}
	}

	return nil
}
