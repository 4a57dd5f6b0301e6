package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    email      TEXT NOT NULL,
    phone      TEXT,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS items (
    id          TEXT PRIMARY KEY,
    owner_id    TEXT NOT NULL REFERENCES users(id),
    title       TEXT NOT NULL CHECK (title <> ''),
    description TEXT NOT NULL CHECK (description <> ''),
    category    TEXT NOT NULL CHECK (category IN ('Electronics', 'Jewelry', 'Clothing', 'Documents', 'Keys', 'Bags', 'Other')),
    disposition TEXT NOT NULL CHECK (disposition IN ('lost', 'found')),
    date        DATETIME NOT NULL,
    location    TEXT NOT NULL CHECK (location <> ''),
    image_ref   TEXT,
    version     INTEGER NOT NULL DEFAULT 1,
    created_at  DATETIME NOT NULL,
    updated_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS claims (
    id          TEXT PRIMARY KEY,
    item_id     TEXT NOT NULL REFERENCES items(id),
    claimant_id TEXT NOT NULL REFERENCES users(id),
    message     TEXT NOT NULL CHECK (message <> ''),
    status      TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'rejected')),
    created_at  DATETIME NOT NULL,
    resolved_at DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_claims_active_claimant
    ON claims(item_id, claimant_id) WHERE status IN ('pending', 'approved');

CREATE UNIQUE INDEX IF NOT EXISTS idx_claims_approved_item
    ON claims(item_id) WHERE status = 'approved';

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
