// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// DropSchema removes all application tables
func DropSchema(db *sql.DB) error {
	_, err := db.Exec(`DROP TABLE IF EXISTS ranked_item`)
	if err != nil {
		return fmt.Errorf("failed to drop schema: %w", err)
	}

	return nil
}

// The schema is shared by sqlite and postgres. Timestamps are unix seconds
// so both drivers scan them the same way.
const schema = `
-- Ranked items, one row per (user, item)
CREATE TABLE IF NOT EXISTS ranked_item (
    user_id TEXT NOT NULL,
    item_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    sentiment TEXT CHECK (sentiment IS NULL OR sentiment IN ('neutral', 'favored', 'disfavored')),
    ranked_at BIGINT NOT NULL,
    PRIMARY KEY (user_id, item_id),
    UNIQUE (user_id, position)
);

CREATE INDEX IF NOT EXISTS idx_ranked_item_user_id ON ranked_item(user_id);
`
