// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Connecting

Open accepts "sqlite" (modernc.org/sqlite) or "postgres" (lib/pq):

	conn, err := db.Open("sqlite", "file:rank.db")

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - ranked_item: one row per (user_id, item_id) with its 1-based position

UNIQUE (user_id, position) backs the dense ordering at the storage level.
Only the store package writes positions.
*/
package db
