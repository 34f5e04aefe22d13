// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"path/filepath"
	"testing"
)

func TestOpenSQLite(t *testing.T) {
	conn, err := Open(TypeSQLite, filepath.Join(t.TempDir(), "rank.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer conn.Close()

	if got := conn.Stats().MaxOpenConnections; got != 1 {
		t.Errorf("Expected sqlite to use 1 connection, got %d", got)
	}

	var mode string
	if err := conn.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatal(err)
	}
	if mode != "wal" {
		t.Errorf("Expected WAL journal mode, got %q", mode)
	}
}

func TestOpenRejectsUnknownType(t *testing.T) {
	if _, err := Open("mysql", "whatever"); err == nil {
		t.Error("Expected error for unsupported database type")
	}
}

func TestSchema(t *testing.T) {
	conn, err := Open(TypeSQLite, filepath.Join(t.TempDir(), "rank.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	// Creating twice is fine
	for i := 0; i < 2; i++ {
		if err := CreateSchema(conn); err != nil {
			t.Fatalf("CreateSchema() call %d error = %v", i+1, err)
		}
	}

	insert := `INSERT INTO ranked_item (user_id, item_id, position, sentiment, ranked_at) VALUES ($1, $2, $3, $4, 0)`

	testCases := []struct {
		name      string
		userID    string
		itemID    string
		position  int
		sentiment any
		wantErr   bool
	}{
		{"first row", "u1", "a", 1, nil, false},
		{"second row", "u1", "b", 2, "favored", false},
		{"same item twice", "u1", "a", 3, nil, true},
		{"same position twice", "u1", "c", 2, nil, true},
		{"same position other user", "u2", "c", 2, nil, false},
		{"unknown sentiment", "u1", "d", 4, "ecstatic", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := conn.Exec(insert, tc.userID, tc.itemID, tc.position, tc.sentiment)
			if (err != nil) != tc.wantErr {
				t.Errorf("insert error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}

	if err := DropSchema(conn); err != nil {
		t.Fatalf("DropSchema() error = %v", err)
	}
	if _, err := conn.Exec(insert, "u1", "a", 1, nil); err == nil {
		t.Error("Expected insert to fail after DropSchema")
	}
}
