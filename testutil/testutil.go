// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-rank/cliparse"
	"github.com/danielhkuo/quickly-rank/db"
)

// SetupTestDB creates a fresh sqlite database with the full schema in a
// per-test temp dir. It is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "rank.db")
	conn, err := db.Open(db.TypeSQLite, path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:              3318,
		DatabaseURL:       ":memory:",
		DatabaseType:      db.TypeSQLite,
		SessionSalt:       "test-session-salt",
		LogLevel:          "info",
		TriageThreshold:   6,
		SentimentBias:     0.25,
		MinRankedForScore: 10,
	}
}

// SeedRanking writes items for a user at positions 1..len(itemIDs),
// bypassing the store. Returns the item IDs for convenience.
func SeedRanking(t *testing.T, conn *sql.DB, userID string, itemIDs ...string) []string {
	t.Helper()

	for i, itemID := range itemIDs {
		_, err := conn.Exec(`
			INSERT INTO ranked_item (user_id, item_id, position, sentiment, ranked_at)
			VALUES ($1, $2, $3, NULL, $4)
		`, userID, itemID, i+1, time.Now().Unix())
		if err != nil {
			t.Fatalf("Failed to seed ranked item: %v", err)
		}
	}

	return itemIDs
}

// ItemIDs builds n item IDs named prefix1..prefixN
func ItemIDs(prefix string, n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("%s%d", prefix, i+1)
	}
	return ids
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
