// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists each user's ranked list and keeps its positions dense.

Every user's items occupy positions 1..N with no gaps or duplicates. Each
mutation returns the full list as it stands after the change:

	s := store.New(conn, store.DialectSQLite, metrics)

	items, err := s.Insert(ctx, userID, itemID, 3, models.SentimentFavored)
	items, err = s.Move(ctx, userID, itemID, 1)
	items, err = s.SetSentiment(ctx, userID, itemID, models.SentimentNone)
	items, err = s.Remove(ctx, userID, itemID)

# Concurrency

Writes for the same user are serialized by an in-process lock keyed on the
user ID and run inside one transaction. Postgres additionally takes a
transaction scoped advisory lock so several server instances can share a
database. Writes for different users do not wait on each other.

After shifting, each write re-reads the positions and fails with
ErrConcurrentModification if they are not exactly 1..N. The transaction is
rolled back and the caller may retry.

# Errors

	ErrInvalidPosition         position outside [1, N+1] for insert or [1, N] for move
	ErrDuplicateItem           item already ranked for this user
	ErrNotFound                item not ranked for this user
	ErrConcurrentModification  positions were not dense after the write
	ErrEmptyID                 missing user or item ID
	ErrInvalidSentiment        sentiment outside the known tags

# Metrics

NewMetrics builds a counter of operations by outcome and a latency
histogram. Pass nil to New to disable them.
*/
package store
