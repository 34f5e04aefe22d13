// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/danielhkuo/quickly-rank/models"
)

// Dialect selects database specific statements
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

var (
	ErrInvalidPosition        = errors.New("invalid position")
	ErrDuplicateItem          = errors.New("item already ranked")
	ErrNotFound               = errors.New("item not ranked")
	ErrConcurrentModification = errors.New("ranked list modified concurrently")
	ErrEmptyID                = errors.New("user_id and item_id are required")
	ErrInvalidSentiment       = errors.New("invalid sentiment")
)

// Store owns every user's ranked list. All mutations run in one transaction
// under a per-user lock and leave positions exactly 1..N.
type Store struct {
	db      *sql.DB
	dialect Dialect
	locks   *userLocks
	metrics *Metrics
	now     func() time.Time
}

// New wraps an open database whose schema was created by db.CreateSchema.
// metrics may be nil.
func New(db *sql.DB, dialect Dialect, metrics *Metrics) *Store {
	return &Store{
		db:      db,
		dialect: dialect,
		locks:   newUserLocks(),
		metrics: metrics,
		now:     time.Now,
	}
}

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// List returns the user's items ordered by position
func (s *Store) List(ctx context.Context, userID string) ([]models.RankedItem, error) {
	start := time.Now()
	items, err := listRows(ctx, s.db, userID)
	s.metrics.observe(opList, err, time.Since(start))
	return items, err
}

// Insert places itemID at position, shifting every item at or below it down by one.
// position must be in [1, N+1].
func (s *Store) Insert(ctx context.Context, userID, itemID string, position int, sentiment models.Sentiment) ([]models.RankedItem, error) {
	return s.insert(ctx, userID, itemID, position, sentiment, nil)
}

// InsertIfUnchanged is Insert that first checks the user's list still holds
// exactly snapshot, in order. Any difference fails with ErrConcurrentModification.
func (s *Store) InsertIfUnchanged(ctx context.Context, userID, itemID string, position int, sentiment models.Sentiment, snapshot []string) ([]models.RankedItem, error) {
	if snapshot == nil {
		snapshot = []string{}
	}
	return s.insert(ctx, userID, itemID, position, sentiment, snapshot)
}

// insert skips the snapshot check when snapshot is nil
func (s *Store) insert(ctx context.Context, userID, itemID string, position int, sentiment models.Sentiment, snapshot []string) ([]models.RankedItem, error) {
	if userID == "" || itemID == "" {
		return nil, ErrEmptyID
	}
	if !sentiment.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSentiment, sentiment)
	}

	var items []models.RankedItem
	err := s.withUser(ctx, opInsert, userID, func(tx *sql.Tx) error {
		if snapshot != nil {
			current, err := listRows(ctx, tx, userID)
			if err != nil {
				return err
			}
			if !slices.Equal(itemIDs(current), snapshot) {
				return fmt.Errorf("%w: list for user %s changed since the interview began",
					ErrConcurrentModification, userID)
			}
		}

		n, err := count(ctx, tx, userID)
		if err != nil {
			return err
		}

		_, found, err := positionOf(ctx, tx, userID, itemID)
		if err != nil {
			return err
		}
		if found {
			return fmt.Errorf("%w: %s", ErrDuplicateItem, itemID)
		}

		if position < 1 || position > n+1 {
			return fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidPosition, position, n+1)
		}

		if err := shift(ctx, tx, userID, position, n, 1); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO ranked_item (user_id, item_id, position, sentiment, ranked_at)
			VALUES ($1, $2, $3, $4, $5)
		`, userID, itemID, position, nullSentiment(sentiment), s.now().Unix())
		if err != nil {
			return fmt.Errorf("failed to insert ranked item: %w", err)
		}

		if err := verifyDense(ctx, tx, userID, n+1); err != nil {
			return err
		}

		items, err = listRows(ctx, tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Remove deletes itemID and closes the gap it leaves
func (s *Store) Remove(ctx context.Context, userID, itemID string) ([]models.RankedItem, error) {
	if userID == "" || itemID == "" {
		return nil, ErrEmptyID
	}

	var items []models.RankedItem
	err := s.withUser(ctx, opRemove, userID, func(tx *sql.Tx) error {
		removed, found, err := positionOf(ctx, tx, userID, itemID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: %s", ErrNotFound, itemID)
		}

		n, err := count(ctx, tx, userID)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			DELETE FROM ranked_item WHERE user_id = $1 AND item_id = $2
		`, userID, itemID)
		if err != nil {
			return fmt.Errorf("failed to delete ranked item: %w", err)
		}

		if err := shift(ctx, tx, userID, removed+1, n, -1); err != nil {
			return err
		}

		if err := verifyDense(ctx, tx, userID, n-1); err != nil {
			return err
		}

		items, err = listRows(ctx, tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Move relocates itemID to newPosition in [1, N]. Items between the old and
// new position shift by one toward the vacated slot.
func (s *Store) Move(ctx context.Context, userID, itemID string, newPosition int) ([]models.RankedItem, error) {
	if userID == "" || itemID == "" {
		return nil, ErrEmptyID
	}

	var items []models.RankedItem
	err := s.withUser(ctx, opMove, userID, func(tx *sql.Tx) error {
		old, found, err := positionOf(ctx, tx, userID, itemID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: %s", ErrNotFound, itemID)
		}

		n, err := count(ctx, tx, userID)
		if err != nil {
			return err
		}
		if newPosition < 1 || newPosition > n {
			return fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidPosition, newPosition, n)
		}

		if newPosition != old {
			// Park the moved item at 0 so the shifted range can take its slot
			if err := setPosition(ctx, tx, userID, itemID, 0); err != nil {
				return err
			}

			if newPosition < old {
				err = shift(ctx, tx, userID, newPosition, old-1, 1)
			} else {
				err = shift(ctx, tx, userID, old+1, newPosition, -1)
			}
			if err != nil {
				return err
			}

			if err := setPosition(ctx, tx, userID, itemID, newPosition); err != nil {
				return err
			}

			if err := verifyDense(ctx, tx, userID, n); err != nil {
				return err
			}
		}

		items, err = listRows(ctx, tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// SetSentiment changes an item's sentiment tag without touching positions
func (s *Store) SetSentiment(ctx context.Context, userID, itemID string, sentiment models.Sentiment) ([]models.RankedItem, error) {
	if userID == "" || itemID == "" {
		return nil, ErrEmptyID
	}
	if !sentiment.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSentiment, sentiment)
	}

	var items []models.RankedItem
	err := s.withUser(ctx, opSentiment, userID, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE ranked_item SET sentiment = $1
			WHERE user_id = $2 AND item_id = $3
		`, nullSentiment(sentiment), userID, itemID)
		if err != nil {
			return fmt.Errorf("failed to update sentiment: %w", err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, itemID)
		}

		items, err = listRows(ctx, tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// withUser runs fn in a transaction while holding the user's lock.
// Any error rolls back the whole transaction.
func (s *Store) withUser(ctx context.Context, op, userID string, fn func(tx *sql.Tx) error) error {
	start := time.Now()
	err := s.runLocked(ctx, userID, fn)
	s.metrics.observe(op, err, time.Since(start))
	return err
}

func (s *Store) runLocked(ctx context.Context, userID string, fn func(tx *sql.Tx) error) error {
	release, err := s.locks.acquire(ctx, userID)
	if err != nil {
		return err
	}
	defer release()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// The in-process lock does not cover other server instances
	if s.dialect == DialectPostgres {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, userID); err != nil {
			return fmt.Errorf("failed to take advisory lock: %w", err)
		}
	}

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func listRows(ctx context.Context, q querier, userID string) ([]models.RankedItem, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT user_id, item_id, position, sentiment, ranked_at
		FROM ranked_item
		WHERE user_id = $1
		ORDER BY position
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ranked items: %w", err)
	}
	defer rows.Close()

	items := []models.RankedItem{}
	for rows.Next() {
		var item models.RankedItem
		var sentiment sql.NullString
		if err := rows.Scan(&item.UserID, &item.ItemID, &item.Position, &sentiment, &item.RankedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ranked item: %w", err)
		}
		item.Sentiment = models.Sentiment(sentiment.String)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ranked items: %w", err)
	}
	return items, nil
}

func count(ctx context.Context, q querier, userID string) (int, error) {
	var n int
	err := q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM ranked_item WHERE user_id = $1
	`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count ranked items: %w", err)
	}
	return n, nil
}

func positionOf(ctx context.Context, q querier, userID, itemID string) (int, bool, error) {
	var position int
	err := q.QueryRowContext(ctx, `
		SELECT position FROM ranked_item WHERE user_id = $1 AND item_id = $2
	`, userID, itemID).Scan(&position)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to query position: %w", err)
	}
	return position, true, nil
}

func setPosition(ctx context.Context, q querier, userID, itemID string, position int) error {
	_, err := q.ExecContext(ctx, `
		UPDATE ranked_item SET position = $1 WHERE user_id = $2 AND item_id = $3
	`, position, userID, itemID)
	if err != nil {
		return fmt.Errorf("failed to set position: %w", err)
	}
	return nil
}

// shift adds delta to every position in [from, to]. Rows pass through
// negative positions so UNIQUE (user_id, position) holds after every row update.
func shift(ctx context.Context, q querier, userID string, from, to, delta int) error {
	if from > to {
		return nil
	}

	_, err := q.ExecContext(ctx, `
		UPDATE ranked_item SET position = -(position + $1)
		WHERE user_id = $2 AND position >= $3 AND position <= $4
	`, delta, userID, from, to)
	if err != nil {
		return fmt.Errorf("failed to shift positions: %w", err)
	}

	_, err = q.ExecContext(ctx, `
		UPDATE ranked_item SET position = -position
		WHERE user_id = $1 AND position < 0
	`, userID)
	if err != nil {
		return fmt.Errorf("failed to restore shifted positions: %w", err)
	}
	return nil
}

// verifyDense checks that the user's positions are exactly 1..want.
// A mismatch means the snapshot used for the shift went stale.
func verifyDense(ctx context.Context, q querier, userID string, want int) error {
	var total, distinct, lowest, highest int
	err := q.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT position), COALESCE(MIN(position), 0), COALESCE(MAX(position), 0)
		FROM ranked_item WHERE user_id = $1
	`, userID).Scan(&total, &distinct, &lowest, &highest)
	if err != nil {
		return fmt.Errorf("failed to verify positions: %w", err)
	}

	dense := total == want && distinct == want
	if want > 0 {
		dense = dense && lowest == 1 && highest == want
	}
	if !dense {
		return fmt.Errorf("%w: user %s has %d rows over [%d, %d], expected 1..%d",
			ErrConcurrentModification, userID, total, lowest, highest, want)
	}
	return nil
}

func itemIDs(items []models.RankedItem) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ItemID
	}
	return ids
}

func nullSentiment(s models.Sentiment) sql.NullString {
	return sql.NullString{String: string(s), Valid: s != models.SentimentNone}
}
