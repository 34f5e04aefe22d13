// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"sync"
)

// userLocks hands out one lock per user. Entries are dropped once nobody
// holds or waits on them, so the map only grows with concurrent users.
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*userLock
}

type userLock struct {
	sem  chan struct{}
	refs int
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[string]*userLock)}
}

// acquire blocks until the user's lock is held or ctx is done
func (l *userLocks) acquire(ctx context.Context, userID string) (release func(), err error) {
	l.mu.Lock()
	ul, ok := l.locks[userID]
	if !ok {
		ul = &userLock{sem: make(chan struct{}, 1)}
		l.locks[userID] = ul
	}
	ul.refs++
	l.mu.Unlock()

	select {
	case ul.sem <- struct{}{}:
	case <-ctx.Done():
		l.drop(userID, ul)
		return nil, fmt.Errorf("waiting for lock on user %s: %w", userID, ctx.Err())
	}

	return func() {
		<-ul.sem
		l.drop(userID, ul)
	}, nil
}

func (l *userLocks) drop(userID string, ul *userLock) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ul.refs--
	if ul.refs == 0 {
		delete(l.locks, userID)
	}
}

// size is the number of users with a held or awaited lock
func (l *userLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
