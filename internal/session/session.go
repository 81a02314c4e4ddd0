// Package session provides the key/value store behind login sessions and
// assistant conversations.
package session

import (
	"context"
	"fmt"
	"time"
)

// Store is a small key/value store with per-entry expiry. A ttl of zero
// keeps the entry until it is cleared.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Clear(ctx context.Context, key string) error
	Close() error
}

// Open returns a SQLite-backed store when path is set and an in-memory one
// otherwise.
func Open(path string) (Store, error) {
	if path == "" {
		return NewMemory(), nil
	}
	s, err := NewSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	return s, nil
}

func expiry(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}
