// Package repository provides the TTL key-value stores that memoize catalog
// lookups and finished reports, plus the cached catalog decorator.
package repository

import (
	"context"
	"time"
)

// Store is a byte-oriented key-value cache with per-entry expiry.
type Store interface {
	// Get returns the value for key, or ErrNotFound when absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key for ttl; ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the store.
	Close() error
}
