package shared

import (
	"context"
	"time"
)

// SyncLockStore provides short-lived exclusive locks keyed by aggregate.
// It is used to keep concurrent sync attempts for the same payment request
// from racing each other against the accounting provider.
type SyncLockStore interface {
	// Acquire attempts to take the lock identified by key for the given TTL.
	// It returns true if the lock was acquired, false if another holder owns it.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release drops the lock identified by key. Releasing a lock that is not
	// held is not an error.
	Release(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}
