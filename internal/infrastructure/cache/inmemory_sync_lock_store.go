package cache

import (
	"context"
	"sync"
	"time"

	"github.com/billsync/backend/internal/domain/shared"
)

// lockEntry represents a held lock with expiration
type lockEntry struct {
	expiresAt time.Time
}

// InMemorySyncLockStore implements SyncLockStore using an in-memory map.
// This is suitable for single-instance deployments and testing.
type InMemorySyncLockStore struct {
	mu        sync.Mutex
	locks     map[string]lockEntry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemorySyncLockStore creates a new in-memory sync lock store.
// It starts a background goroutine to clean up expired locks.
func NewInMemorySyncLockStore() *InMemorySyncLockStore {
	store := &InMemorySyncLockStore{
		locks:    make(map[string]lockEntry),
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop()

	return store
}

// Acquire takes the lock if it is free or expired
func (s *InMemorySyncLockStore) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, held := s.locks[key]; held && time.Now().Before(e.expiresAt) {
		return false, nil
	}

	s.locks[key] = lockEntry{expiresAt: time.Now().Add(ttl)}
	return true, nil
}

// Release drops the lock. Releasing an unheld lock is a no-op.
func (s *InMemorySyncLockStore) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.locks, key)
	return nil
}

// Close stops the cleanup goroutine and releases resources
// Safe to call multiple times
func (s *InMemorySyncLockStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired locks
func (s *InMemorySyncLockStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

// cleanup removes expired locks from the store
func (s *InMemorySyncLockStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, e := range s.locks {
		if now.After(e.expiresAt) {
			delete(s.locks, key)
		}
	}
}

// Ensure InMemorySyncLockStore implements SyncLockStore
var _ shared.SyncLockStore = (*InMemorySyncLockStore)(nil)
