package storage

import (
	"context"
	"fmt"
	"sync"

	syncapp "github.com/billsync/backend/internal/application/sync"
)

// Ensure InMemoryAttachmentStore implements the application port
var _ syncapp.AttachmentStore = (*InMemoryAttachmentStore)(nil)

// InMemoryAttachmentStore keeps attachment bytes in process memory.
// It backs the stub storage provider used in development and tests.
type InMemoryAttachmentStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewInMemoryAttachmentStore creates an empty in-memory attachment store
func NewInMemoryAttachmentStore() *InMemoryAttachmentStore {
	return &InMemoryAttachmentStore{
		objects: make(map[string][]byte),
	}
}

// Fetch returns the attachment bytes stored under the given key
func (s *InMemoryAttachmentStore) Fetch(_ context.Context, storageKey string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.objects[storageKey]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, storageKey)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Upload stores attachment bytes under the given key
func (s *InMemoryAttachmentStore) Upload(_ context.Context, storageKey string, data []byte, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	s.objects[storageKey] = stored
	return nil
}

// Delete removes the attachment stored under the given key
func (s *InMemoryAttachmentStore) Delete(_ context.Context, storageKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.objects, storageKey)
	return nil
}

// Len returns the number of stored objects
func (s *InMemoryAttachmentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
