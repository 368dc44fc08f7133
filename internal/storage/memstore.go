package storage

import (
	"fmt"
	"sync"
)

// MemStore keeps the blob in memory. SaveErr, when set, makes Save fail
// without touching the stored blob.
type MemStore struct {
	mu      sync.RWMutex
	data    []byte
	saved   bool
	SaveErr error
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Location() string {
	return "memory"
}

func (s *MemStore) Load() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.saved {
		return nil, fmt.Errorf("%w in memory store", ErrNotFound)
	}

	result := make([]byte, len(s.data))
	copy(result, s.data)
	return result, nil
}

func (s *MemStore) Save(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SaveErr != nil {
		return s.SaveErr
	}

	s.data = make([]byte, len(data))
	copy(s.data, data)
	s.saved = true
	return nil
}

func (s *MemStore) Close() error {
	return nil
}
