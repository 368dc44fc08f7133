package storage

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

const registryKey = "registry"

// BadgerStore keeps the blob under a single metadata key of a badger DB.
// Badger commits each Update transaction atomically, so a failed Save leaves
// the previous value in place.
type BadgerStore struct {
	db  *badger.DB
	dir string
	mu  sync.RWMutex
}

func NewBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	return &BadgerStore{
		db:  db,
		dir: dir,
	}, nil
}

func (s *BadgerStore) Location() string {
	return s.dir
}

func (s *BadgerStore) Load() ([]byte, error) {
	return s.LoadMetadata(registryKey)
}

func (s *BadgerStore) Save(data []byte) error {
	return s.SaveMetadata(registryKey, data)
}

func (s *BadgerStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Close()
}

func metaKey(name string) []byte {
	return []byte("meta:" + name)
}

func (s *BadgerStore) SaveMetadata(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(metaKey(key), data)
	})
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (s *BadgerStore) LoadMetadata(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(metaKey(key))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			result = make([]byte, len(val))
			copy(result, val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: key %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}

	return result, nil
}
