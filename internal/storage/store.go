package storage

import "errors"

// ErrNotFound is returned by Load when nothing has been saved yet.
var ErrNotFound = errors.New("registry blob not found")

// Store holds the single serialized registry blob. Save replaces the blob
// wholesale; a failed Save must leave the previously saved blob readable.
type Store interface {
	Load() ([]byte, error)
	Save(data []byte) error
	Location() string
	Close() error
}
