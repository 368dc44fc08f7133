package registry

import "errors"

var (
	// ErrNotFound means no registry has been saved at the bound location yet.
	ErrNotFound = errors.New("registry not found")
	// ErrCorrupt means the stored registry could not be decoded.
	ErrCorrupt = errors.New("corrupt registry")
	// ErrIO wraps read and write failures of the backing store.
	ErrIO = errors.New("registry i/o failure")
)
