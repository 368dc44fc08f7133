//go:build linux

package xattr

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sys/unix"
)

const maxRetries = 3

func mapErr(op, path string, err error) error {
	var sentinel error
	switch {
	case errors.Is(err, unix.ENOENT):
		sentinel = ErrFileNotFound
	case errors.Is(err, unix.EEXIST):
		sentinel = ErrAlreadyExists
	case errors.Is(err, unix.ENODATA):
		sentinel = ErrNotFound
	case errors.Is(err, unix.ENOTSUP):
		sentinel = ErrUnsupported
	default:
		return fmt.Errorf("%s %s: %w", op, path, err)
	}
	return fmt.Errorf("%s %s: %w: %w", op, path, sentinel, err)
}

// Set creates the attribute key on path. It fails with ErrAlreadyExists when
// key is already present.
func Set(path, key, value string) error {
	if err := unix.Setxattr(path, key, []byte(value), unix.XATTR_CREATE); err != nil {
		return mapErr("setxattr", path, err)
	}
	return nil
}

func Get(path, key string) (string, error) {
	for i := 0; i < maxRetries; i++ {
		size, err := unix.Getxattr(path, key, nil)
		if err != nil {
			return "", mapErr("getxattr", path, err)
		}

		buf := make([]byte, size)
		n, err := unix.Getxattr(path, key, buf)
		if errors.Is(err, unix.ERANGE) {
			continue
		}
		if err != nil {
			return "", mapErr("getxattr", path, err)
		}
		return string(buf[:n]), nil
	}
	return "", fmt.Errorf("getxattr %s: %w", path, ErrAttrsChanged)
}

// List returns every attribute of path with its value.
func List(path string) ([]Attr, error) {
	keys, err := listKeys(path)
	if err != nil {
		return nil, err
	}

	attrs := make([]Attr, 0, len(keys))
	for _, key := range keys {
		value, err := Get(path, key)
		if errors.Is(err, ErrNotFound) {
			// removed between list and get
			continue
		}
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, Attr{Key: key, Value: value})
	}
	return attrs, nil
}

// Remove deletes key from path. It fails with ErrNotFound when key is absent.
func Remove(path, key string) error {
	if err := unix.Removexattr(path, key); err != nil {
		return mapErr("removexattr", path, err)
	}
	return nil
}

func listKeys(path string) ([]string, error) {
	for i := 0; i < maxRetries; i++ {
		size, err := unix.Listxattr(path, nil)
		if err != nil {
			return nil, mapErr("listxattr", path, err)
		}
		if size == 0 {
			return nil, nil
		}

		buf := make([]byte, size)
		n, err := unix.Listxattr(path, buf)
		if errors.Is(err, unix.ERANGE) {
			continue
		}
		if err != nil {
			return nil, mapErr("listxattr", path, err)
		}

		var keys []string
		for _, k := range strings.Split(string(buf[:n]), "\x00") {
			if k != "" {
				keys = append(keys, k)
			}
		}
		return keys, nil
	}
	return nil, fmt.Errorf("listxattr %s: %w", path, ErrAttrsChanged)
}
