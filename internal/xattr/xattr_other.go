//go:build !linux

package xattr

import "fmt"

func Set(path, key, value string) error {
	return fmt.Errorf("setxattr %s: %w", path, ErrUnsupported)
}

func Get(path, key string) (string, error) {
	return "", fmt.Errorf("getxattr %s: %w", path, ErrUnsupported)
}

func List(path string) ([]Attr, error) {
	return nil, fmt.Errorf("listxattr %s: %w", path, ErrUnsupported)
}

func Remove(path, key string) error {
	return fmt.Errorf("removexattr %s: %w", path, ErrUnsupported)
}
