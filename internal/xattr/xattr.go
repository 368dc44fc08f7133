// Package xattr reads and writes extended attributes, the authoritative
// on-disk store of tags. Tags live in the user.wutag namespace with the tag
// name as the attribute value.
package xattr

import (
	"errors"
	"strings"

	"github.com/v0rts/wutag/internal/index"
)

// Namespace prefixes every attribute key written by this package.
const Namespace = "user.wutag"

var (
	ErrNotFound      = errors.New("attribute not found")
	ErrAlreadyExists = errors.New("attribute already exists")
	ErrFileNotFound  = errors.New("file not found")
	ErrUnsupported   = errors.New("extended attributes not supported")
	ErrAttrsChanged  = errors.New("attributes changed while reading them")

	ErrTagExists   = errors.New("tag already exists")
	ErrTagNotFound = errors.New("tag doesn't exist")
)

// Attr is a single extended attribute.
type Attr struct {
	Key   string
	Value string
}

func tagKey(name string) string {
	return Namespace + "." + name
}

func inNamespace(key string) bool {
	return strings.HasPrefix(key, Namespace+".")
}

// TagFile adds the tag name to path.
func TagFile(path, name string) error {
	tags, err := ListTags(path)
	if err != nil {
		return err
	}
	for _, t := range tags {
		if t == name {
			return ErrTagExists
		}
	}

	if err := Set(path, tagKey(name), name); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return ErrTagExists
		}
		return err
	}
	return nil
}

// ListTags returns the tag names stored on path in attribute order.
func ListTags(path string) ([]string, error) {
	attrs, err := List(path)
	if err != nil {
		return nil, err
	}

	tags := make([]string, 0, len(attrs))
	for _, a := range attrs {
		if inNamespace(a.Key) {
			tags = append(tags, a.Value)
		}
	}
	return tags, nil
}

// RemoveTag removes the tag name from path. Only attributes inside the
// namespace are considered.
func RemoveTag(path, name string) error {
	attrs, err := List(path)
	if err != nil {
		return err
	}

	for _, a := range attrs {
		if a.Value == name && inNamespace(a.Key) {
			return Remove(path, a.Key)
		}
	}

	return ErrTagNotFound
}

// ClearTags removes every tag from path.
func ClearTags(path string) error {
	attrs, err := List(path)
	if err != nil {
		return err
	}

	for _, a := range attrs {
		if !inNamespace(a.Key) {
			continue
		}
		if err := Remove(path, a.Key); err != nil {
			return err
		}
	}
	return nil
}

// HasAllTags reports whether path carries every one of names.
func HasAllTags(path string, names []string) (bool, error) {
	tags, err := ListTags(path)
	if err != nil {
		return false, err
	}

	return index.NewSet(names...).IsSubset(index.NewSet(tags...)), nil
}

// FS is the attribute store backed by the real filesystem.
type FS struct{}

func (FS) TagFile(path, name string) error {
	return TagFile(path, name)
}

func (FS) ListTags(path string) ([]string, error) {
	return ListTags(path)
}

func (FS) RemoveTag(path, name string) error {
	return RemoveTag(path, name)
}

func (FS) ClearTags(path string) error {
	return ClearTags(path)
}

func (FS) HasAllTags(path string, names []string) (bool, error) {
	return HasAllTags(path, names)
}
