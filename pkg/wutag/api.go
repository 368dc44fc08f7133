// Package wutag describes the operations the wutag command line exposes.
package wutag

import (
	"context"

	"github.com/v0rts/wutag/internal/tag"
)

// TagAPI changes the tags of files matched by a glob pattern.
type TagAPI interface {
	Set(ctx context.Context, pattern string, names []string) error
	Remove(ctx context.Context, pattern string, names []string) error
	Clear(ctx context.Context, pattern string) error
	Copy(ctx context.Context, src, pattern string) error
}

// QueryAPI reads tags and tagged files.
type QueryAPI interface {
	ListTags(raw bool) []tag.Tag
	ListFiles(withTags, raw bool) []string
	Search(ctx context.Context, names []string, anyTag, raw bool) ([]string, error)
}

// RegistryAPI manages the tag registry itself.
type RegistryAPI interface {
	EditColor(name, color string) error
	CleanCache()
	Dirty() bool
	Save() error
}

type API interface {
	TagAPI
	QueryAPI
	RegistryAPI
}
