package entry

import "github.com/v0rts/wutag/internal/ids"

// Entry is a tracked filesystem path. Two entries are the same entry when
// their paths are equal; the ID is assigned by the registry.
type Entry struct {
	Path string
}

func New(path string) Entry {
	return Entry{Path: path}
}

func (e Entry) Equal(other Entry) bool {
	return e.Path == other.Path
}

// WithID pairs an entry with the id the registry assigned to it.
type WithID struct {
	ID    ids.EntryID
	Entry Entry
}
