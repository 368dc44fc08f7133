// Package registry implements the tag index: a bidirectional mapping between
// tags and the entries (paths) they are applied to.
//
// Tags and entries are garbage collected as soon as they stop referencing
// each other: a tag whose last entry is removed disappears, and so does an
// entry whose last tag is removed. The whole index lives in memory and is
// only written when Save is called.
//
// A Registry is not safe for concurrent use.
package registry

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/v0rts/wutag/internal/entry"
	"github.com/v0rts/wutag/internal/ids"
	"github.com/v0rts/wutag/internal/index"
	"github.com/v0rts/wutag/internal/persistence"
	"github.com/v0rts/wutag/internal/storage"
	"github.com/v0rts/wutag/internal/tag"
)

// tagNode is keyed by name in Registry.tags, so the color can change
// without moving the node.
type tagNode struct {
	tag     tag.Tag
	entries []ids.EntryID
}

func (n *tagNode) position(id ids.EntryID) int {
	return slices.Index(n.entries, id)
}

type Registry struct {
	tags    map[string]*tagNode
	entries map[ids.EntryID]entry.Entry
	idGen   *ids.Generator
	store   storage.Store
}

// New creates an empty registry that will be saved to the file at path. The
// file is not touched until Save.
func New(path string) *Registry {
	return NewWithStore(storage.NewFileStore(path))
}

func NewWithStore(store storage.Store) *Registry {
	return &Registry{
		tags:    make(map[string]*tagNode),
		entries: make(map[ids.EntryID]entry.Entry),
		idGen:   ids.NewGenerator(),
		store:   store,
	}
}

// Load reads the registry saved in the file at path.
func Load(path string) (*Registry, error) {
	return LoadFrom(storage.NewFileStore(path))
}

// LoadFrom reads the registry saved in store. A missing blob is reported as
// ErrNotFound and an undecodable one as ErrCorrupt; neither yields an empty
// registry.
func LoadFrom(store storage.Store) (*Registry, error) {
	data, err := store.Load()
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}

	snap, err := persistence.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, store.Location(), err)
	}

	r := NewWithStore(store)
	r.restore(snap)
	return r, nil
}

// Save writes the full registry to its store. On failure the in-memory
// state is unchanged and the stored copy is stale.
func (r *Registry) Save() error {
	data, err := persistence.Encode(r.snapshot())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	if err := r.store.Save(data); err != nil {
		return fmt.Errorf("%w: save %s: %w", ErrIO, r.store.Location(), err)
	}

	return nil
}

// Location describes where the registry is persisted.
func (r *Registry) Location() string {
	return r.store.Location()
}

func (r *Registry) Close() error {
	return r.store.Close()
}

// Clear removes all tags and entries. Nothing is persisted.
func (r *Registry) Clear() {
	clear(r.tags)
	clear(r.entries)
}

// Len returns the number of tags and entries.
func (r *Registry) Len() (tags, entries int) {
	return len(r.tags), len(r.entries)
}

// AddOrUpdateEntry stores e and returns its id. An entry with the same path
// keeps its id; otherwise a fresh id is assigned.
func (r *Registry) AddOrUpdateEntry(e entry.Entry) ids.EntryID {
	if id, ok := r.FindEntry(e.Path); ok {
		r.entries[id] = e
		return id
	}

	id := r.idGen.NextEntry()
	r.entries[id] = e
	return id
}

// TagEntry applies t to the entry with id. It returns (id, true) when the
// entry already had the tag and (0, false) otherwise. The color of an
// existing tag is kept.
//
// A false result does not mean the tag was applied: calls with an unknown
// entry id or a tag name rejected by tag.ValidateName are ignored and also
// return (0, false). Check with ListEntryTags when that matters.
func (r *Registry) TagEntry(t tag.Tag, id ids.EntryID) (ids.EntryID, bool) {
	if _, ok := r.entries[id]; !ok {
		return 0, false
	}
	if tag.ValidateName(t.Name) != nil {
		return 0, false
	}

	node, ok := r.tags[t.Name]
	if !ok {
		node = &tagNode{tag: t}
		r.tags[t.Name] = node
	}

	if node.position(id) >= 0 {
		return id, true
	}

	node.entries = append(node.entries, id)
	return 0, false
}

// UntagEntry removes t from the entry with id. When that was the entry's
// last tag the entry is removed as well and returned with true, telling the
// caller to clean up the on-disk attributes.
func (r *Registry) UntagEntry(t tag.Tag, id ids.EntryID) (entry.Entry, bool) {
	node, ok := r.tags[t.Name]
	if !ok {
		return entry.Entry{}, false
	}

	pos := node.position(id)
	if pos < 0 {
		return entry.Entry{}, false
	}

	node.entries = slices.Delete(node.entries, pos, pos+1)
	if len(node.entries) == 0 {
		delete(r.tags, t.Name)
	}

	if r.isTagged(id) {
		return entry.Entry{}, false
	}

	e, ok := r.entries[id]
	delete(r.entries, id)
	return e, ok
}

// UntagByName is UntagEntry for the tag called name.
func (r *Registry) UntagByName(name string, id ids.EntryID) (entry.Entry, bool) {
	t, ok := r.GetTag(name)
	if !ok {
		return entry.Entry{}, false
	}
	return r.UntagEntry(t, id)
}

// ClearEntry removes every tag from the entry with id and then the entry.
func (r *Registry) ClearEntry(id ids.EntryID) {
	for name, node := range r.tags {
		pos := node.position(id)
		if pos < 0 {
			continue
		}
		node.entries = slices.Delete(node.entries, pos, pos+1)
		if len(node.entries) == 0 {
			delete(r.tags, name)
		}
	}

	delete(r.entries, id)
}

// FindEntry returns the id of the entry stored with path.
func (r *Registry) FindEntry(path string) (ids.EntryID, bool) {
	want := entry.New(path)
	for id, e := range r.entries {
		if e.Equal(want) {
			return id, true
		}
	}
	return 0, false
}

// ListEntryTags returns the tags of the entry with id, sorted by name, or
// false when the entry has none.
func (r *Registry) ListEntryTags(id ids.EntryID) ([]tag.Tag, bool) {
	var tags []tag.Tag
	for _, node := range r.tags {
		if node.position(id) >= 0 {
			tags = append(tags, node.tag)
		}
	}

	if len(tags) == 0 {
		return nil, false
	}

	slices.SortFunc(tags, tag.Compare)
	return tags, true
}

// ListEntriesWithTags returns the entries that have any of the named tags.
// Each id appears once, in order of first occurrence. Unknown names are
// skipped. Matching all tags is done by the caller against the attributes.
func (r *Registry) ListEntriesWithTags(names ...string) []ids.EntryID {
	result := []ids.EntryID{}
	seen := index.NewSet[ids.EntryID]()

	for _, name := range names {
		node, ok := r.tags[name]
		if !ok {
			continue
		}
		result = index.AppendUnique(result, seen, node.entries...)
	}

	return result
}

// ListEntriesIDs returns all entry ids in ascending order.
func (r *Registry) ListEntriesIDs() []ids.EntryID {
	return slices.Sorted(maps.Keys(r.entries))
}

func (r *Registry) ListEntries() []entry.Entry {
	result := make([]entry.Entry, 0, len(r.entries))
	for _, id := range r.ListEntriesIDs() {
		result = append(result, r.entries[id])
	}
	return result
}

func (r *Registry) ListEntriesAndIDs() []entry.WithID {
	result := make([]entry.WithID, 0, len(r.entries))
	for _, id := range r.ListEntriesIDs() {
		result = append(result, entry.WithID{ID: id, Entry: r.entries[id]})
	}
	return result
}

// ListTags returns all tags sorted by name.
func (r *Registry) ListTags() []tag.Tag {
	result := make([]tag.Tag, 0, len(r.tags))
	for _, node := range r.tags {
		result = append(result, node.tag)
	}
	slices.SortFunc(result, tag.Compare)
	return result
}

func (r *Registry) GetEntry(id ids.EntryID) (entry.Entry, bool) {
	e, ok := r.entries[id]
	return e, ok
}

func (r *Registry) GetTag(name string) (tag.Tag, bool) {
	node, ok := r.tags[name]
	if !ok {
		return tag.Tag{}, false
	}
	return node.tag, true
}

// UpdateTagColor sets the color of the tag called name, keeping its
// entries. It returns false when there is no such tag.
func (r *Registry) UpdateTagColor(name string, color tag.Color) bool {
	node, ok := r.tags[name]
	if !ok {
		return false
	}
	node.tag.Color = color
	return true
}

func (r *Registry) isTagged(id ids.EntryID) bool {
	for _, node := range r.tags {
		if node.position(id) >= 0 {
			return true
		}
	}
	return false
}

func (r *Registry) snapshot() persistence.Snapshot {
	snap := persistence.Snapshot{
		IDGen:   r.idGen.Snapshot(),
		Tags:    make([]persistence.TagRecord, 0, len(r.tags)),
		Entries: make([]persistence.EntryRecord, 0, len(r.entries)),
	}

	for _, t := range r.ListTags() {
		node := r.tags[t.Name]
		snap.Tags = append(snap.Tags, persistence.TagRecord{
			Name:    t.Name,
			Color:   string(t.Color),
			Entries: slices.Clone(node.entries),
		})
	}

	for _, e := range r.ListEntriesAndIDs() {
		snap.Entries = append(snap.Entries, persistence.EntryRecord{
			ID:   e.ID,
			Path: e.Entry.Path,
		})
	}

	return snap
}

func (r *Registry) restore(snap persistence.Snapshot) {
	r.idGen.Restore(snap.IDGen)

	for _, rec := range snap.Entries {
		r.entries[rec.ID] = entry.New(rec.Path)
		r.idGen.Observe(rec.ID)
	}

	for _, rec := range snap.Tags {
		r.tags[rec.Name] = &tagNode{
			tag:     tag.New(rec.Name, tag.Color(rec.Color)),
			entries: slices.Clone(rec.Entries),
		}
	}
}
