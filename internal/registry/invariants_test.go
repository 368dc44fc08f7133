package registry

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/v0rts/wutag/internal/entry"
	"github.com/v0rts/wutag/internal/ids"
	"github.com/v0rts/wutag/internal/storage"
	"github.com/v0rts/wutag/internal/tag"
	"pgregory.net/rapid"
)

// checkInvariants verifies referential integrity between the two maps.
func checkInvariants(t require.TestingT, r *Registry) {
	for name, node := range r.tags {
		require.Equal(t, name, node.tag.Name)
		require.NotEmpty(t, node.entries, "tag %q has no entries", name)

		seen := make(map[ids.EntryID]bool)
		for _, id := range node.entries {
			_, ok := r.entries[id]
			require.True(t, ok, "tag %q references missing entry %d", name, id)
			require.False(t, seen[id], "tag %q lists entry %d twice", name, id)
			seen[id] = true
		}
	}

	paths := make(map[string]bool)
	for _, e := range r.entries {
		require.False(t, paths[e.Path], "path %q stored twice", e.Path)
		paths[e.Path] = true
	}
}

func TestProperty_RegistryInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		store := storage.NewMemStore()
		r := NewWithStore(store)

		pathGen := rapid.SampledFrom([]string{"/a", "/b", "/c", "/d", "/e"})
		nameGen := rapid.SampledFrom([]string{"src", "docs", "img", "tmp"})
		colorGen := rapid.SampledFrom(tag.DefaultColors)

		issued := make(map[ids.EntryID]string)
		// entries that lost their last tag must be gone
		tagged := make(map[ids.EntryID]bool)

		steps := rapid.IntRange(1, 60).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			path := pathGen.Draw(t, fmt.Sprintf("path-%d", i))
			name := nameGen.Draw(t, fmt.Sprintf("name-%d", i))

			switch rapid.IntRange(0, 4).Draw(t, fmt.Sprintf("op-%d", i)) {
			case 0:
				id := r.AddOrUpdateEntry(entry.New(path))
				if prev, ok := issued[id]; ok {
					require.Equal(t, path, prev, "id %d reused for another path", id)
				}
				issued[id] = path
				_, already := r.TagEntry(tag.New(name, colorGen.Draw(t, fmt.Sprintf("color-%d", i))), id)
				if already {
					require.Contains(t, r.ListEntriesWithTags(name), id)
				}
				tagged[id] = true
				tags, ok := r.ListEntryTags(id)
				require.True(t, ok)
				require.Contains(t, names(tags), name)
			case 1:
				if id, ok := r.FindEntry(path); ok {
					e, removed := r.UntagByName(name, id)
					if removed {
						require.Equal(t, path, e.Path)
						_, still := r.GetEntry(id)
						require.False(t, still)
						delete(tagged, id)
					}
				}
			case 2:
				if id, ok := r.FindEntry(path); ok {
					r.ClearEntry(id)
					_, still := r.GetEntry(id)
					require.False(t, still)
					delete(tagged, id)
				}
			case 3:
				before := r.ListEntriesWithTags(name)
				color := colorGen.Draw(t, fmt.Sprintf("recolor-%d", i))
				_, exists := r.GetTag(name)
				require.Equal(t, exists, r.UpdateTagColor(name, color))
				require.Equal(t, before, r.ListEntriesWithTags(name))
				if exists {
					got, _ := r.GetTag(name)
					require.Equal(t, color, got.Color)
				}
			case 4:
				require.NoError(t, r.Save())
				loaded, err := LoadFrom(store)
				require.NoError(t, err)
				require.Equal(t, r.ListEntriesAndIDs(), loaded.ListEntriesAndIDs())
				require.Equal(t, r.ListTags(), loaded.ListTags())
				r = loaded
			}

			checkInvariants(t, r)
			for id := range r.entries {
				require.True(t, tagged[id], "entry %d has no tags", id)
			}
		}
	})
}

func names(tags []tag.Tag) []string {
	out := make([]string, 0, len(tags))
	for _, tg := range tags {
		out = append(out, tg.Name)
	}
	return out
}
