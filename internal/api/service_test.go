package api

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/v0rts/wutag/internal/registry"
	"github.com/v0rts/wutag/internal/storage"
	"github.com/v0rts/wutag/internal/tag"
	"github.com/v0rts/wutag/internal/ui"
	"github.com/v0rts/wutag/internal/xattr"
)

// memAttrs is an in-memory AttrStore keyed by path.
type memAttrs struct {
	tags map[string][]string
}

func newMemAttrs() *memAttrs {
	return &memAttrs{tags: make(map[string][]string)}
}

func (m *memAttrs) TagFile(path, name string) error {
	if slices.Contains(m.tags[path], name) {
		return xattr.ErrTagExists
	}
	m.tags[path] = append(m.tags[path], name)
	return nil
}

func (m *memAttrs) ListTags(path string) ([]string, error) {
	return slices.Clone(m.tags[path]), nil
}

func (m *memAttrs) RemoveTag(path, name string) error {
	i := slices.Index(m.tags[path], name)
	if i < 0 {
		return xattr.ErrTagNotFound
	}
	m.tags[path] = slices.Delete(m.tags[path], i, i+1)
	return nil
}

func (m *memAttrs) ClearTags(path string) error {
	delete(m.tags, path)
	return nil
}

func (m *memAttrs) HasAllTags(path string, names []string) (bool, error) {
	for _, n := range names {
		if !slices.Contains(m.tags[path], n) {
			return false, nil
		}
	}
	return true, nil
}

type fixture struct {
	svc   *Service
	reg   *registry.Registry
	store *storage.MemStore
	attrs *memAttrs
	out   *bytes.Buffer
	dir   string
}

func newFixture(t *testing.T, files ...string) *fixture {
	t.Helper()

	dir := t.TempDir()
	for _, f := range files {
		p := filepath.Join(dir, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, nil, 0o644))
	}

	store := storage.NewMemStore()
	reg := registry.NewWithStore(store)
	attrs := newMemAttrs()
	out := &bytes.Buffer{}

	svc := NewService(reg, attrs, ui.NewPrinter(out, true), Options{
		BaseDir:  dir,
		MaxDepth: 2,
		Palette:  []tag.Color{"red"},
	})

	return &fixture{svc: svc, reg: reg, store: store, attrs: attrs, out: out, dir: dir}
}

func (f *fixture) path(name string) string {
	return filepath.Join(f.dir, filepath.FromSlash(name))
}

func (f *fixture) entryTags(t *testing.T, name string) []string {
	t.Helper()
	id, ok := f.reg.FindEntry(f.path(name))
	if !ok {
		return nil
	}
	tags, _ := f.reg.ListEntryTags(id)
	out := make([]string, 0, len(tags))
	for _, tg := range tags {
		out = append(out, tg.Name)
	}
	return out
}

func TestSet_TagsAttributesAndRegistry(t *testing.T) {
	f := newFixture(t, "a.png", "b.png", "c.txt")
	ctx := context.Background()

	require.NoError(t, f.svc.Set(ctx, "*.png", []string{"img", "src"}))
	require.True(t, f.svc.Dirty())

	require.ElementsMatch(t, []string{"img", "src"}, f.attrs.tags[f.path("a.png")])
	require.ElementsMatch(t, []string{"img", "src"}, f.attrs.tags[f.path("b.png")])
	require.Empty(t, f.attrs.tags[f.path("c.txt")])

	require.Equal(t, []string{"img", "src"}, f.entryTags(t, "a.png"))
	require.Len(t, f.reg.ListEntries(), 2)

	got, ok := f.reg.GetTag("img")
	require.True(t, ok)
	require.Equal(t, tag.Color("red"), got.Color)
	require.Contains(t, f.out.String(), "+ img")
}

func TestSet_Idempotent(t *testing.T) {
	f := newFixture(t, "a.png")
	ctx := context.Background()

	require.NoError(t, f.svc.Set(ctx, "a.png", []string{"img"}))
	require.NoError(t, f.svc.Save())
	require.False(t, f.svc.Dirty())

	require.NoError(t, f.svc.Set(ctx, "a.png", []string{"img"}))
	require.False(t, f.svc.Dirty(), "re-tagging changes nothing")
	require.Equal(t, []string{"img"}, f.attrs.tags[f.path("a.png")])
}

func TestSet_RejectsEmptyName(t *testing.T) {
	f := newFixture(t, "a.png")
	err := f.svc.Set(context.Background(), "*", []string{""})
	require.ErrorIs(t, err, tag.ErrEmptyName)
}

func TestSet_KeepsRegisteredColor(t *testing.T) {
	f := newFixture(t, "a.png", "b.png")
	ctx := context.Background()

	require.NoError(t, f.svc.Set(ctx, "a.png", []string{"img"}))
	require.NoError(t, f.svc.EditColor("img", "#00ff00"))
	require.NoError(t, f.svc.Set(ctx, "b.png", []string{"img"}))

	got, _ := f.reg.GetTag("img")
	require.Equal(t, tag.Color("#00ff00"), got.Color)
}

func TestRemove_DropsEntryWithLastTag(t *testing.T) {
	f := newFixture(t, "a.png")
	ctx := context.Background()

	require.NoError(t, f.svc.Set(ctx, "a.png", []string{"img", "src"}))
	require.NoError(t, f.svc.Remove(ctx, "a.png", []string{"img"}))
	require.Equal(t, []string{"src"}, f.entryTags(t, "a.png"))
	require.Equal(t, []string{"src"}, f.attrs.tags[f.path("a.png")])

	require.NoError(t, f.svc.Remove(ctx, "a.png", []string{"src", "unknown"}))
	_, ok := f.reg.FindEntry(f.path("a.png"))
	require.False(t, ok)
	require.Empty(t, f.reg.ListTags())
	require.Empty(t, f.attrs.tags[f.path("a.png")])
}

func TestClear(t *testing.T) {
	f := newFixture(t, "a.png", "b.png")
	ctx := context.Background()

	require.NoError(t, f.svc.Set(ctx, "*.png", []string{"img"}))
	require.NoError(t, f.svc.Clear(ctx, "a.png"))

	_, ok := f.reg.FindEntry(f.path("a.png"))
	require.False(t, ok)
	require.Empty(t, f.attrs.tags[f.path("a.png")])
	require.Equal(t, []string{"img"}, f.entryTags(t, "b.png"))
}

func TestListTagsAndFiles(t *testing.T) {
	f := newFixture(t, "a.png", "b.txt")
	ctx := context.Background()

	require.NoError(t, f.svc.Set(ctx, "a.png", []string{"img"}))
	require.NoError(t, f.svc.Set(ctx, "b.txt", []string{"docs"}))
	f.out.Reset()

	tags := f.svc.ListTags(true)
	require.Len(t, tags, 2)
	require.Equal(t, "docs\nimg\n", f.out.String())

	f.out.Reset()
	paths := f.svc.ListFiles(true, true)
	require.Equal(t, []string{f.path("a.png"), f.path("b.txt")}, paths)
	require.Contains(t, f.out.String(), f.path("a.png")+" img\n")
	require.Contains(t, f.out.String(), f.path("b.txt")+" docs\n")
}

// Search with anyTag uses the registry's union; without it every tag must be
// present on the file.
func TestSearch_AnyVersusAll(t *testing.T) {
	f := newFixture(t, "1", "2", "3")
	ctx := context.Background()

	require.NoError(t, f.svc.Set(ctx, "1", []string{"src", "docs"}))
	require.NoError(t, f.svc.Set(ctx, "2", []string{"src"}))
	require.NoError(t, f.svc.Set(ctx, "3", []string{"docs"}))

	anyPaths, err := f.svc.Search(ctx, []string{"src", "docs"}, true, true)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{f.path("1"), f.path("2"), f.path("3")}, anyPaths)

	allPaths, err := f.svc.Search(ctx, []string{"src", "docs"}, false, true)
	require.NoError(t, err)
	require.Equal(t, []string{f.path("1")}, allPaths)
}

func TestCopy(t *testing.T) {
	f := newFixture(t, "src.png", "dst/a.png", "dst/b.png")
	ctx := context.Background()

	require.NoError(t, f.svc.Set(ctx, "src.png", []string{"img", "hq"}))
	require.NoError(t, f.svc.Copy(ctx, f.path("src.png"), "dst/*.png"))

	require.Equal(t, []string{"hq", "img"}, f.entryTags(t, "dst/a.png"))
	require.Equal(t, []string{"hq", "img"}, f.entryTags(t, "dst/b.png"))
}

func TestEditColor(t *testing.T) {
	f := newFixture(t, "a.png")
	require.NoError(t, f.svc.Set(context.Background(), "a.png", []string{"img"}))

	require.ErrorIs(t, f.svc.EditColor("missing", "ff0000"), ErrTagNotFound)
	require.ErrorIs(t, f.svc.EditColor("img", "bogus"), tag.ErrInvalidColor)
	require.NoError(t, f.svc.EditColor("img", "0xFF0000"))

	got, _ := f.reg.GetTag("img")
	require.Equal(t, tag.Color("#ff0000"), got.Color)
}

func TestCleanCacheAndSave(t *testing.T) {
	f := newFixture(t, "a.png")
	ctx := context.Background()

	require.NoError(t, f.svc.Set(ctx, "a.png", []string{"img"}))
	require.NoError(t, f.svc.Save())

	f.svc.CleanCache()
	require.True(t, f.svc.Dirty())
	require.NoError(t, f.svc.Save())

	loaded, err := registry.LoadFrom(f.store)
	require.NoError(t, err)
	tags, entries := loaded.Len()
	require.Zero(t, tags)
	require.Zero(t, entries)

	// attributes are untouched
	require.Equal(t, []string{"img"}, f.attrs.tags[f.path("a.png")])
}

func TestSave_Failure(t *testing.T) {
	f := newFixture(t, "a.png")
	require.NoError(t, f.svc.Set(context.Background(), "a.png", []string{"img"}))

	f.store.SaveErr = os.ErrPermission
	err := f.svc.Save()
	require.ErrorIs(t, err, registry.ErrIO)
	require.True(t, f.svc.Dirty())
}
