package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/v0rts/wutag/internal/entry"
	"github.com/v0rts/wutag/internal/registry"
	"github.com/v0rts/wutag/internal/tag"
	"github.com/v0rts/wutag/internal/ui"
	"github.com/v0rts/wutag/internal/walk"
	"github.com/v0rts/wutag/internal/xattr"
	"github.com/v0rts/wutag/pkg/wutag"
)

var (
	_ wutag.API = (*Service)(nil)
	_ AttrStore = xattr.FS{}
)

var ErrTagNotFound = errors.New("tag not found")

// AttrStore is the on-disk tag store the service reconciles the registry
// with. xattr.FS is the production implementation.
type AttrStore interface {
	TagFile(path, name string) error
	ListTags(path string) ([]string, error)
	RemoveTag(path, name string) error
	ClearTags(path string) error
	HasAllTags(path string, names []string) (bool, error)
}

type Options struct {
	BaseDir  string
	MaxDepth int
	Palette  []tag.Color
}

// Service runs wutag commands. Every command updates the extended
// attributes first and the registry second; the registry is only written by
// Save.
type Service struct {
	reg      *registry.Registry
	attrs    AttrStore
	out      *ui.Printer
	baseDir  string
	maxDepth int
	palette  []tag.Color
	dirty    bool
}

func NewService(
	reg *registry.Registry,
	attrs AttrStore,
	out *ui.Printer,
	opts Options,
) *Service {
	baseDir := opts.BaseDir
	if baseDir == "" {
		baseDir = "."
	}

	return &Service{
		reg:      reg,
		attrs:    attrs,
		out:      out,
		baseDir:  baseDir,
		maxDepth: opts.MaxDepth,
		palette:  opts.Palette,
	}
}

// Dirty reports whether a command changed the registry since the last Save.
func (s *Service) Dirty() bool {
	return s.dirty
}

// Save persists the registry if it changed.
func (s *Service) Save() error {
	if !s.dirty {
		return nil
	}

	if err := s.reg.Save(); err != nil {
		return fmt.Errorf("save registry: %w", err)
	}

	s.dirty = false
	slog.Debug("Registry saved", "location", s.reg.Location())
	return nil
}

func (s *Service) match(ctx context.Context, pattern string) ([]string, error) {
	paths, err := walk.Walk(ctx, s.baseDir, pattern, s.maxDepth)
	if err != nil {
		return nil, fmt.Errorf("find paths: %w", err)
	}
	if len(paths) == 0 {
		slog.Warn("No paths matched", "pattern", pattern, "dir", s.baseDir)
	}
	return paths, nil
}

// resolveTag returns the registered tag called name, or a new one with a
// palette color.
func (s *Service) resolveTag(name string) tag.Tag {
	if t, ok := s.reg.GetTag(name); ok {
		return t
	}
	return tag.Random(name, s.palette)
}

// tagPath applies t to path on disk and in the registry.
func (s *Service) tagPath(path string, t tag.Tag) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	err = s.attrs.TagFile(path, t.Name)
	switch {
	case errors.Is(err, xattr.ErrTagExists):
		slog.Debug("Tag already on file", "path", path, "tag", t.Name)
	case err != nil:
		return fmt.Errorf("tag %s with %s: %w", path, t.Name, err)
	}

	id := s.reg.AddOrUpdateEntry(entry.New(abs))
	if _, already := s.reg.TagEntry(t, id); !already {
		s.dirty = true
		s.out.Status(path, "+", t)
	}
	return nil
}

// Set tags every path matching pattern with names.
func (s *Service) Set(ctx context.Context, pattern string, names []string) error {
	for _, name := range names {
		if err := tag.ValidateName(name); err != nil {
			return err
		}
	}

	paths, err := s.match(ctx, pattern)
	if err != nil {
		return err
	}

	var errs []error
	for _, path := range paths {
		for _, name := range names {
			if err := s.tagPath(path, s.resolveTag(name)); err != nil {
				slog.Error("Failed to tag", "path", path, "tag", name, "error", err)
				errs = append(errs, err)
			}
		}
	}

	return errors.Join(errs...)
}

// Remove removes names from every path matching pattern.
func (s *Service) Remove(ctx context.Context, pattern string, names []string) error {
	paths, err := s.match(ctx, pattern)
	if err != nil {
		return err
	}

	var errs []error
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("resolve %s: %w", path, err))
			continue
		}
		id, tracked := s.reg.FindEntry(abs)

		for _, name := range names {
			err := s.attrs.RemoveTag(path, name)
			switch {
			case errors.Is(err, xattr.ErrTagNotFound):
				slog.Debug("Tag not on file", "path", path, "tag", name)
			case err != nil:
				slog.Error("Failed to remove tag", "path", path, "tag", name, "error", err)
				errs = append(errs, fmt.Errorf("remove %s from %s: %w", name, path, err))
				continue
			}

			if !tracked {
				continue
			}
			t, known := s.reg.GetTag(name)
			if !known || !slices.Contains(s.reg.ListEntriesWithTags(name), id) {
				continue
			}

			_, gone := s.reg.UntagEntry(t, id)
			s.dirty = true
			s.out.Status(path, "-", t)

			if gone {
				tracked = false
				// the entry has no tags left anywhere, drop stray attributes too
				if err := s.attrs.ClearTags(path); err != nil {
					slog.Warn("Failed to clear leftover tags", "path", path, "error", err)
				}
			}
		}
	}

	return errors.Join(errs...)
}

// Clear removes every tag from the paths matching pattern.
func (s *Service) Clear(ctx context.Context, pattern string) error {
	paths, err := s.match(ctx, pattern)
	if err != nil {
		return err
	}

	var errs []error
	for _, path := range paths {
		if err := s.attrs.ClearTags(path); err != nil {
			slog.Error("Failed to clear tags", "path", path, "error", err)
			errs = append(errs, fmt.Errorf("clear %s: %w", path, err))
			continue
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("resolve %s: %w", path, err))
			continue
		}
		if id, ok := s.reg.FindEntry(abs); ok {
			s.reg.ClearEntry(id)
			s.dirty = true
		}
		s.out.Line(s.out.Path(path) + " cleared")
	}

	return errors.Join(errs...)
}

// ListTags prints all registered tags.
func (s *Service) ListTags(raw bool) []tag.Tag {
	tags := s.reg.ListTags()
	if raw {
		for _, t := range tags {
			s.out.Line(t.Name)
		}
		return tags
	}

	if len(tags) > 0 {
		s.out.Line(s.out.Tags(tags))
	}
	return tags
}

// ListFiles prints every registered path, optionally with its tags.
func (s *Service) ListFiles(withTags, raw bool) []string {
	entries := s.reg.ListEntriesAndIDs()
	paths := make([]string, 0, len(entries))

	for _, e := range entries {
		paths = append(paths, e.Entry.Path)

		var tags []tag.Tag
		if withTags {
			tags, _ = s.reg.ListEntryTags(e.ID)
		}

		if raw {
			line := e.Entry.Path
			for _, t := range tags {
				line += " " + t.Name
			}
			s.out.Line(line)
			continue
		}
		s.out.Entry(e.Entry.Path, tags)
	}

	return paths
}

// Search prints the paths carrying the named tags. With anyTag set the
// registry is queried for paths having any of the tags. Otherwise the
// attributes of every path under the base directory are checked for all of
// them, so untracked files are found as well.
func (s *Service) Search(ctx context.Context, names []string, anyTag, raw bool) ([]string, error) {
	var paths []string

	if anyTag {
		for _, id := range s.reg.ListEntriesWithTags(names...) {
			if e, ok := s.reg.GetEntry(id); ok {
				paths = append(paths, e.Path)
			}
		}
	} else {
		candidates, err := walk.Walk(ctx, s.baseDir, "*", s.maxDepth)
		if err != nil {
			return nil, fmt.Errorf("find paths: %w", err)
		}
		for _, path := range candidates {
			ok, err := s.attrs.HasAllTags(path, names)
			if err != nil {
				slog.Debug("Skipping unreadable path", "path", path, "error", err)
				continue
			}
			if ok {
				paths = append(paths, path)
			}
		}
	}

	for _, path := range paths {
		if raw {
			s.out.Line(path)
			continue
		}
		tags, err := s.attrs.ListTags(path)
		if err != nil {
			s.out.Entry(path, nil)
			continue
		}
		resolved := make([]tag.Tag, 0, len(tags))
		for _, name := range tags {
			resolved = append(resolved, s.resolveTag(name))
		}
		s.out.Entry(path, resolved)
	}

	return paths, nil
}

// Copy applies every tag of src to the paths matching pattern.
func (s *Service) Copy(ctx context.Context, src, pattern string) error {
	names, err := s.attrs.ListTags(src)
	if err != nil {
		return fmt.Errorf("read tags of %s: %w", src, err)
	}
	if len(names) == 0 {
		slog.Warn("Source has no tags", "path", src)
		return nil
	}

	return s.Set(ctx, pattern, names)
}

// EditColor changes the color of the tag called name.
func (s *Service) EditColor(name, rawColor string) error {
	color, err := tag.ParseColor(rawColor)
	if err != nil {
		return err
	}

	if !s.reg.UpdateTagColor(name, color) {
		return fmt.Errorf("%w: %s", ErrTagNotFound, name)
	}

	s.dirty = true
	t, _ := s.reg.GetTag(name)
	s.out.Line(s.out.Tag(t))
	return nil
}

// CleanCache drops every tag and entry from the registry. Attributes on
// disk are left alone.
func (s *Service) CleanCache() {
	tags, entries := s.reg.Len()
	s.reg.Clear()
	s.dirty = true
	slog.Info("Registry cleared", "tags", tags, "entries", entries)
}
