// Package walk discovers the paths a command operates on: everything under a
// base directory, down to a maximum depth, that matches a glob pattern.
package walk

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultMaxDepth is used when no positive depth is given.
const DefaultMaxDepth = 2

var ErrBadPattern = errors.New("invalid glob pattern")

// Walk returns the paths below root, at most maxDepth levels deep, that match
// pattern. A pattern without a slash is matched against the base name, so
// "*.png" finds pngs at every level; otherwise it is matched against the
// slash-separated path relative to root and may use "**".
func Walk(ctx context.Context, root, pattern string, maxDepth int) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: %q", ErrBadPattern, pattern)
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	byName := !strings.Contains(pattern, "/")
	var matches []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == root {
				return err
			}
			// unreadable subtrees are skipped
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		depth := strings.Count(rel, "/") + 1
		if depth > maxDepth {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		subject := rel
		if byName {
			subject = d.Name()
		}
		if doublestar.MatchUnvalidated(pattern, subject) {
			matches = append(matches, path)
		}

		if d.IsDir() && depth == maxDepth {
			return fs.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	return matches, nil
}
