package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPattern matches every JSON and YAML file at any depth.
const DefaultPattern = "**/*.{json,yaml,yml}"

// DirectoryLoader finds resource files below a path.
type DirectoryLoader struct {
	// Path is a resource file or a directory searched recursively.
	Path string

	// Pattern is a doublestar glob matched against paths relative to Path
	// (or against the base name when Path is a file).
	Pattern string
}

// NewDirectoryLoader creates a loader with the default pattern.
func NewDirectoryLoader(path string) *DirectoryLoader {
	return &DirectoryLoader{
		Path:    filepath.Clean(path),
		Pattern: DefaultPattern,
	}
}

// Files returns the resource files below Path in lexical order, plus the
// regular files that were skipped because they do not match Pattern.
func (d *DirectoryLoader) Files() (matched, ignored []string, err error) {
	if !doublestar.ValidatePattern(d.pattern()) {
		return nil, nil, fmt.Errorf("invalid pattern %q", d.Pattern)
	}

	root := filepath.Clean(d.Path)
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrFileNotFound, d.Path)
		}
		return nil, nil, fmt.Errorf("failed to access path: %w", err)
	}

	if !info.IsDir() {
		if d.Match(root) {
			return []string{root}, nil, nil
		}
		return nil, []string{root}, nil
	}

	walkFn := func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			//nolint:nilerr // unreadable entries are skipped
			return nil
		}
		if entry.IsDir() || !entry.Type().IsRegular() {
			return nil
		}
		if d.Match(path) {
			matched = append(matched, path)
		} else {
			ignored = append(ignored, path)
		}
		return nil
	}
	if err := filepath.WalkDir(root, walkFn); err != nil {
		return nil, nil, fmt.Errorf("failed to scan directory: %w", err)
	}

	sort.Strings(matched)
	sort.Strings(ignored)
	return matched, ignored, nil
}

// Match reports whether path, a file at or below Path, is a resource file.
func (d *DirectoryLoader) Match(path string) bool {
	rel, err := filepath.Rel(d.Path, path)
	if err != nil || rel == "." {
		rel = filepath.Base(path)
	}
	ok, err := doublestar.Match(d.pattern(), filepath.ToSlash(rel))
	return err == nil && ok
}

func (d *DirectoryLoader) pattern() string {
	if d.Pattern == "" {
		return DefaultPattern
	}
	return d.Pattern
}
