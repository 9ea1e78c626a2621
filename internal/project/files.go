package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Match reports whether a root-relative slash path is selected by the
// include and exclude globs. Exclusion wins.
func (c *Config) Match(rel string) bool {
	for _, p := range c.Analysis.Exclude {
		if ok, _ := doublestar.Match(p, rel); ok {
			return false
		}
	}
	for _, p := range c.Analysis.Include {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// ListFiles expands targets into a sorted, duplicate-free list of C# files.
// A target is a file, a directory walked recursively, or a glob. Files named
// explicitly skip the include globs but not the exclude globs.
func (c *Config) ListFiles(targets []string) ([]string, error) {
	if len(targets) == 0 {
		targets = []string{c.Root}
	}
	seen := make(map[string]struct{})
	var out []string
	add := func(path string) {
		if _, dup := seen[path]; !dup {
			seen[path] = struct{}{}
			out = append(out, path)
		}
	}

	for _, target := range targets {
		paths, err := c.expand(target)
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", target, err)
		}
		for _, p := range paths {
			add(p)
		}
	}
	slices.Sort(out)
	return out, nil
}

func (c *Config) expand(target string) ([]string, error) {
	if strings.ContainsAny(target, "*?[{") {
		matches, err := doublestar.FilepathGlob(target, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob error: %w", err)
		}
		var out []string
		for _, m := range matches {
			if strings.EqualFold(filepath.Ext(m), ".cs") && !c.excluded(m) {
				out = append(out, filepath.Clean(m))
			}
		}
		return out, nil
	}

	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if c.excluded(target) {
			return nil, nil
		}
		return []string{filepath.Clean(target)}, nil
	}

	var out []string
	err = filepath.WalkDir(target, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != target && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if c.Match(c.relative(path)) {
			out = append(out, filepath.Clean(path))
		}
		return nil
	})
	return out, err
}

func (c *Config) excluded(path string) bool {
	rel := c.relative(path)
	for _, p := range c.Analysis.Exclude {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// relative returns path relative to the config root in slash form, or the
// cleaned path itself when it lies outside the root.
func (c *Config) relative(path string) string {
	abs, err := filepath.Abs(path)
	if err == nil && c.Root != "" {
		if rel, err := filepath.Rel(c.Root, abs); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(filepath.Clean(path))
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
