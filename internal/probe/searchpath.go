package probe

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultExtensions are tried, in order, for each search directory.
var DefaultExtensions = []string{"", ".go", ".py", ".js"}

// DefaultEntryFiles mark a directory as a module.
var DefaultEntryFiles = []string{"__init__.py", "index.js", "package.json", "go.mod", "main.go"}

// SearchPath resolves a module identifier against an ordered list of
// directories, the way an interpreter walks its module search path.
type SearchPath struct {
	Dirs       []string
	Extensions []string
	EntryFiles []string
}

// errNoEntryFile marks a directory named like the module that holds no
// entry file. It only counts when nothing else resolves.
var errNoEntryFile = errors.New("no entry file")

// Resolve looks for id in each directory. The first match wins. A
// candidate that exists but cannot be read stops the search with a broken
// module error. A directory without an entry file is reported as broken
// only when no other candidate resolves.
func (s *SearchPath) Resolve(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	exts := s.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	var pending error
	for _, dir := range s.Dirs {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, ext := range exts {
			candidate := filepath.Join(dir, id+ext)
			found, err := s.check(candidate)
			switch {
			case errors.Is(err, errNoEntryFile):
				if pending == nil {
					pending = err
				}
			case err != nil:
				return err
			case found:
				return nil
			}
		}
	}

	if pending != nil {
		return pending
	}
	return fmt.Errorf("%q not found in %s: %w", id, strings.Join(s.Dirs, string(os.PathListSeparator)), ErrNotFound)
}

func (s *SearchPath) check(candidate string) (bool, error) {
	info, err := os.Stat(candidate)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("inspecting %s: %w", candidate, err)
	}

	if info.IsDir() {
		return true, s.checkPackageDir(candidate)
	}

	f, err := os.Open(candidate)
	if err != nil {
		return false, fmt.Errorf("opening %s: %w", candidate, err)
	}
	return true, f.Close()
}

func (s *SearchPath) checkPackageDir(dir string) error {
	entries := s.EntryFiles
	if len(entries) == 0 {
		entries = DefaultEntryFiles
	}

	for _, name := range entries {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("inspecting %s: %w", p, err)
		}
	}
	return fmt.Errorf("directory %s has %w (%s)", dir, errNoEntryFile, strings.Join(entries, ", "))
}

func validateID(id string) error {
	if id == "" {
		return errors.New("empty module identifier")
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return fmt.Errorf("invalid module identifier %q", id)
	}
	return nil
}
