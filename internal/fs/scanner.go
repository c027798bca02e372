package fs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// IgnoreFileName is read from the root of every scanned directory.
const IgnoreFileName = ".sssignore"

// Scanner discovers candidate files below a root directory.
type Scanner struct {
	extensions map[string]struct{}
	patterns   []string
	skipDirs   map[string]struct{}
}

// NewScanner creates a scanner. extensions are matched case-insensitively
// with or without the leading dot; an empty list accepts every file.
// skipDirs names directories (by base name) that are never descended into,
// typically the tool's own output directories.
func NewScanner(extensions, ignorePatterns, skipDirs []string) *Scanner {
	s := &Scanner{
		extensions: make(map[string]struct{}, len(extensions)),
		patterns:   ignorePatterns,
		skipDirs:   make(map[string]struct{}, len(skipDirs)),
	}
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		s.extensions[ext] = struct{}{}
	}
	for _, d := range skipDirs {
		if d != "" {
			s.skipDirs[d] = struct{}{}
		}
	}
	return s
}

// FindFiles returns the regular files under root that pass the extension
// filter and are not ignored. Hidden directories and skip directories are
// pruned. Symlinks are not followed. Results are in lexical walk order.
func (s *Scanner) FindFiles(root string, recursive bool) ([]string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root)
	}

	fileRules, err := ReadIgnoreFile(filepath.Join(root, IgnoreFileName))
	if err != nil {
		return nil, err
	}
	matcher := NewIgnoreMatcher(append(append(make([]string, 0, len(s.patterns)+len(fileRules)), s.patterns...), fileRules...))

	var paths []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !recursive || s.skipDir(d.Name()) || matcher.Ignored(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || matcher.Ignored(rel, false) || !s.accepts(d.Name()) {
			return nil
		}
		paths = append(paths, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}
	return paths, nil
}

func (s *Scanner) skipDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	_, ok := s.skipDirs[name]
	return ok
}

func (s *Scanner) accepts(name string) bool {
	if len(s.extensions) == 0 {
		return true
	}
	_, ok := s.extensions[strings.ToLower(filepath.Ext(name))]
	return ok
}
