package fs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Clutter that operating systems leave next to screenshots. These rules come
// first, so an ignore file can still re-include one of them with "!".
var defaultIgnoreRules = []string{
	IgnoreFileName,
	".DS_Store",
	"._*", // AppleDouble resource forks on non-HFS volumes
	"Thumbs.db",
	"desktop.ini",
}

// ignoreRule is one parsed line of an ignore list.
type ignoreRule struct {
	glob     string
	negate   bool // "!glob" re-includes what an earlier rule excluded
	dirOnly  bool // "glob/" only applies to directories
	anchored bool // matched against the slash path from the root, not the base name
}

// parseRule turns a line into a rule. Blank lines, comments and globs that
// path.Match rejects yield false.
func parseRule(line string) (ignoreRule, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return ignoreRule{}, false
	}

	var r ignoreRule
	line, r.negate = strings.CutPrefix(line, "!")
	line, r.dirOnly = strings.CutSuffix(line, "/")
	r.anchored = strings.Contains(line, "/")
	line = strings.TrimPrefix(line, "/")
	if line == "" {
		return ignoreRule{}, false
	}
	if _, err := path.Match(line, ""); err != nil {
		return ignoreRule{}, false
	}
	r.glob = line
	return r, true
}

// IgnoreMatcher decides which entries below a scan root are left alone.
// A rule without '/' matches the base name at any depth; a rule with '/'
// matches the path relative to the root. The last matching rule wins.
type IgnoreMatcher struct {
	rules []ignoreRule
}

// NewIgnoreMatcher builds a matcher from the default rules followed by lines.
func NewIgnoreMatcher(lines []string) *IgnoreMatcher {
	m := &IgnoreMatcher{}
	for _, line := range append(append(make([]string, 0, len(defaultIgnoreRules)+len(lines)), defaultIgnoreRules...), lines...) {
		if r, ok := parseRule(line); ok {
			m.rules = append(m.rules, r)
		}
	}
	return m
}

// Ignored reports whether the entry at rel, relative to the scan root, is
// excluded. isDir selects whether directory-only rules apply.
func (m *IgnoreMatcher) Ignored(rel string, isDir bool) bool {
	if rel == "" || rel == "." {
		return false
	}
	slashed := filepath.ToSlash(rel)
	base := path.Base(slashed)

	ignored := false
	for _, r := range m.rules {
		if r.dirOnly && !isDir {
			continue
		}
		subject := base
		if r.anchored {
			subject = slashed
		}
		if ok, _ := path.Match(r.glob, subject); ok {
			ignored = !r.negate
		}
	}
	return ignored
}

// ReadIgnoreFile returns the lines of an ignore file, or nil when there is
// none.
func ReadIgnoreFile(name string) ([]string, error) {
	data, err := os.ReadFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading ignore file: %w", err)
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n"), nil
}
