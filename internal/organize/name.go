package organize

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// reservedChars matches runs of characters that are invalid in file names
// on at least one common filesystem.
var reservedChars = regexp.MustCompile(`[<>:"/\\|?*]+`)

// SanitizeFilename replaces reserved characters with "_", trims surrounding
// whitespace and trailing dots, and never returns an empty string.
//
// Example: "shot:new?.png" -> "shot_new_.png"
func SanitizeFilename(name string) string {
	name = reservedChars.ReplaceAllString(name, "_")
	name = strings.TrimRight(strings.TrimSpace(name), ".")
	if name == "" {
		return "_"
	}
	return name
}

// UniquePath returns a path in destDir for desiredName that does not exist
// yet, trying "name.ext", "name (1).ext", "name (2).ext", ... in order.
// destDir is created if needed. The result is only collision-free at the
// moment of the check.
func UniquePath(destDir, desiredName string) (string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("creating destination directory: %w", err)
	}

	// Trailing dots go before splitting, so "photo." has no extension.
	stem, ext := splitName(SanitizeFilename(desiredName))
	stem = SanitizeFilename(stem)

	candidate := filepath.Join(destDir, stem+ext)
	for n := 1; ; n++ {
		_, err := os.Lstat(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("checking %s: %w", candidate, err)
		}
		candidate = filepath.Join(destDir, fmt.Sprintf("%s (%d)%s", stem, n, ext))
	}
}

// splitName splits a file name into stem and extension the way a user
// reads it: ".bashrc" is all stem, "shot.png" is "shot" + ".png".
func splitName(name string) (stem, ext string) {
	ext = filepath.Ext(name)
	stem = strings.TrimSuffix(name, ext)
	if stem == "" {
		return name, ""
	}
	return stem, ext
}
