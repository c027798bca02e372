package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// WriteFile creates root/rel with content and parents, and sets its
// modification time when mtime is non-zero. It returns the full path.
func WriteFile(t *testing.T, root, rel, content string, mtime time.Time) string {
	t.Helper()

	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating parent of %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", rel, err)
	}
	if !mtime.IsZero() {
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			t.Fatalf("setting mtime of %s: %v", rel, err)
		}
	}
	return path
}

// ReadFile returns the content of path, failing the test if it is unreadable.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// Exists reports whether anything exists at path.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// RecordingLogger keeps every message it receives. Safe for sequential use.
type RecordingLogger struct {
	Messages []string
}

func (l *RecordingLogger) Debug(msg string, _ ...any) { l.Messages = append(l.Messages, "DEBUG "+msg) }
func (l *RecordingLogger) Info(msg string, _ ...any)  { l.Messages = append(l.Messages, "INFO "+msg) }
func (l *RecordingLogger) Warn(msg string, _ ...any)  { l.Messages = append(l.Messages, "WARN "+msg) }
func (l *RecordingLogger) Error(msg string, _ ...any) { l.Messages = append(l.Messages, "ERROR "+msg) }
