package dedupe

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestExecuteActions_Move(t *testing.T) {
	dir := t.TempDir()
	content := []byte("HELLO\n")
	a := writeFile(t, dir, "a.txt", content)
	dst := filepath.Join(dir, "dupes", "0123abcd", "a.txt")

	report, err := ExecuteActions([]Action{{Src: a, Dst: dst, Kind: ActionMove}})
	if err != nil {
		t.Fatalf("ExecuteActions() error = %v", err)
	}
	if report.Count() != 1 {
		t.Errorf("Count() = %d, want 1", report.Count())
	}

	if _, err := os.Stat(a); !os.IsNotExist(err) {
		t.Errorf("source still exists: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("reading destination: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("destination content = %q, want %q", got, content)
	}
}

func TestExecuteActions_OverwritesDestination(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "src.txt", []byte("new"))
	dst := writeFile(t, dir, "out/dst.txt", []byte("old"))

	if _, err := ExecuteActions([]Action{{Src: src, Dst: dst, Kind: ActionMove}}); err != nil {
		t.Fatalf("ExecuteActions() error = %v", err)
	}
	got, _ := os.ReadFile(dst)
	if string(got) != "new" {
		t.Errorf("destination content = %q, want %q", got, "new")
	}
}

func TestExecuteActions_UnsupportedFailsFast(t *testing.T) {
	t.Run("unsupported after valid move", func(t *testing.T) {
		dir := t.TempDir()
		a := writeFile(t, dir, "a.txt", []byte("a"))
		b := writeFile(t, dir, "b.txt", []byte("b"))
		aDst := filepath.Join(dir, "out", "a.txt")
		bDst := filepath.Join(dir, "out", "b.txt")

		report, err := ExecuteActions([]Action{
			{Src: a, Dst: aDst, Kind: ActionMove},
			{Src: b, Dst: bDst, Kind: ActionKind(42)},
		})
		if !errors.Is(err, ErrUnsupportedAction) {
			t.Fatalf("ExecuteActions() error = %v, want ErrUnsupportedAction", err)
		}
		if report.Count() != 1 {
			t.Errorf("Count() = %d, want 1", report.Count())
		}
		// The first move is not rolled back.
		if _, err := os.Stat(aDst); err != nil {
			t.Errorf("first move not applied: %v", err)
		}
		if _, err := os.Stat(b); err != nil {
			t.Errorf("unsupported action touched its source: %v", err)
		}
	})

	t.Run("unsupported first stops the batch", func(t *testing.T) {
		dir := t.TempDir()
		a := writeFile(t, dir, "a.txt", []byte("a"))
		b := writeFile(t, dir, "b.txt", []byte("b"))
		bDst := filepath.Join(dir, "out", "b.txt")

		report, err := ExecuteActions([]Action{
			{Src: a, Dst: filepath.Join(dir, "out", "a.txt")},
			{Src: b, Dst: bDst, Kind: ActionMove},
		})
		if !errors.Is(err, ErrUnsupportedAction) {
			t.Fatalf("ExecuteActions() error = %v, want ErrUnsupportedAction", err)
		}
		if report.Count() != 0 {
			t.Errorf("Count() = %d, want 0", report.Count())
		}
		if _, err := os.Stat(bDst); !os.IsNotExist(err) {
			t.Errorf("action after the failure was applied")
		}
	})
}

func TestExecuteActions_MissingSource(t *testing.T) {
	dir := t.TempDir()
	report, err := ExecuteActions([]Action{{
		Src:  filepath.Join(dir, "gone.txt"),
		Dst:  filepath.Join(dir, "out", "gone.txt"),
		Kind: ActionMove,
	}})
	if err == nil {
		t.Fatal("ExecuteActions() expected error for missing source")
	}
	if errors.Is(err, ErrUnsupportedAction) {
		t.Errorf("error = %v, want the underlying I/O failure", err)
	}
	if report.Count() != 0 {
		t.Errorf("Count() = %d, want 0", report.Count())
	}
}

func TestActionKind_String(t *testing.T) {
	if got := ActionMove.String(); got != "move" {
		t.Errorf("ActionMove.String() = %q, want %q", got, "move")
	}
	if got := ActionKind(0).String(); got != "ActionKind(0)" {
		t.Errorf("ActionKind(0).String() = %q", got)
	}
}
