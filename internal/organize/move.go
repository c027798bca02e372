package organize

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
)

// SafeMove moves src into destDir under a collision-free name and returns
// the final path. An existing file is never replaced.
func SafeMove(src, destDir string) (string, error) {
	dest, err := UniquePath(destDir, filepath.Base(src))
	if err != nil {
		return "", err
	}

	if err := os.Rename(src, dest); err != nil {
		if !errors.Is(err, syscall.EXDEV) {
			return "", fmt.Errorf("moving %s: %w", src, err)
		}
		// Cross-device: copy then remove the source.
		if err := copyFile(src, dest); err != nil {
			return "", fmt.Errorf("copying %s across devices: %w", src, err)
		}
		if err := os.Remove(src); err != nil {
			return "", fmt.Errorf("removing %s after copy: %w", src, err)
		}
	}
	return dest, nil
}

// copyFile copies src to a new file at dst, keeping mode and mtime.
// It fails if dst already exists.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
