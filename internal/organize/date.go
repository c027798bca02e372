package organize

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// DateSource determines the timestamp a file is filed under.
type DateSource interface {
	Date(path string, info os.FileInfo) (time.Time, error)
}

// ModTimeDateSource files by modification time.
type ModTimeDateSource struct{}

func (ModTimeDateSource) Date(_ string, info os.FileInfo) (time.Time, error) {
	return info.ModTime(), nil
}

// ExifDateSource files photos by their EXIF DateTimeOriginal and falls back to
// the modification time when the file carries no usable EXIF data.
type ExifDateSource struct{}

func (ExifDateSource) Date(path string, info os.FileInfo) (time.Time, error) {
	if t, err := exifDate(path); err == nil {
		return t, nil
	}
	return info.ModTime(), nil
}

func exifDate(path string) (time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return time.Time{}, err
	}
	return x.DateTime()
}

// NewDateSource returns the DateSource for a config name: "mtime" (the
// default when empty) or "exif".
func NewDateSource(name string) (DateSource, error) {
	switch name {
	case "", "mtime":
		return ModTimeDateSource{}, nil
	case "exif":
		return ExifDateSource{}, nil
	default:
		return nil, fmt.Errorf("unknown date source: %s", name)
	}
}

// TargetDir returns root/YYYY/MM for t in local time.
func TargetDir(root string, t time.Time) string {
	t = t.Local()
	return filepath.Join(root, t.Format("2006"), t.Format("01"))
}
