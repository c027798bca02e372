// Package metadata describes a single file the way the info command shows it.
package metadata

import (
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"

	"sss-go/internal/dedupe"
)

const defaultMIME = "application/octet-stream"

// Metadata is what is known about one file.
type Metadata struct {
	Path      string
	Ext       string // lowercase, without the dot
	Size      int64
	ModTime   time.Time
	Digest    string
	Algorithm dedupe.Algorithm
	MIME      string

	// Set for decodable images only.
	Width  int
	Height int

	// Set when the file carries EXIF data.
	TakenAt time.Time
	Camera  string
}

// IsImage reports whether the MIME type is an image type.
func (m *Metadata) IsImage() bool {
	return strings.HasPrefix(m.MIME, "image/")
}

// Extract collects metadata for the regular file at path, fingerprinting
// it with hasher.
func Extract(path string, hasher *dedupe.Hasher) (*Metadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("not a regular file: %s", path)
	}

	digest, err := hasher.Digest(path)
	if err != nil {
		return nil, err
	}

	md := &Metadata{
		Path:      path,
		Ext:       Ext(path),
		Size:      info.Size(),
		ModTime:   info.ModTime(),
		Digest:    digest,
		Algorithm: hasher.Algorithm(),
		MIME:      MIMEType(path),
	}
	if md.IsImage() {
		md.Width, md.Height, _ = imageSize(path)
		md.TakenAt, md.Camera = exifInfo(path)
	}
	return md, nil
}

// Ext returns the lowercase extension of path without the dot. Dot-files
// such as ".gitignore" have no extension.
func Ext(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == base {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MIMEType guesses the MIME type from the file name.
func MIMEType(path string) string {
	ext := Ext(path)
	if ext == "" {
		return defaultMIME
	}
	t := mime.TypeByExtension("." + ext)
	if t == "" {
		return defaultMIME
	}
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return t
}

func imageSize(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

func exifInfo(path string) (time.Time, string) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, ""
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return time.Time{}, ""
	}
	taken, _ := x.DateTime()
	var camera string
	if tag, err := x.Get(exif.Model); err == nil {
		camera, _ = tag.StringVal()
	}
	return taken, strings.TrimSpace(camera)
}
