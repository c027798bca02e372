package dedupe

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// DefaultChunkSize is the read size used when hashing file content (1 MiB).
const DefaultChunkSize = 1 << 20

// Algorithm names a content digest. Every supported algorithm produces a
// 32-byte digest, rendered as 64 lowercase hex characters.
type Algorithm string

const (
	SHA256 Algorithm = "sha256"
	BLAKE3 Algorithm = "blake3"
)

// ParseAlgorithm validates an algorithm name. The empty string selects SHA256.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(name) {
	case "", SHA256:
		return SHA256, nil
	case BLAKE3:
		return BLAKE3, nil
	default:
		return "", fmt.Errorf("%w: unknown hash algorithm %q", ErrInvalidArgument, name)
	}
}

// Hasher computes content fingerprints by streaming files through a digest
// in bounded chunks. The chunk size never affects the result.
type Hasher struct {
	algorithm Algorithm
	chunkSize int
}

// NewHasher creates a Hasher. chunkSize must be positive.
func NewHasher(algorithm Algorithm, chunkSize int) (*Hasher, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be > 0, got %d", ErrInvalidArgument, chunkSize)
	}
	alg, err := ParseAlgorithm(string(algorithm))
	if err != nil {
		return nil, err
	}
	return &Hasher{algorithm: alg, chunkSize: chunkSize}, nil
}

// Algorithm returns the digest algorithm in use.
func (h *Hasher) Algorithm() Algorithm {
	return h.algorithm
}

// Digest returns the lowercase hex fingerprint of the file at path.
func (h *Hasher) Digest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: opening %s: %w", ErrReadFailure, path, err)
	}
	defer f.Close()

	d := h.newDigest()
	buf := make([]byte, h.chunkSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			d.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: reading %s: %w", ErrReadFailure, path, err)
		}
	}

	return hex.EncodeToString(d.Sum(nil)), nil
}

func (h *Hasher) newDigest() hash.Hash {
	if h.algorithm == BLAKE3 {
		return blake3.New()
	}
	return sha256.New()
}

// Digest returns the SHA-256 fingerprint of the file at path, reading at
// most chunkSize bytes at a time.
func Digest(path string, chunkSize int) (string, error) {
	h, err := NewHasher(SHA256, chunkSize)
	if err != nil {
		return "", err
	}
	return h.Digest(path)
}
