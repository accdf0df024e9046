// Package hash computes SHA-256 digests of rendered documents and input
// files.
//
// Plans print a digest for every document they would write, so two runs over
// the same inputs can be compared without keeping the documents around.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// ShortLen is the digest prefix length used in human-readable output.
const ShortLen = 12

// Hasher provides an abstraction for hashing operations.
type Hasher interface {
	// HashBytes returns the hex digest of data.
	HashBytes(data []byte) string

	// HashFile returns the hex digest of the file at path.
	HashFile(path string) (string, error)
}

// SHA256Hasher implements Hasher using SHA-256.
type SHA256Hasher struct{}

// NewSHA256Hasher creates a new SHA256Hasher.
func NewSHA256Hasher() *SHA256Hasher {
	return &SHA256Hasher{}
}

// HashBytes returns the SHA-256 digest of data.
func (h *SHA256Hasher) HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashFile streams the file at path through SHA-256.
func (h *SHA256Hasher) HashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// Short truncates a digest to ShortLen characters.
func Short(digest string) string {
	if len(digest) <= ShortLen {
		return digest
	}
	return digest[:ShortLen]
}
