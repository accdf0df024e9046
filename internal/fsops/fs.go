// Package fsops provides the filesystem operations used for profiles,
// staged restores and input files.
//
// All writes go through the FS interface so that they are atomic
// (temp file + rename) and testable, and so that paths derived from user
// input can be validated before they are joined onto a root directory.
package fsops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FS provides an abstraction for filesystem operations.
type FS interface {
	// ReadFile reads the entire contents of a file.
	ReadFile(path string) ([]byte, error)

	// AtomicWrite writes data to path atomically using temp file + rename.
	AtomicWrite(path string, data []byte, perm os.FileMode) error

	// ReadDir lists a directory, sorted by name.
	ReadDir(path string) ([]os.DirEntry, error)

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string, perm os.FileMode) error

	// Remove removes a file or empty directory.
	Remove(path string) error

	// Exists checks if a path exists.
	Exists(path string) (bool, error)

	// ValidateRelPath validates a relative path for safety.
	ValidateRelPath(relPath string) error

	// ValidateIdentifier validates a name used as a single path component.
	ValidateIdentifier(id string) error
}

// RealFS implements FS using actual OS operations.
type RealFS struct{}

// NewRealFS creates a new RealFS.
func NewRealFS() *RealFS {
	return &RealFS{}
}

// ReadFile reads the entire contents of a file.
func (fs *RealFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// ReadDir lists a directory, sorted by name.
func (fs *RealFS) ReadDir(path string) ([]os.DirEntry, error) {
	return os.ReadDir(path)
}

// MkdirAll creates a directory and all parent directories.
func (fs *RealFS) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Remove removes a file or empty directory.
func (fs *RealFS) Remove(path string) error {
	return os.Remove(path)
}

// Exists checks if a path exists.
func (fs *RealFS) Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// AtomicWrite writes data to path atomically using temp file + rename.
func (fs *RealFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".tweakrestore-tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on error
	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	tmpFile = nil
	return nil
}

// ValidateRelPath rejects empty, absolute and escaping relative paths.
func (fs *RealFS) ValidateRelPath(relPath string) error {
	cleaned := filepath.Clean(filepath.FromSlash(relPath))

	if relPath == "" || cleaned == "." {
		return fmt.Errorf("invalid path: empty or current directory")
	}
	if filepath.IsAbs(cleaned) || strings.HasPrefix(relPath, "/") {
		return fmt.Errorf("invalid path: must be relative, got absolute path %q", relPath)
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return fmt.Errorf("invalid path: path traversal not allowed in %q", relPath)
	}
	return nil
}

// ValidateIdentifier rejects names that are empty, contain separators or are
// traversal segments.
func (fs *RealFS) ValidateIdentifier(id string) error {
	if id == "" {
		return fmt.Errorf("invalid identifier: empty")
	}
	if strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("invalid identifier: must not contain path separators")
	}
	if id == "." || id == ".." || strings.HasPrefix(id, "..") {
		return fmt.Errorf("invalid identifier: path traversal not allowed")
	}
	return nil
}
