package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/danieljhkim/tweakrestore/internal/fsops"
)

// StateStore provides an interface for persisting device state.
type StateStore interface {
	// LoadDevice loads the state for the given device identifier.
	// Returns os.ErrNotExist if no state was recorded.
	LoadDevice(udid string) (*DeviceState, error)

	// SaveDevice saves the device state atomically.
	SaveDevice(state *DeviceState) error

	// DeleteDevice deletes the device state file.
	DeleteDevice(udid string) error
}

// FileStateStore implements StateStore using JSON files on disk.
type FileStateStore struct {
	fs         fsops.FS
	devicesDir string
}

// NewFileStateStore creates a new FileStateStore.
func NewFileStateStore(fs fsops.FS, devicesDir string) *FileStateStore {
	return &FileStateStore{
		fs:         fs,
		devicesDir: devicesDir,
	}
}

func (s *FileStateStore) path(udid string) string {
	return filepath.Join(s.devicesDir, DeviceID(udid)+".json")
}

// LoadDevice loads the state for the given device identifier.
func (s *FileStateStore) LoadDevice(udid string) (*DeviceState, error) {
	data, err := s.fs.ReadFile(s.path(udid))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, os.ErrNotExist
		}
		return nil, fmt.Errorf("failed to read device state: %w", err)
	}

	var state DeviceState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal device state: %w", err)
	}
	if state.UDID != udid {
		return nil, fmt.Errorf("device state belongs to %q, not %q", state.UDID, udid)
	}

	return &state, nil
}

// SaveDevice saves the device state atomically.
func (s *FileStateStore) SaveDevice(state *DeviceState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal device state: %w", err)
	}

	if err := s.fs.AtomicWrite(s.path(state.UDID), data, 0644); err != nil {
		return fmt.Errorf("failed to write device state: %w", err)
	}

	return nil
}

// DeleteDevice deletes the device state file.
func (s *FileStateStore) DeleteDevice(udid string) error {
	if err := s.fs.Remove(s.path(udid)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete device state: %w", err)
	}

	return nil
}
