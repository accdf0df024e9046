package selection

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/danieljhkim/tweakrestore/internal/clock"
	"github.com/danieljhkim/tweakrestore/internal/fsops"
	"github.com/danieljhkim/tweakrestore/internal/value"
)

const profileExt = ".yaml"

// ProfileStore provides an interface for persisting selection profiles.
type ProfileStore interface {
	// Load loads the named profile. Returns ErrProfileNotFound if it does
	// not exist.
	Load(name string) (*Profile, error)

	// Save writes the profile atomically.
	Save(profile *Profile) error

	// Delete removes the named profile. Deleting a missing profile is not an
	// error.
	Delete(name string) error

	// List returns the names of all stored profiles, sorted.
	List() ([]string, error)
}

// FileProfileStore implements ProfileStore using YAML files on disk.
type FileProfileStore struct {
	fs    fsops.FS
	dir   string
	clock clock.Clock
}

// NewFileProfileStore creates a new FileProfileStore rooted at dir.
func NewFileProfileStore(fs fsops.FS, dir string, clk clock.Clock) *FileProfileStore {
	return &FileProfileStore{
		fs:    fs,
		dir:   dir,
		clock: clk,
	}
}

func (s *FileProfileStore) path(name string) (string, error) {
	if err := s.fs.ValidateIdentifier(name); err != nil {
		return "", fmt.Errorf("invalid profile name %q: %w", name, err)
	}
	return filepath.Join(s.dir, name+profileExt), nil
}

// Load loads the named profile.
func (s *FileProfileStore) Load(name string) (*Profile, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}

	data, err := s.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
		}
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile %s: %w", name, err)
	}
	if profile.Version > ProfileVersion {
		return nil, fmt.Errorf("profile %s has version %d, newer than supported %d", name, profile.Version, ProfileVersion)
	}
	profile.Name = name
	if profile.Selections == nil {
		profile.Selections = make(map[string]value.Raw)
	}
	return &profile, nil
}

// Save writes the profile atomically, stamping its version and update time.
func (s *FileProfileStore) Save(profile *Profile) error {
	path, err := s.path(profile.Name)
	if err != nil {
		return err
	}

	profile.Version = ProfileVersion
	profile.UpdatedAt = s.clock.Now().UTC()

	data, err := yaml.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := s.fs.AtomicWrite(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}

// Delete removes the named profile.
func (s *FileProfileStore) Delete(name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}

// List returns the names of all stored profiles.
func (s *FileProfileStore) List() ([]string, error) {
	entries, err := s.fs.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if name, ok := strings.CutSuffix(entry.Name(), profileExt); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
