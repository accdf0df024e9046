// Package config manages tweakrestore configuration and filesystem paths.
//
// The default root is ~/.tweakrestore/ containing profiles/, staging/,
// state/devices/ and config.yaml. The root can be moved with
// TWEAKRESTORE_ROOT.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// RootEnv overrides the data root directory.
const RootEnv = "TWEAKRESTORE_ROOT"

// Paths contains all the filesystem paths used by tweakrestore.
type Paths struct {
	// Root is the base directory for all data (default: ~/.tweakrestore)
	Root string

	// Profiles is the directory containing selection profiles
	Profiles string

	// Staging is the default output directory of the staging writer
	Staging string

	// Devices is the directory containing per-device restore state
	Devices string

	// Config is the path to the config file
	Config string
}

// DefaultPaths returns the default paths.
// Paths can be overridden with environment variables:
// - TWEAKRESTORE_ROOT: Override the root directory
func DefaultPaths() (*Paths, error) {
	root := os.Getenv(RootEnv)
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, ".tweakrestore")
	}
	return PathsAt(root), nil
}

// PathsAt returns the layout rooted at root.
func PathsAt(root string) *Paths {
	return &Paths{
		Root:     root,
		Profiles: filepath.Join(root, "profiles"),
		Staging:  filepath.Join(root, "staging"),
		Devices:  filepath.Join(root, "state", "devices"),
		Config:   filepath.Join(root, "config.yaml"),
	}
}

// EnsureDirectories creates all necessary directories if they don't exist.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.Root, p.Profiles, p.Devices} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
