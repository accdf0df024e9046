package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultPaths(t *testing.T) {
	t.Run("returns paths based on home directory", func(t *testing.T) {
		t.Setenv(RootEnv, "")

		paths, err := DefaultPaths()
		if err != nil {
			t.Fatalf("DefaultPaths failed: %v", err)
		}

		if filepath.Base(paths.Root) != ".tweakrestore" {
			t.Errorf("Root should end with .tweakrestore, got: %s", paths.Root)
		}
		if paths.Profiles != filepath.Join(paths.Root, "profiles") {
			t.Errorf("Profiles path incorrect: got %s", paths.Profiles)
		}
		if paths.Devices != filepath.Join(paths.Root, "state", "devices") {
			t.Errorf("Devices path incorrect: got %s", paths.Devices)
		}
		if paths.Config != filepath.Join(paths.Root, "config.yaml") {
			t.Errorf("Config path incorrect: got %s", paths.Config)
		}
	})

	t.Run("respects TWEAKRESTORE_ROOT", func(t *testing.T) {
		customRoot := "/custom/tweakrestore/path"
		t.Setenv(RootEnv, customRoot)

		paths, err := DefaultPaths()
		if err != nil {
			t.Fatalf("DefaultPaths failed: %v", err)
		}

		if paths.Root != customRoot {
			t.Errorf("Expected root %s, got %s", customRoot, paths.Root)
		}
		if paths.Staging != filepath.Join(customRoot, "staging") {
			t.Errorf("Staging should be under custom root, got: %s", paths.Staging)
		}
	})
}

func TestPaths_EnsureDirectories(t *testing.T) {
	paths := PathsAt(filepath.Join(t.TempDir(), "root"))

	if err := paths.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{paths.Root, paths.Profiles, paths.Devices} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("expected directory %s", dir)
		}
	}
}
