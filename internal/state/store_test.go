package state

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/danieljhkim/tweakrestore/internal/fsops"
)

func TestFileStateStore_SaveLoad(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStateStore(fsops.NewRealFS(), filepath.Join(dir, "devices"))

	ds := NewDeviceState("00008110-TEST")
	ds.Record(&RestoreRecord{SessionID: "s1", Outcome: OutcomeSucceeded})
	if err := store.SaveDevice(ds); err != nil {
		t.Fatalf("SaveDevice() error = %v", err)
	}

	loaded, err := store.LoadDevice("00008110-TEST")
	if err != nil {
		t.Fatalf("LoadDevice() error = %v", err)
	}
	if loaded.LastRestore == nil || loaded.LastRestore.SessionID != "s1" {
		t.Errorf("unexpected LastRestore: %+v", loaded.LastRestore)
	}

	if _, err := os.Stat(filepath.Join(dir, "devices", DeviceID("00008110-TEST")+".json")); err != nil {
		t.Errorf("expected state file on disk: %v", err)
	}
}

func TestFileStateStore_LoadMissing(t *testing.T) {
	store := NewFileStateStore(fsops.NewRealFS(), t.TempDir())

	_, err := store.LoadDevice("nope")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestFileStateStore_Delete(t *testing.T) {
	store := NewFileStateStore(fsops.NewRealFS(), t.TempDir())

	if err := store.DeleteDevice("never-saved"); err != nil {
		t.Errorf("DeleteDevice() on missing state error = %v", err)
	}

	if err := store.SaveDevice(NewDeviceState("")); err != nil {
		t.Fatalf("SaveDevice() error = %v", err)
	}
	if err := store.DeleteDevice(""); err != nil {
		t.Fatalf("DeleteDevice() error = %v", err)
	}
	if _, err := store.LoadDevice(""); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist after delete, got %v", err)
	}
}

func TestFileStateStore_CorruptState(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStateStore(fsops.NewRealFS(), dir)

	if err := os.WriteFile(filepath.Join(dir, DeviceID("x")+".json"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := store.LoadDevice("x"); err == nil {
		t.Error("expected error for corrupt state")
	}
}
