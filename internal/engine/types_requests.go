package engine

import (
	"github.com/danieljhkim/tweakrestore/internal/catalog"
	"github.com/danieljhkim/tweakrestore/internal/restore"
	"github.com/danieljhkim/tweakrestore/internal/value"
)

// ApplyRequest represents a request to restore a profile to the device.
type ApplyRequest struct {
	// Profile names the selection profile. Empty uses the default profile.
	Profile string

	// Selections, when non-nil, is used instead of loading a profile.
	Selections map[string]value.Raw

	// PairingPath is the pairing record handed to the tunnel. Required
	// unless DryRun.
	PairingPath string

	// SnapshotPath is the current device capabilities document. Required when
	// the plan patches device capabilities.
	SnapshotPath string

	// DeviceVersion, when set, rejects selections outside their supported
	// range. Empty falls back to the configured version.
	DeviceVersion string

	// UDID overrides the configured target device.
	UDID string

	// DryRun renders the documents without touching a tunnel or device
	DryRun bool

	// Progress receives progress updates during a restore.
	Progress restore.ProgressFunc
}

// SetSelectionRequest represents a request to set one selection.
type SetSelectionRequest struct {
	// Profile names the profile to edit. It is created if missing.
	Profile string

	// ID is the tweak identifier.
	ID string

	// Value is the textual value, converted to the tweak's type.
	Value string
}

// UnsetSelectionRequest represents a request to remove one selection.
type UnsetSelectionRequest struct {
	Profile string
	ID      string
}

// CatalogRequest represents a request to list tweaks.
type CatalogRequest struct {
	// Store filters to one store. Empty lists all stores.
	Store catalog.StoreKind

	// DeviceVersion, when set, marks each tweak as supported or not.
	DeviceVersion string
}

// StatusRequest represents a request for a device's restore state.
type StatusRequest struct {
	// UDID selects the device. Empty uses the configured device.
	UDID string
}
