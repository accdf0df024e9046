// Package engine provides the caller-facing API for tweakrestore operations.
//
// The engine sits between the CLI and the restore pipeline. It resolves
// selection profiles against the catalog, compiles them into a plan, loads
// input files and owns the tunnel for the duration of a restore.
//
// Key components:
//   - Engine: Main entry point that coordinates all operations
//   - Apply/Plan: Runs or renders a restore for a profile
//   - Profile operations: Edit and inspect selection profiles
//   - Catalog: Lists tweaks with their support status for a device version
//   - Status: Reports the last restore recorded for a device
package engine

import (
	"sync"
	"time"

	"github.com/danieljhkim/tweakrestore/internal/catalog"
	"github.com/danieljhkim/tweakrestore/internal/clock"
	"github.com/danieljhkim/tweakrestore/internal/device"
	"github.com/danieljhkim/tweakrestore/internal/fsops"
	"github.com/danieljhkim/tweakrestore/internal/hash"
	"github.com/danieljhkim/tweakrestore/internal/selection"
	"github.com/danieljhkim/tweakrestore/internal/state"
	"github.com/danieljhkim/tweakrestore/internal/tunnel"
)

// Settings holds the configured defaults an Engine applies to requests.
type Settings struct {
	// UDID is the default target device.
	UDID string

	// DeviceVersion is the default OS version used for support checks.
	DeviceVersion string

	// ReadyTimeout bounds the wait for the tunnel.
	ReadyTimeout time.Duration

	// PollInterval is the tunnel readiness poll interval.
	PollInterval time.Duration

	// DefaultProfile is used when a request names no profile.
	DefaultProfile string
}

// Engine orchestrates all tweakrestore operations.
// It is the main API surface called by the CLI.
type Engine struct {
	catalog    *catalog.Catalog
	profiles   selection.ProfileStore
	stateStore state.StateStore
	fs         fsops.FS
	hasher     hash.Hasher
	clock      clock.Clock
	capability tunnel.Capability
	writer     device.Writer
	settings   Settings

	// running is held for the whole of a device restore.
	running sync.Mutex
}

// New creates a new Engine with the given dependencies.
func New(
	cat *catalog.Catalog,
	profiles selection.ProfileStore,
	stateStore state.StateStore,
	fs fsops.FS,
	hasher hash.Hasher,
	clk clock.Clock,
	capability tunnel.Capability,
	writer device.Writer,
	settings Settings,
) *Engine {
	if settings.ReadyTimeout <= 0 {
		settings.ReadyTimeout = tunnel.DefaultReadyTimeout
	}
	if settings.PollInterval <= 0 {
		settings.PollInterval = tunnel.DefaultPollInterval
	}
	if settings.DefaultProfile == "" {
		settings.DefaultProfile = "default"
	}
	return &Engine{
		catalog:    cat,
		profiles:   profiles,
		stateStore: stateStore,
		fs:         fs,
		hasher:     hasher,
		clock:      clk,
		capability: capability,
		writer:     writer,
		settings:   settings,
	}
}

// Catalog returns the catalog the engine compiles against.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

func (e *Engine) profileName(name string) string {
	if name == "" {
		return e.settings.DefaultProfile
	}
	return name
}

func (e *Engine) deviceVersion(version string) string {
	if version == "" {
		return e.settings.DeviceVersion
	}
	return version
}
