package engine

import (
	"time"

	"github.com/danieljhkim/tweakrestore/internal/catalog"
	"github.com/danieljhkim/tweakrestore/internal/planner"
	"github.com/danieljhkim/tweakrestore/internal/state"
	"github.com/danieljhkim/tweakrestore/internal/value"
)

// ApplyResult represents the result of a restore or dry run.
type ApplyResult struct {
	// Profile is the profile that was compiled, or "" for inline selections
	Profile string `json:"profile,omitempty"`

	// Plan is the compiled plan
	Plan *planner.Plan `json:"plan"`

	// DryRun is true when nothing was written
	DryRun bool `json:"dry_run"`

	// SessionID identifies the restore session (empty for dry runs)
	SessionID string `json:"session_id,omitempty"`

	// Documents lists every document in stage order. For a restore that
	// failed part way, only the documents the device accepted are listed.
	Documents []DocumentInfo `json:"documents"`

	// Applied lists the labels of stages that completed
	Applied []string `json:"applied"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// DocumentInfo describes one rendered document.
type DocumentInfo struct {
	Label   string            `json:"label"`
	Store   catalog.StoreKind `json:"store"`
	Domain  string            `json:"domain"`
	Path    string            `json:"path"`
	Service string            `json:"service,omitempty"`
	Size    int               `json:"size"`
	Digest  string            `json:"digest"`
	Weight  float64           `json:"weight"`
}

// ProfileEntry is one selection in a profile, resolved against the catalog.
type ProfileEntry struct {
	ID      string            `json:"id"`
	Name    string            `json:"name,omitempty"`
	Store   catalog.StoreKind `json:"store,omitempty"`
	Value   value.Raw         `json:"value"`
	Enabled bool              `json:"enabled"`
	Known   bool              `json:"known"`
}

// ProfileResult describes a profile.
type ProfileResult struct {
	Name      string         `json:"name"`
	UpdatedAt time.Time      `json:"updated_at"`
	Entries   []ProfileEntry `json:"entries"`
}

// CatalogEntry is one tweak with its support status.
type CatalogEntry struct {
	catalog.Tweak

	// Supported is nil when no device version was given.
	Supported *bool `json:"supported,omitempty"`
}

// StatusResult describes what was last restored to a device.
type StatusResult struct {
	UDID string `json:"udid"`

	// Restores counts the recorded restores. Zero means none was recorded.
	Restores int `json:"restores"`

	// LastRestore is nil when no restore was recorded.
	LastRestore *state.RestoreRecord `json:"last_restore,omitempty"`
}
