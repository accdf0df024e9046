package state

import "time"

// Restore outcomes.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

// DeviceState is the authoritative record of what tweakrestore last wrote to
// a device.
type DeviceState struct {
	// UDID is the device identifier. Empty means the default device.
	UDID string `json:"udid"`

	// LastRestore is the most recent restore, or nil if none was recorded.
	LastRestore *RestoreRecord `json:"lastRestore,omitempty"`

	// Restores counts every recorded restore for the device.
	Restores int `json:"restores"`
}

// RestoreRecord describes one restore session.
type RestoreRecord struct {
	// SessionID identifies the restore session
	SessionID string `json:"sessionId"`

	// Profile is the profile that was restored, or "" for inline selections
	Profile string `json:"profile,omitempty"`

	// Outcome is OutcomeSucceeded or OutcomeFailed
	Outcome string `json:"outcome"`

	// Error is the failure message for a failed restore
	Error string `json:"error,omitempty"`

	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`

	// Documents lists the documents the device accepted, in stage order
	Documents []DocumentRecord `json:"documents"`
}

// DocumentRecord describes one document the device accepted.
type DocumentRecord struct {
	Label   string `json:"label"`
	Domain  string `json:"domain"`
	Path    string `json:"path"`
	Service string `json:"service,omitempty"`

	// Checksum is the hex SHA-256 digest of the document
	Checksum string `json:"checksum"`
}

// NewDeviceState creates a new empty DeviceState.
func NewDeviceState(udid string) *DeviceState {
	return &DeviceState{UDID: udid}
}

// Record replaces the last restore and bumps the restore count.
func (s *DeviceState) Record(rec *RestoreRecord) {
	if rec.Documents == nil {
		rec.Documents = []DocumentRecord{}
	}
	s.LastRestore = rec
	s.Restores++
}

// Succeeded reports whether the last restore completed every stage.
func (s *DeviceState) Succeeded() bool {
	return s.LastRestore != nil && s.LastRestore.Outcome == OutcomeSucceeded
}
