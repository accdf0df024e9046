package device

import (
	"fmt"
	"strings"

	"github.com/danieljhkim/tweakrestore/internal/plistdoc"
)

// Status codes shared by the restore backends. Any nonzero code is a failure;
// callers treat the specific value as opaque.
const (
	StatusOK              = 0
	StatusNoDevice        = 1
	StatusLockdownFailed  = 2
	StatusBackupFailed    = 3
	StatusRestoreFailed   = 4
	StatusFileNotFound    = 5
	StatusDocumentError   = 6
	StatusInvalidArgument = 22
)

// StatusText returns a short description of a status code.
func StatusText(code int) string {
	switch code {
	case StatusOK:
		return "ok"
	case StatusNoDevice:
		return "no device"
	case StatusLockdownFailed:
		return "lockdown failed"
	case StatusBackupFailed:
		return "backup failed"
	case StatusRestoreFailed:
		return "restore failed"
	case StatusFileNotFound:
		return "file not found"
	case StatusDocumentError:
		return "document error"
	case StatusInvalidArgument:
		return "invalid argument"
	default:
		return fmt.Sprintf("status %d", code)
	}
}

// Fixed restore targets.
const (
	CapabilitiesDomain = "SysContainerDomain-../../../../Shared/SystemGroup/systemgroup.com.apple.mobilegestaltcache"
	CapabilitiesPath   = "Library/Caches/com.apple.MobileGestalt.plist"

	HomeDomain        = "HomeDomain"
	UIPreferencesPath = "Library/Preferences/com.apple.springboard.plist"
	StatusBarPath     = "Library/SpringBoard/statusBarOverrides"

	LaunchdDomain = "SysContainerDomain-com.apple.launchd"
)

// ServiceOverridePath returns the launchd override path for a service.
func ServiceOverridePath(service string) string {
	return "Library/LaunchDaemons/" + service + ".plist"
}

// Writer is the device-write capability. Each call blocks until the transfer
// completes and returns 0 on success. An empty udid targets the only
// attached device.
type Writer interface {
	// WriteFile restores data to relPath inside domain.
	WriteFile(udid, domain, relPath string, data []byte) int

	// WriteCapabilities replaces the device capabilities document.
	WriteCapabilities(udid string, data []byte) int

	// WriteUIPreferences replaces the system UI preferences document.
	WriteUIPreferences(udid string, data []byte) int

	// DisableService installs a launchd override disabling service.
	DisableService(udid, service string) int
}

// ErrorReporter is implemented by writers that can describe their last
// failure.
type ErrorReporter interface {
	LastErrorMessage() string
}

// FileRestorer transfers one file to the device.
type FileRestorer interface {
	RestoreFile(udid, domain, relPath string, data []byte) int
}

// SparseWriter implements Writer on top of a FileRestorer.
type SparseWriter struct {
	restorer FileRestorer
}

// NewSparseWriter creates a Writer that routes every store to restorer.
func NewSparseWriter(restorer FileRestorer) *SparseWriter {
	return &SparseWriter{restorer: restorer}
}

// WriteFile restores data to relPath inside domain.
func (w *SparseWriter) WriteFile(udid, domain, relPath string, data []byte) int {
	return w.restorer.RestoreFile(udid, domain, relPath, data)
}

// WriteCapabilities restores the capabilities cache.
func (w *SparseWriter) WriteCapabilities(udid string, data []byte) int {
	return w.restorer.RestoreFile(udid, CapabilitiesDomain, CapabilitiesPath, data)
}

// WriteUIPreferences restores the system UI preferences.
func (w *SparseWriter) WriteUIPreferences(udid string, data []byte) int {
	return w.restorer.RestoreFile(udid, HomeDomain, UIPreferencesPath, data)
}

// DisableService restores a {Disabled: true} override for service.
func (w *SparseWriter) DisableService(udid, service string) int {
	if !validServiceID(service) {
		return StatusInvalidArgument
	}
	doc, err := plistdoc.DisabledOverride()
	if err != nil {
		return StatusDocumentError
	}
	return w.restorer.RestoreFile(udid, LaunchdDomain, ServiceOverridePath(service), doc)
}

// LastErrorMessage forwards the restorer's last failure text when it has one.
func (w *SparseWriter) LastErrorMessage() string {
	if r, ok := w.restorer.(ErrorReporter); ok {
		return r.LastErrorMessage()
	}
	return ""
}

// validServiceID rejects identifiers that would escape the LaunchDaemons
// directory.
func validServiceID(service string) bool {
	if service == "" || service == "." || service == ".." {
		return false
	}
	return !strings.ContainsAny(service, `/\`) && !strings.Contains(service, "..")
}
