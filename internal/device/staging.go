package device

import (
	"fmt"
	"net/url"
	"path/filepath"
	"sync"

	"github.com/danieljhkim/tweakrestore/internal/fsops"
)

// StagingRestorer writes restored files under a local directory:
//
//	<root>/[<udid>/]<escaped domain>/<relPath>
//
// Domains are path-escaped so that traversal segments in a domain name stay
// inside their own directory.
type StagingRestorer struct {
	fs   fsops.FS
	root string

	mu      sync.Mutex
	lastErr string
}

// NewStagingRestorer creates a restorer rooted at root.
func NewStagingRestorer(fs fsops.FS, root string) *StagingRestorer {
	return &StagingRestorer{fs: fs, root: root}
}

// Path returns where a file for domain and relPath is staged.
func (r *StagingRestorer) Path(udid, domain, relPath string) string {
	parts := []string{r.root}
	if udid != "" {
		parts = append(parts, url.PathEscape(udid))
	}
	parts = append(parts, url.PathEscape(domain), filepath.FromSlash(relPath))
	return filepath.Join(parts...)
}

// RestoreFile writes data atomically to its staged location.
func (r *StagingRestorer) RestoreFile(udid, domain, relPath string, data []byte) int {
	if domain == "" {
		return r.fail(StatusInvalidArgument, fmt.Errorf("empty domain"))
	}
	if err := r.fs.ValidateRelPath(relPath); err != nil {
		return r.fail(StatusInvalidArgument, err)
	}
	if err := r.fs.AtomicWrite(r.Path(udid, domain, relPath), data, 0644); err != nil {
		return r.fail(StatusRestoreFailed, err)
	}
	return StatusOK
}

func (r *StagingRestorer) fail(status int, err error) int {
	r.mu.Lock()
	r.lastErr = err.Error()
	r.mu.Unlock()
	return status
}

// LastErrorMessage returns the last staging failure.
func (r *StagingRestorer) LastErrorMessage() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}
