package device

import (
	"context"
	"sync"

	"github.com/danieljhkim/tweakrestore/internal/helper"
)

// ExecRestorer hands files to a native restore helper:
//
//	<helper> [args...] restore --domain <domain> --path <relPath> [--udid <udid>]
//
// with the file contents on stdin. The helper's exit status is returned as
// the restore status.
type ExecRestorer struct {
	helper string
	args   []string
	runner helper.Runner

	mu      sync.Mutex
	lastErr string
}

// NewExecRestorer creates a restorer backed by the given helper binary.
func NewExecRestorer(runner helper.Runner, bin string, args ...string) *ExecRestorer {
	return &ExecRestorer{
		helper: bin,
		args:   args,
		runner: runner,
	}
}

// RestoreFile runs the helper once for the file.
func (r *ExecRestorer) RestoreFile(udid, domain, relPath string, data []byte) int {
	args := make([]string, 0, len(r.args)+7)
	args = append(args, r.args...)
	args = append(args, "restore", "--domain", domain, "--path", relPath)
	if udid != "" {
		args = append(args, "--udid", udid)
	}

	res := r.runner.Run(context.Background(), r.helper, args, data)
	if !res.OK() {
		r.mu.Lock()
		r.lastErr = res.Message
		r.mu.Unlock()
	}
	return res.Status
}

// LastErrorMessage returns the stderr of the last failed restore.
func (r *ExecRestorer) LastErrorMessage() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}
