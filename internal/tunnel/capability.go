package tunnel

import (
	"context"
	"sync"

	"github.com/danieljhkim/tweakrestore/internal/helper"
)

// Capability is the external tunnel daemon.
type Capability interface {
	// Start brings the tunnel up using the device pairing record. A nonzero
	// status means failure; LastErrorMessage then describes it.
	Start(ctx context.Context, pairing []byte) int

	// IsReady reports whether the device is reachable through the tunnel. A
	// check cut off by ctx reports false.
	IsReady(ctx context.Context) bool

	// Stop tears the tunnel down.
	Stop(ctx context.Context)

	// LastErrorMessage returns the most recent failure text, or "".
	LastErrorMessage() string
}

// ExecCapability drives a tunnel helper binary:
//
//	<helper> [args...] start   pairing record on stdin
//	<helper> [args...] ready   exit 0 when the device is reachable
//	<helper> [args...] stop
type ExecCapability struct {
	helper string
	args   []string
	runner helper.Runner

	mu      sync.Mutex
	lastErr string
}

// NewExecCapability creates a capability backed by the given helper binary.
func NewExecCapability(runner helper.Runner, bin string, args ...string) *ExecCapability {
	return &ExecCapability{
		helper: bin,
		args:   args,
		runner: runner,
	}
}

func (c *ExecCapability) command(op string) []string {
	out := make([]string, 0, len(c.args)+1)
	out = append(out, c.args...)
	return append(out, op)
}

func (c *ExecCapability) record(res helper.Result) {
	if res.OK() {
		return
	}
	c.mu.Lock()
	c.lastErr = res.Message
	c.mu.Unlock()
}

// Start runs the helper's start operation.
func (c *ExecCapability) Start(ctx context.Context, pairing []byte) int {
	res := c.runner.Run(ctx, c.helper, c.command("start"), pairing)
	c.record(res)
	return res.Status
}

// IsReady runs the helper's ready check.
func (c *ExecCapability) IsReady(ctx context.Context) bool {
	return c.runner.Run(ctx, c.helper, c.command("ready"), nil).OK()
}

// Stop runs the helper's stop operation. Failures are only recorded.
func (c *ExecCapability) Stop(ctx context.Context) {
	c.record(c.runner.Run(ctx, c.helper, c.command("stop"), nil))
}

// LastErrorMessage returns the stderr of the last failed helper call.
func (c *ExecCapability) LastErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// DirectCapability is used when the device is reachable without a tunnel,
// such as a USB connection or the staging writer. Start always succeeds and
// the device is always ready.
type DirectCapability struct{}

// Start accepts any pairing record.
func (DirectCapability) Start(ctx context.Context, pairing []byte) int { return 0 }

// IsReady always reports true.
func (DirectCapability) IsReady(ctx context.Context) bool { return true }

// Stop does nothing.
func (DirectCapability) Stop(ctx context.Context) {}

// LastErrorMessage always returns "".
func (DirectCapability) LastErrorMessage() string { return "" }
