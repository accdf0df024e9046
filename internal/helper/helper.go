// Package helper runs the native helper binaries that own the device
// transport. Each call is one short-lived process: arguments select the
// operation, stdin carries the payload and the exit status is the result code.
package helper

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

// StatusSpawnFailed is reported when the helper could not be started at all.
const StatusSpawnFailed = -1

// StatusCanceled is reported when ctx ended before the helper exited. The
// helper is killed.
const StatusCanceled = -2

// waitDelay bounds how long a killed helper's output pipes are drained.
const waitDelay = time.Second

// Result is the outcome of one helper invocation.
type Result struct {
	// Status is the process exit code, or StatusSpawnFailed.
	Status int

	// Stdout is the captured standard output.
	Stdout string

	// Message is the trimmed standard error, or the spawn error.
	Message string
}

// OK reports whether the helper exited with status 0.
func (r Result) OK() bool {
	return r.Status == 0
}

// Runner invokes helper processes.
type Runner interface {
	// Run executes one helper call. The process is killed when ctx ends.
	Run(ctx context.Context, name string, args []string, stdin []byte) Result
}

// ExecRunner implements Runner using os/exec.
type ExecRunner struct {
	// Env is appended to the inherited environment.
	Env []string
}

// NewExecRunner creates a new ExecRunner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes name with args, feeding stdin to the process.
func (r *ExecRunner) Run(ctx context.Context, name string, args []string, stdin []byte) Result {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = waitDelay
	if len(r.Env) > 0 {
		cmd.Env = append(cmd.Environ(), r.Env...)
	}
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Stdout:  stdout.String(),
		Message: strings.TrimSpace(stderr.String()),
	}
	if err == nil {
		return res
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		res.Status = StatusCanceled
		res.Message = ctxErr.Error()
		return res
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.Status = exitErr.ExitCode()
		return res
	}
	res.Status = StatusSpawnFailed
	if res.Message == "" {
		res.Message = err.Error()
	}
	return res
}
