package tunnel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pkt.systems/pslog"
)

const (
	// DefaultPollInterval is how often WaitUntilReady checks the capability.
	DefaultPollInterval = 200 * time.Millisecond

	// DefaultReadyTimeout bounds the wait for a freshly started tunnel.
	DefaultReadyTimeout = 12 * time.Second
)

// State is the lifecycle state of a Session.
type State int

const (
	StateIdle State = iota
	StateStarting
	StateReady
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session is one caller-owned use of the tunnel capability.
type Session struct {
	capability   Capability
	pollInterval time.Duration

	mu    sync.Mutex
	state State
}

// Option configures a Session.
type Option func(*Session)

// WithPollInterval overrides DefaultPollInterval.
func WithPollInterval(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

// NewSession creates an idle session over capability.
func NewSession(capability Capability, opts ...Option) *Session {
	s := &Session{
		capability:   capability,
		pollInterval: DefaultPollInterval,
		state:        StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start brings the tunnel up. It is a no-op when the session is already
// Ready. The capability is invoked at most once per call, and never while
// another Start on the same session is in flight.
func (s *Session) Start(ctx context.Context, pairing []byte) error {
	log := pslog.Ctx(ctx)

	s.mu.Lock()
	switch s.state {
	case StateReady:
		s.mu.Unlock()
		return nil
	case StateStarting:
		s.mu.Unlock()
		return ErrBusy
	}
	s.state = StateStarting
	s.mu.Unlock()

	log.Info("tunnel starting", "pairing_bytes", len(pairing))
	status := s.capability.Start(ctx, pairing)

	s.mu.Lock()
	defer s.mu.Unlock()
	if status != 0 {
		s.state = StateFailed
		msg := s.capability.LastErrorMessage()
		if msg == "" {
			msg = fmt.Sprintf("unknown error (code %d)", status)
		}
		log.Warn("tunnel start failed", "status", status, "err", msg)
		return fmt.Errorf("%w: %s", ErrBringupFailed, msg)
	}
	s.state = StateReady
	log.Info("tunnel started")
	return nil
}

// Ready reports whether the session is started and the device reachable.
func (s *Session) Ready(ctx context.Context) bool {
	if s.State() != StateReady {
		return false
	}
	return s.capability.IsReady(ctx)
}

// WaitUntilReady polls the capability every poll interval until the device is
// reachable, the timeout elapses (ErrNotReady) or ctx is done. Each check runs
// under the remaining deadline, so a hung check cannot outlive the timeout.
func (s *Session) WaitUntilReady(ctx context.Context, timeout time.Duration) error {
	if state := s.State(); state != StateReady {
		return fmt.Errorf("%w: session is %s", ErrNotReady, state)
	}
	log := pslog.Ctx(ctx)

	start := time.Now()
	checkCtx, cancel := context.WithDeadline(ctx, start.Add(timeout))
	defer cancel()
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	timedOut := func(polls int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		log.Warn("tunnel readiness timed out", "polls", polls, "timeout", timeout)
		return fmt.Errorf("%w after %s", ErrNotReady, timeout)
	}

	polls := 0
	for {
		polls++
		if s.capability.IsReady(checkCtx) {
			log.Debug("tunnel ready", "polls", polls, "waited", time.Since(start))
			return nil
		}
		// A slow check leaves a tick pending; the deadline wins over it.
		if checkCtx.Err() != nil {
			return timedOut(polls)
		}
		select {
		case <-checkCtx.Done():
			return timedOut(polls)
		case <-ticker.C:
		}
	}
}

// Stop tears the tunnel down if it was started and returns the session to
// Idle. It is safe to call any number of times.
func (s *Session) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateReady:
		s.capability.Stop(ctx)
		pslog.Ctx(ctx).Info("tunnel stopped")
		s.state = StateIdle
	case StateFailed:
		s.state = StateIdle
	}
}
