package restore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"pkt.systems/pslog"

	"github.com/danieljhkim/tweakrestore/internal/catalog"
	"github.com/danieljhkim/tweakrestore/internal/clock"
	"github.com/danieljhkim/tweakrestore/internal/device"
	"github.com/danieljhkim/tweakrestore/internal/logx"
	"github.com/danieljhkim/tweakrestore/internal/planner"
	"github.com/danieljhkim/tweakrestore/internal/tunnel"
)

// CompleteLabel is the progress label reported when every stage succeeded.
const CompleteLabel = "Restore complete"

// Tunnel is the part of a tunnel session the orchestrator drives.
type Tunnel interface {
	Start(ctx context.Context, pairing []byte) error
	WaitUntilReady(ctx context.Context, timeout time.Duration) error
}

// ProgressFunc receives progress updates. Fractions never decrease within a
// run. Implementations must return quickly.
type ProgressFunc func(fraction float64, label string)

// Input is everything a run needs besides its collaborators.
type Input struct {
	// Pairing is the pairing record handed to the tunnel.
	Pairing []byte

	// CapabilitiesSnapshot is the current device capabilities document. It is
	// required only when the plan patches that store.
	CapabilitiesSnapshot []byte

	// Plan is the compiled selection.
	Plan *planner.Plan
}

// Result describes a finished run, successful or not.
type Result struct {
	SessionID  string
	Applied    []string
	Documents  []Document
	StartedAt  time.Time
	FinishedAt time.Time
}

// Orchestrator runs restore sessions against one tunnel and device writer.
type Orchestrator struct {
	tunnel       Tunnel
	writer       device.Writer
	udid         string
	readyTimeout time.Duration
	clock        clock.Clock
	newID        func() string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithUDID targets a specific device.
func WithUDID(udid string) Option {
	return func(o *Orchestrator) {
		o.udid = udid
	}
}

// WithReadyTimeout overrides tunnel.DefaultReadyTimeout.
func WithReadyTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.readyTimeout = d
		}
	}
}

// WithClock sets the clock used for result timestamps.
func WithClock(c clock.Clock) Option {
	return func(o *Orchestrator) {
		o.clock = c
	}
}

// New creates an Orchestrator.
func New(t Tunnel, w device.Writer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		tunnel:       t,
		writer:       w,
		readyTimeout: tunnel.DefaultReadyTimeout,
		clock:        &clock.RealClock{},
		newID:        func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// NewSession creates a fresh single-use session.
func (o *Orchestrator) NewSession() *Session {
	return &Session{
		ID:           o.newID(),
		orchestrator: o,
	}
}

// Run executes the pipeline once in a new session.
func (o *Orchestrator) Run(ctx context.Context, in Input, progress ProgressFunc) (*Result, error) {
	return o.NewSession().Run(ctx, in, progress)
}

// Render produces the documents a run would write, without a tunnel or
// device. Inputs are checked the same way as Run, except for the pairing
// record.
func Render(in Input) ([]Document, error) {
	if in.Plan == nil {
		return nil, fmt.Errorf("%w: plan", ErrMissingInput)
	}
	if err := checkSnapshot(in); err != nil {
		return nil, err
	}

	ts := targets(in.Plan, in.CapabilitiesSnapshot)
	docs := make([]Document, 0, len(ts))
	for _, t := range ts {
		data, err := t.render()
		if err != nil {
			return nil, &StageError{Stage: t.label, Err: err}
		}
		docs = append(docs, documentFor(t, data))
	}
	return docs, nil
}

// checkInput validates caller inputs before anything touches the tunnel.
func checkInput(in Input) error {
	if len(in.Pairing) == 0 {
		return fmt.Errorf("%w: pairing record", ErrMissingInput)
	}
	if in.Plan == nil {
		return fmt.Errorf("%w: plan", ErrMissingInput)
	}
	return checkSnapshot(in)
}

func checkSnapshot(in Input) error {
	if in.Plan.Has(catalog.StoreDeviceCapabilities) && len(in.CapabilitiesSnapshot) == 0 {
		return ErrMissingPriorSnapshot
	}
	return nil
}

func documentFor(t target, data []byte) Document {
	return Document{
		Store:   t.store,
		Label:   t.label,
		Domain:  t.domain,
		Path:    t.path,
		Service: t.service,
		Data:    data,
	}
}

// sessionContext binds a logger annotated with the session and device.
func (o *Orchestrator) sessionContext(ctx context.Context, sessionID string) context.Context {
	ctx = logx.ContextWithSession(ctx, sessionID)
	if o.udid != "" {
		ctx = pslog.ContextWithLogger(ctx, logx.WithDevice(logx.Ctx(ctx), o.udid))
	}
	return ctx
}
