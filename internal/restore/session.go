package restore

import (
	"context"
	"fmt"
	"sync"

	"github.com/danieljhkim/tweakrestore/internal/logx"
)

// Outcome is the terminal state of a session.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeSucceeded
	OutcomeFailed
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Session is one restore run. It is single-use: once Run returns, the
// session keeps its outcome and rejects further runs.
type Session struct {
	ID string

	orchestrator *Orchestrator

	mu       sync.Mutex
	used     bool
	outcome  Outcome
	progress float64
	sink     ProgressFunc
}

// Outcome returns the session's terminal outcome, or OutcomePending.
func (s *Session) Outcome() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// Run executes the pipeline: bring the tunnel up, build the stages and run
// them in order. The first failure ends the run. The returned Result is
// never nil once inputs were accepted, and lists the stages applied before
// any failure.
func (s *Session) Run(ctx context.Context, in Input, progress ProgressFunc) (*Result, error) {
	s.mu.Lock()
	if s.used {
		s.mu.Unlock()
		return nil, ErrSessionUsed
	}
	s.used = true
	s.sink = progress
	s.mu.Unlock()

	o := s.orchestrator
	ctx = o.sessionContext(ctx, s.ID)
	log := logx.Ctx(ctx)

	if err := checkInput(in); err != nil {
		s.finish(OutcomeFailed)
		return nil, err
	}

	result := &Result{
		SessionID: s.ID,
		Applied:   []string{},
		StartedAt: o.clock.Now(),
	}
	fail := func(err error) (*Result, error) {
		s.finish(OutcomeFailed)
		result.FinishedAt = o.clock.Now()
		return result, err
	}

	s.report(TunnelStartWeight, "Starting tunnel")
	if err := o.tunnel.Start(ctx, in.Pairing); err != nil {
		log.Warn("restore aborted", "stage", "tunnel start", "err", err)
		return fail(&StageError{Stage: "Starting tunnel", Err: err})
	}
	if err := o.tunnel.WaitUntilReady(ctx, o.readyTimeout); err != nil {
		log.Warn("restore aborted", "stage", "tunnel ready", "err", err)
		return fail(&StageError{Stage: "Waiting for tunnel", Err: err})
	}
	s.report(TunnelStartWeight+TunnelReadyWeight, "Tunnel ready")

	ts := targets(in.Plan, in.CapabilitiesSnapshot)
	stages := buildStages(ts, o.writer, o.udid, func(doc Document) {
		result.Documents = append(result.Documents, doc)
	})
	log.Info("restore starting", "stages", len(stages), "services", len(in.Plan.ServicesToDisable))

	done := TunnelStartWeight + TunnelReadyWeight
	for i, stage := range stages {
		stageLog := logx.WithStage(log, stage.Label, i, len(stages))
		s.report(done, stage.Label)
		stageLog.Info("stage starting", "weight", stage.Weight)

		if err := stage.Action(); err != nil {
			stageLog.Warn("stage failed", "err", err, "applied", len(result.Applied))
			return fail(&StageError{Stage: stage.Label, Err: err})
		}
		done += stage.Weight
		result.Applied = append(result.Applied, stage.Label)
		stageLog.Info("stage finished")
	}

	s.report(1.0, CompleteLabel)
	s.finish(OutcomeSucceeded)
	result.FinishedAt = o.clock.Now()
	log.Info("restore finished", "stages", len(stages), "elapsed", result.FinishedAt.Sub(result.StartedAt))
	return result, nil
}

// report forwards progress to the sink, never letting the fraction go
// backwards or leave [0, 1].
func (s *Session) report(fraction float64, label string) {
	s.mu.Lock()
	if fraction > 1 {
		fraction = 1
	}
	if fraction < s.progress {
		fraction = s.progress
	}
	s.progress = fraction
	sink := s.sink
	s.mu.Unlock()

	if sink != nil {
		sink(fraction, label)
	}
}

func (s *Session) finish(outcome Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcome = outcome
}
