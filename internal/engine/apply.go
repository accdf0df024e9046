package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/danieljhkim/tweakrestore/internal/logx"
	"github.com/danieljhkim/tweakrestore/internal/planner"
	"github.com/danieljhkim/tweakrestore/internal/restore"
	"github.com/danieljhkim/tweakrestore/internal/state"
	"github.com/danieljhkim/tweakrestore/internal/tunnel"
)

// tunnelStopTimeout bounds tunnel teardown, which still runs after ctx is
// canceled.
const tunnelStopTimeout = 5 * time.Second

// Apply restores a profile to the device.
//
// Algorithm steps:
// 1. Reject the request if another restore is running (dry runs skip this)
// 2. Resolve selections from the request or the named profile
// 3. Compile the selections in catalog order
// 4. Check tweak support when a device version is known
// 5. Read the capabilities snapshot and pairing record
// 6. Dry run: render documents and return
// 7. Start a fresh tunnel session, run the pipeline, always stop the tunnel
// 8. Record the session as the device's last restore
func (e *Engine) Apply(ctx context.Context, req *ApplyRequest) (*ApplyResult, error) {
	if !req.DryRun {
		if !e.running.TryLock() {
			return nil, ErrRestoreInFlight
		}
		defer e.running.Unlock()
	}

	result, input, err := e.prepare(req)
	if err != nil {
		return nil, err
	}

	if req.DryRun {
		docs, err := restore.Render(input)
		if err != nil {
			return nil, fmt.Errorf("failed to render documents: %w", err)
		}
		result.Documents = e.describe(docs, input.Plan.StageCount())
		return result, nil
	}

	if req.PairingPath != "" {
		input.Pairing, err = e.fs.ReadFile(req.PairingPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read pairing record: %w", err)
		}
	}

	udid := req.UDID
	if udid == "" {
		udid = e.settings.UDID
	}

	session := tunnel.NewSession(e.capability, tunnel.WithPollInterval(e.settings.PollInterval))
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), tunnelStopTimeout)
		defer cancel()
		session.Stop(stopCtx)
	}()

	orchestrator := restore.New(session, e.writer,
		restore.WithUDID(udid),
		restore.WithReadyTimeout(e.settings.ReadyTimeout),
		restore.WithClock(e.clock),
	)
	run, err := orchestrator.Run(ctx, input, req.Progress)
	if run != nil {
		result.SessionID = run.SessionID
		result.Applied = run.Applied
		result.Documents = e.describe(run.Documents, input.Plan.StageCount())
		result.StartedAt = run.StartedAt
		result.FinishedAt = run.FinishedAt
	}
	if err != nil {
		logx.Ctx(ctx).Warn("restore failed", "profile", result.Profile, "applied", len(result.Applied), "err", err)
		if run == nil {
			return nil, err
		}
		if recErr := e.record(udid, result, err); recErr != nil {
			logx.Ctx(ctx).Warn("failed to record restore", "session", result.SessionID, "err", recErr)
		}
		return result, err
	}

	if err := e.record(udid, result, nil); err != nil {
		return result, err
	}
	return result, nil
}

// record saves the restore as the device's last restore.
func (e *Engine) record(udid string, result *ApplyResult, runErr error) error {
	ds, err := e.stateStore.LoadDevice(udid)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to load device state: %w", err)
		}
		ds = state.NewDeviceState(udid)
	}

	rec := &state.RestoreRecord{
		SessionID:  result.SessionID,
		Profile:    result.Profile,
		Outcome:    state.OutcomeSucceeded,
		StartedAt:  result.StartedAt,
		FinishedAt: result.FinishedAt,
		Documents:  make([]state.DocumentRecord, 0, len(result.Documents)),
	}
	if runErr != nil {
		rec.Outcome = state.OutcomeFailed
		rec.Error = runErr.Error()
	}
	for _, doc := range result.Documents {
		rec.Documents = append(rec.Documents, state.DocumentRecord{
			Label:    doc.Label,
			Domain:   doc.Domain,
			Path:     doc.Path,
			Service:  doc.Service,
			Checksum: doc.Digest,
		})
	}
	ds.Record(rec)

	if err := e.stateStore.SaveDevice(ds); err != nil {
		return fmt.Errorf("failed to save device state: %w", err)
	}
	return nil
}

// Plan renders the documents a restore would write without touching the
// device.
func (e *Engine) Plan(ctx context.Context, req *ApplyRequest) (*ApplyResult, error) {
	dry := *req
	dry.DryRun = true
	return e.Apply(ctx, &dry)
}

// prepare resolves, compiles and checks a request, and loads the snapshot.
func (e *Engine) prepare(req *ApplyRequest) (*ApplyResult, restore.Input, error) {
	selections := req.Selections
	profileName := ""
	if selections == nil {
		profileName = e.profileName(req.Profile)
		profile, err := e.profiles.Load(profileName)
		if err != nil {
			return nil, restore.Input{}, fmt.Errorf("failed to load profile: %w", err)
		}
		selections = profile.Selections
	}

	plan := planner.Compile(selections, e.catalog)

	if version := e.deviceVersion(req.DeviceVersion); version != "" {
		if err := e.checkSupport(plan, version); err != nil {
			return nil, restore.Input{}, err
		}
	}

	input := restore.Input{Plan: plan}
	if req.SnapshotPath != "" {
		data, err := e.fs.ReadFile(req.SnapshotPath)
		if err != nil {
			return nil, restore.Input{}, fmt.Errorf("failed to read capabilities snapshot: %w", err)
		}
		input.CapabilitiesSnapshot = data
	}

	result := &ApplyResult{
		Profile:   profileName,
		Plan:      plan,
		DryRun:    req.DryRun,
		Applied:   []string{},
		Documents: []DocumentInfo{},
	}
	return result, input, nil
}

// checkSupport rejects enabled tweaks that are outside their supported range
// for version. Every offending tweak is reported.
func (e *Engine) checkSupport(plan *planner.Plan, version string) error {
	var errs []error
	for _, id := range plan.Enabled {
		tweak, ok := e.catalog.Lookup(id)
		if !ok {
			continue
		}
		if err := tweak.CheckSupported(version); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d selected tweaks cannot be applied to %s: %w",
		ErrValidation, len(errs), version, errors.Join(errs...))
}

// describe digests documents and attaches the weight of the stage that
// produced each one. Documents are in stage order.
func (e *Engine) describe(docs []restore.Document, stages int) []DocumentInfo {
	weights := restore.Weights(stages)
	out := make([]DocumentInfo, len(docs))
	for i, doc := range docs {
		out[i] = DocumentInfo{
			Label:   doc.Label,
			Store:   doc.Store,
			Domain:  doc.Domain,
			Path:    doc.Path,
			Service: doc.Service,
			Size:    len(doc.Data),
			Digest:  e.hasher.HashBytes(doc.Data),
		}
		if i < len(weights) {
			out[i].Weight = weights[i]
		}
	}
	return out
}
