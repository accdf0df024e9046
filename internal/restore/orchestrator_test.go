package restore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"howett.net/plist"

	"github.com/danieljhkim/tweakrestore/internal/catalog"
	"github.com/danieljhkim/tweakrestore/internal/clock"
	"github.com/danieljhkim/tweakrestore/internal/device"
	"github.com/danieljhkim/tweakrestore/internal/planner"
	"github.com/danieljhkim/tweakrestore/internal/plistdoc"
	"github.com/danieljhkim/tweakrestore/internal/tunnel"
	"github.com/danieljhkim/tweakrestore/internal/value"
)

type fakeTunnel struct {
	startErr   error
	readyErr   error
	startCalls int
	readyCalls int
	timeout    time.Duration
}

func (f *fakeTunnel) Start(ctx context.Context, pairing []byte) error {
	f.startCalls++
	return f.startErr
}

func (f *fakeTunnel) WaitUntilReady(ctx context.Context, timeout time.Duration) error {
	f.readyCalls++
	f.timeout = timeout
	return f.readyErr
}

type writeCall struct {
	op      string
	udid    string
	service string
	data    []byte
}

type fakeWriter struct {
	calls    []writeCall
	statuses map[string]int
	message  string
}

func (f *fakeWriter) status(key string) int {
	return f.statuses[key]
}

func (f *fakeWriter) WriteFile(udid, domain, relPath string, data []byte) int {
	f.calls = append(f.calls, writeCall{op: "file:" + relPath, udid: udid, data: data})
	return f.status(relPath)
}

func (f *fakeWriter) WriteCapabilities(udid string, data []byte) int {
	f.calls = append(f.calls, writeCall{op: "capabilities", udid: udid, data: data})
	return f.status("capabilities")
}

func (f *fakeWriter) WriteUIPreferences(udid string, data []byte) int {
	f.calls = append(f.calls, writeCall{op: "ui", udid: udid, data: data})
	return f.status("ui")
}

func (f *fakeWriter) DisableService(udid, service string) int {
	f.calls = append(f.calls, writeCall{op: "disable", udid: udid, service: service})
	return f.status(service)
}

func (f *fakeWriter) LastErrorMessage() string {
	return f.message
}

type progressEvent struct {
	fraction float64
	label    string
}

type progressRecorder struct {
	events []progressEvent
}

func (r *progressRecorder) record(fraction float64, label string) {
	r.events = append(r.events, progressEvent{fraction, label})
}

func (r *progressRecorder) fractions() []float64 {
	out := make([]float64, len(r.events))
	for i, e := range r.events {
		out[i] = e.fraction
	}
	return out
}

func snapshotWithCaches(t *testing.T) []byte {
	t.Helper()
	doc := map[string]any{
		"CacheVersion": "21A329",
		plistdoc.CacheGroupKey: map[string]any{
			"DeviceClassNumber": 1,
			"ArtworkTraits":     "keep",
		},
	}
	data, err := plist.Marshal(doc, plist.BinaryFormat)
	require.NoError(t, err)
	return data
}

func fullPlan() *planner.Plan {
	plan := planner.NewPlan()
	plan.PatchSets[catalog.StoreDeviceCapabilities] = value.PatchSet{"DeviceClassNumber": value.Int(2)}
	plan.PatchSets[catalog.StoreSystemUI] = value.PatchSet{"SBShowTime": value.Bool(true)}
	plan.PatchSets[catalog.StoreStatusBar] = value.PatchSet{"CarrierName": value.String("Tweak")}
	plan.ServicesToDisable = []string{"com.vendor.a", "com.vendor.b"}
	return plan
}

func newTestOrchestrator(tun Tunnel, w device.Writer, opts ...Option) *Orchestrator {
	opts = append([]Option{WithClock(clock.NewFakeClock(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)))}, opts...)
	o := New(tun, w, opts...)
	o.newID = func() string { return "session-1" }
	return o
}

func TestRun_StageOrderAndProgress(t *testing.T) {
	tun := &fakeTunnel{}
	w := &fakeWriter{}
	rec := &progressRecorder{}

	res, err := newTestOrchestrator(tun, w, WithUDID("dev-1")).Run(context.Background(), Input{
		Pairing:              []byte("pair"),
		CapabilitiesSnapshot: snapshotWithCaches(t),
		Plan:                 fullPlan(),
	}, rec.record)
	require.NoError(t, err)

	ops := make([]string, len(w.calls))
	for i, c := range w.calls {
		ops[i] = c.op
		assert.Equal(t, "dev-1", c.udid)
	}
	assert.Equal(t, []string{"capabilities", "ui", "file:" + device.StatusBarPath, "disable", "disable"}, ops)
	assert.Equal(t, "com.vendor.a", w.calls[3].service)
	assert.Equal(t, "com.vendor.b", w.calls[4].service)

	require.Len(t, rec.events, 2+5+1)
	assert.Equal(t, progressEvent{TunnelStartWeight, "Starting tunnel"}, rec.events[0])
	assert.InDelta(t, TunnelStartWeight+TunnelReadyWeight, rec.events[1].fraction, 1e-12)
	assert.Equal(t, progressEvent{1.0, CompleteLabel}, rec.events[len(rec.events)-1])

	fractions := rec.fractions()
	for i := 1; i < len(fractions); i++ {
		assert.GreaterOrEqual(t, fractions[i], fractions[i-1], "progress went backwards at %d", i)
	}

	assert.Equal(t, "session-1", res.SessionID)
	assert.Len(t, res.Applied, 5)
	assert.Len(t, res.Documents, 5)
	assert.Equal(t, tunnel.DefaultReadyTimeout, tun.timeout)
}

func TestWeights_SumToBudget(t *testing.T) {
	for n := 1; n <= 64; n++ {
		sum := 0.0
		for _, w := range Weights(n) {
			assert.Greater(t, w, 0.0)
			sum += w
		}
		assert.InDelta(t, StageBudget, sum, 1e-12, "n=%d", n)
	}
	assert.Nil(t, Weights(0))
}

func TestRun_ZeroStages(t *testing.T) {
	tun := &fakeTunnel{}
	w := &fakeWriter{}
	rec := &progressRecorder{}

	res, err := newTestOrchestrator(tun, w).Run(context.Background(), Input{
		Pairing: []byte("pair"),
		Plan:    planner.NewPlan(),
	}, rec.record)
	require.NoError(t, err)

	assert.Empty(t, w.calls)
	assert.Empty(t, res.Applied)
	require.Len(t, rec.events, 3)
	assert.InDelta(t, TunnelStartWeight, rec.events[0].fraction, 1e-12)
	assert.InDelta(t, TunnelStartWeight+TunnelReadyWeight, rec.events[1].fraction, 1e-12)
	assert.Equal(t, 1.0, rec.events[2].fraction)
}

func TestRun_DisablesServicesInOrder(t *testing.T) {
	w := &fakeWriter{}
	plan := planner.NewPlan()
	plan.ServicesToDisable = []string{"com.vendor.a", "com.vendor.b"}

	_, err := newTestOrchestrator(&fakeTunnel{}, w).Run(context.Background(), Input{
		Pairing: []byte("pair"),
		Plan:    plan,
	}, nil)
	require.NoError(t, err)

	require.Len(t, w.calls, 2)
	assert.Equal(t, "com.vendor.a", w.calls[0].service)
	assert.Equal(t, "com.vendor.b", w.calls[1].service)
}

func TestRun_AbortsOnFirstFailedService(t *testing.T) {
	w := &fakeWriter{
		statuses: map[string]int{"com.vendor.a": device.StatusRestoreFailed},
		message:  "sparse restore rejected",
	}
	plan := planner.NewPlan()
	plan.ServicesToDisable = []string{"com.vendor.a", "com.vendor.b"}
	rec := &progressRecorder{}

	res, err := newTestOrchestrator(&fakeTunnel{}, w).Run(context.Background(), Input{
		Pairing: []byte("pair"),
		Plan:    plan,
	}, rec.record)
	require.Error(t, err)

	assert.Len(t, w.calls, 1, "second service must not be attempted")
	assert.True(t, errors.Is(err, ErrRestoreFailed))
	assert.Contains(t, err.Error(), "sparse restore rejected")

	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, "Disabling com.vendor.a", stageErr.Stage)

	require.NotNil(t, res)
	assert.Empty(t, res.Applied)
	assert.NotEqual(t, CompleteLabel, rec.events[len(rec.events)-1].label)
}

func TestRun_KeepsEarlierStagesOnFailure(t *testing.T) {
	w := &fakeWriter{statuses: map[string]int{"ui": device.StatusLockdownFailed}}

	res, err := newTestOrchestrator(&fakeTunnel{}, w).Run(context.Background(), Input{
		Pairing:              []byte("pair"),
		CapabilitiesSnapshot: snapshotWithCaches(t),
		Plan:                 fullPlan(),
	}, nil)
	require.Error(t, err)

	assert.Len(t, w.calls, 2)
	assert.Equal(t, []string{"Patching device capabilities"}, res.Applied)
}

func TestRun_MissingPriorSnapshotBeforeTunnel(t *testing.T) {
	tun := &fakeTunnel{}
	o := newTestOrchestrator(tun, &fakeWriter{})

	_, err := o.Run(context.Background(), Input{Pairing: []byte("pair"), Plan: fullPlan()}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingPriorSnapshot))
	assert.True(t, errors.Is(err, ErrMissingInput))
	assert.Zero(t, tun.startCalls)
}

func TestRun_MissingPairing(t *testing.T) {
	tun := &fakeTunnel{}
	o := newTestOrchestrator(tun, &fakeWriter{})

	_, err := o.Run(context.Background(), Input{Plan: planner.NewPlan()}, nil)
	assert.True(t, errors.Is(err, ErrMissingInput))
	assert.Zero(t, tun.startCalls)

	_, err = o.Run(context.Background(), Input{Pairing: []byte("pair")}, nil)
	assert.True(t, errors.Is(err, ErrMissingInput))
}

func TestRun_TunnelFailuresAreFatal(t *testing.T) {
	tests := []struct {
		name    string
		tunnel  *fakeTunnel
		wantErr error
	}{
		{"bring-up", &fakeTunnel{startErr: tunnel.ErrBringupFailed}, tunnel.ErrBringupFailed},
		{"readiness", &fakeTunnel{readyErr: tunnel.ErrNotReady}, tunnel.ErrNotReady},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &fakeWriter{}
			o := newTestOrchestrator(tt.tunnel, w)

			_, err := o.Run(context.Background(), Input{
				Pairing:              []byte("pair"),
				CapabilitiesSnapshot: snapshotWithCaches(t),
				Plan:                 fullPlan(),
			}, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr))
			assert.Empty(t, w.calls)
		})
	}
}

func TestRun_InvalidSnapshotFailsCapabilitiesStage(t *testing.T) {
	w := &fakeWriter{}

	_, err := newTestOrchestrator(&fakeTunnel{}, w).Run(context.Background(), Input{
		Pairing:              []byte("pair"),
		CapabilitiesSnapshot: []byte("not a plist"),
		Plan:                 fullPlan(),
	}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, plistdoc.ErrInvalidDocument))
	assert.Empty(t, w.calls)
}

func TestRun_DeterministicDocuments(t *testing.T) {
	snapshot := snapshotWithCaches(t)
	run := func() [][]byte {
		w := &fakeWriter{}
		_, err := newTestOrchestrator(&fakeTunnel{}, w).Run(context.Background(), Input{
			Pairing:              []byte("pair"),
			CapabilitiesSnapshot: append([]byte(nil), snapshot...),
			Plan:                 fullPlan(),
		}, nil)
		require.NoError(t, err)
		var docs [][]byte
		for _, c := range w.calls {
			if c.data != nil {
				docs = append(docs, c.data)
			}
		}
		return docs
	}

	first := run()
	second := run()
	require.Len(t, first, 3)
	assert.Equal(t, first, second)
}

func TestSession_SingleUse(t *testing.T) {
	o := newTestOrchestrator(&fakeTunnel{}, &fakeWriter{})
	s := o.NewSession()
	in := Input{Pairing: []byte("pair"), Plan: planner.NewPlan()}

	_, err := s.Run(context.Background(), in, nil)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSucceeded, s.Outcome())

	_, err = s.Run(context.Background(), in, nil)
	assert.True(t, errors.Is(err, ErrSessionUsed))
	assert.Equal(t, OutcomeSucceeded, s.Outcome())
}

func TestRender_MatchesWrittenDocuments(t *testing.T) {
	in := Input{
		Pairing:              []byte("pair"),
		CapabilitiesSnapshot: snapshotWithCaches(t),
		Plan:                 fullPlan(),
	}

	docs, err := Render(in)
	require.NoError(t, err)
	require.Len(t, docs, 5)

	res, err := newTestOrchestrator(&fakeTunnel{}, &fakeWriter{}).Run(context.Background(), in, nil)
	require.NoError(t, err)
	assert.Equal(t, docs, res.Documents)

	caps, err := plistdoc.Decode(docs[0].Data)
	require.NoError(t, err)
	nested := caps[plistdoc.CacheGroupKey].(map[string]any)
	assert.EqualValues(t, 2, nested["DeviceClassNumber"])
	assert.Equal(t, "keep", nested["ArtworkTraits"])

	assert.Equal(t, device.LaunchdDomain, docs[3].Domain)
	assert.Equal(t, "com.vendor.a", docs[3].Service)
}

func TestRender_RequiresSnapshotButNotPairing(t *testing.T) {
	_, err := Render(Input{Plan: fullPlan()})
	assert.True(t, errors.Is(err, ErrMissingPriorSnapshot))

	docs, err := Render(Input{Plan: planner.NewPlan()})
	require.NoError(t, err)
	assert.Empty(t, docs)
}
