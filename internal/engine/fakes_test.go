package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/danieljhkim/tweakrestore/internal/catalog"
	"github.com/danieljhkim/tweakrestore/internal/clock"
	"github.com/danieljhkim/tweakrestore/internal/fsops"
	"github.com/danieljhkim/tweakrestore/internal/hash"
	"github.com/danieljhkim/tweakrestore/internal/selection"
	"github.com/danieljhkim/tweakrestore/internal/state"
	"github.com/danieljhkim/tweakrestore/internal/value"
)

// memProfileStore is an in-memory ProfileStore.
type memProfileStore struct {
	mu       sync.Mutex
	profiles map[string]*selection.Profile
}

func newMemProfileStore() *memProfileStore {
	return &memProfileStore{profiles: make(map[string]*selection.Profile)}
}

func (s *memProfileStore) Load(name string) (*selection.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", selection.ErrProfileNotFound, name)
	}
	cp := *p
	cp.Selections = make(map[string]value.Raw, len(p.Selections))
	for k, v := range p.Selections {
		cp.Selections[k] = v
	}
	return &cp, nil
}

func (s *memProfileStore) Save(p *selection.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.profiles[p.Name] = &cp
	return nil
}

func (s *memProfileStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.profiles, name)
	return nil
}

func (s *memProfileStore) List() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.profiles))
	for name := range s.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// fakeCapability is a tunnel capability that is ready as soon as it starts.
type fakeCapability struct {
	mu         sync.Mutex
	status     int
	startCalls int
	stopCalls  int
}

func (c *fakeCapability) Start(ctx context.Context, pairing []byte) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startCalls++
	return c.status
}

func (c *fakeCapability) IsReady(ctx context.Context) bool { return true }

func (c *fakeCapability) Stop(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopCalls++
}

func (c *fakeCapability) LastErrorMessage() string { return "" }

func (c *fakeCapability) counts() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startCalls, c.stopCalls
}

// fakeWriter records device writes. When block is set, every write waits on
// it after signalling entered.
type fakeWriter struct {
	mu      sync.Mutex
	ops     []string
	failOn  string
	block   chan struct{}
	entered chan struct{}
}

func (w *fakeWriter) do(op string) int {
	if w.entered != nil {
		w.entered <- struct{}{}
	}
	if w.block != nil {
		<-w.block
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ops = append(w.ops, op)
	if op == w.failOn {
		return 4
	}
	return 0
}

func (w *fakeWriter) WriteFile(udid, domain, relPath string, data []byte) int {
	return w.do("status_bar")
}

func (w *fakeWriter) WriteCapabilities(udid string, data []byte) int {
	return w.do("capabilities")
}

func (w *fakeWriter) WriteUIPreferences(udid string, data []byte) int {
	return w.do("system_ui")
}

func (w *fakeWriter) DisableService(udid, service string) int {
	return w.do("disable:" + service)
}

func (w *fakeWriter) recorded() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.ops...)
}

func intPtr(i int) *int { return &i }

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]catalog.Tweak{
		{ID: "boot_chime", Name: "Boot Chime", Store: catalog.StoreDeviceCapabilities, Type: catalog.TypeToggle, Key: "njBFMx7OAF6p7vDGABCGmg", MinVersion: "17.0", MaxVersion: "18.1.1"},
		{ID: "show_seconds", Name: "Clock Seconds", Store: catalog.StoreSystemUI, Type: catalog.TypeToggle, Key: "SBShowSeconds", MinVersion: "17.0"},
		{ID: "carrier_name", Name: "Carrier Name", Store: catalog.StoreStatusBar, Type: catalog.TypeText, Key: "CarrierName", MinVersion: "17.0"},
		{ID: "dock_icons", Name: "Dock Icons", Store: catalog.StoreSystemUI, Type: catalog.TypeStepper, Key: "SBIconMaxCount", MinVersion: "17.0", Min: intPtr(4), Max: intPtr(6)},
		{ID: "disable_tips", Name: "Disable Tips", Store: catalog.StoreServiceControl, Type: catalog.TypeToggle, Key: "com.apple.tipsd", MinVersion: "17.0"},
		{ID: "disable_analytics", Name: "Disable Analytics", Store: catalog.StoreServiceControl, Type: catalog.TypeToggle, Key: "com.apple.analyticsd", MinVersion: "17.0"},
	})
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}
	return cat
}

type testEnv struct {
	engine     *Engine
	profiles   *memProfileStore
	capability *fakeCapability
	writer     *fakeWriter
	state      *state.FileStateStore
	dir        string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		profiles:   newMemProfileStore(),
		capability: &fakeCapability{},
		writer:     &fakeWriter{},
		dir:        t.TempDir(),
	}
	env.state = state.NewFileStateStore(fsops.NewRealFS(), filepath.Join(env.dir, "devices"))
	env.engine = New(
		testCatalog(t),
		env.profiles,
		env.state,
		fsops.NewRealFS(),
		hash.NewSHA256Hasher(),
		clock.NewFakeClock(time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)),
		env.capability,
		env.writer,
		Settings{PollInterval: 10 * time.Millisecond, ReadyTimeout: time.Second},
	)
	return env
}
