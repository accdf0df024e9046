package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/danieljhkim/tweakrestore/internal/catalog"
	"github.com/danieljhkim/tweakrestore/internal/clock"
	"github.com/danieljhkim/tweakrestore/internal/config"
	"github.com/danieljhkim/tweakrestore/internal/device"
	"github.com/danieljhkim/tweakrestore/internal/engine"
	"github.com/danieljhkim/tweakrestore/internal/fsops"
	"github.com/danieljhkim/tweakrestore/internal/hash"
	"github.com/danieljhkim/tweakrestore/internal/helper"
	"github.com/danieljhkim/tweakrestore/internal/selection"
	"github.com/danieljhkim/tweakrestore/internal/state"
	"github.com/danieljhkim/tweakrestore/internal/tunnel"
)

// loadConfig resolves paths and reads the config file.
func loadConfig() (*config.Paths, config.Config, error) {
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("failed to get config paths: %w", err)
	}
	cfg, err := config.Load(paths)
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return paths, cfg, nil
}

// newEngine creates a new engine with real implementations of all dependencies.
func newEngine() (*engine.Engine, error) {
	paths, cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	cat, err := catalog.Builtin()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	fs := fsops.NewRealFS()
	clk := &clock.RealClock{}
	runner := helper.NewExecRunner()

	writer, err := newWriter(cfg.Writer, fs, runner)
	if err != nil {
		return nil, err
	}

	return engine.New(
		cat,
		selection.NewFileProfileStore(fs, paths.Profiles, clk),
		state.NewFileStateStore(fs, paths.Devices),
		fs,
		hash.NewSHA256Hasher(),
		clk,
		newCapability(cfg.Tunnel, runner),
		writer,
		engine.Settings{
			UDID:           cfg.Device.UDID,
			DeviceVersion:  cfg.Device.Version,
			ReadyTimeout:   cfg.Tunnel.ReadyTimeout(),
			PollInterval:   cfg.Tunnel.PollInterval(),
			DefaultProfile: cfg.Profiles.Default,
		},
	), nil
}

// newCapability returns the helper-backed tunnel, or a direct connection
// when no tunnel helper is configured.
func newCapability(cfg config.TunnelConfig, runner helper.Runner) tunnel.Capability {
	if cfg.Helper == "" {
		return tunnel.DirectCapability{}
	}
	return tunnel.NewExecCapability(runner, cfg.Helper, cfg.Args...)
}

// newWriter builds the device writer for the configured backend.
func newWriter(cfg config.WriterConfig, fs fsops.FS, runner helper.Runner) (device.Writer, error) {
	switch cfg.Backend {
	case config.BackendExec:
		return device.NewSparseWriter(device.NewExecRestorer(runner, cfg.Helper, cfg.Args...)), nil
	case config.BackendStaging:
		return device.NewSparseWriter(device.NewStagingRestorer(fs, cfg.StagingDir)), nil
	default:
		return nil, fmt.Errorf("unsupported writer backend %q", cfg.Backend)
	}
}

// formatJSON formats a value as JSON.
func formatJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// formatError formats an error for display.
func formatError(err error) string {
	return errorColor.Sprintf("Error: %v", err)
}

// outputJSON writes a value as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
