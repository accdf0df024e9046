package config

import (
	"path/filepath"
	"time"
)

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// Writer backends.
const (
	BackendExec    = "exec"
	BackendStaging = "staging"
)

// Config is the top-level application configuration.
type Config struct {
	ConfigVersion int            `mapstructure:"config_version" yaml:"config_version"`
	Device        DeviceConfig   `mapstructure:"device" yaml:"device"`
	Tunnel        TunnelConfig   `mapstructure:"tunnel" yaml:"tunnel"`
	Writer        WriterConfig   `mapstructure:"writer" yaml:"writer"`
	Profiles      ProfilesConfig `mapstructure:"profiles" yaml:"profiles"`
}

// DeviceConfig pins the target device.
type DeviceConfig struct {
	// UDID selects a device. Empty targets the only attached device.
	UDID string `mapstructure:"udid" yaml:"udid"`

	// Version is the device OS version used to check tweak support. Empty
	// skips the check.
	Version string `mapstructure:"version" yaml:"version"`
}

// TunnelConfig configures the tunnel helper.
type TunnelConfig struct {
	// Helper is the tunnel helper binary. Empty means the device is reachable
	// without a tunnel.
	Helper              string   `mapstructure:"helper" yaml:"helper"`
	Args                []string `mapstructure:"args" yaml:"args"`
	ReadyTimeoutSeconds int      `mapstructure:"ready_timeout_seconds" yaml:"ready_timeout_seconds"`
	PollIntervalMS      int      `mapstructure:"poll_interval_ms" yaml:"poll_interval_ms"`
}

// ReadyTimeout returns the readiness timeout as a duration.
func (c TunnelConfig) ReadyTimeout() time.Duration {
	return time.Duration(c.ReadyTimeoutSeconds) * time.Second
}

// PollInterval returns the readiness poll interval as a duration.
func (c TunnelConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// WriterConfig selects how documents reach the device.
type WriterConfig struct {
	Backend    string   `mapstructure:"backend" yaml:"backend"`
	Helper     string   `mapstructure:"helper" yaml:"helper"`
	Args       []string `mapstructure:"args" yaml:"args"`
	StagingDir string   `mapstructure:"staging_dir" yaml:"staging_dir"`
}

// ProfilesConfig controls profile selection.
type ProfilesConfig struct {
	Default string `mapstructure:"default" yaml:"default"`
}

// DefaultConfig returns the built-in configuration for paths.
func DefaultConfig(paths *Paths) Config {
	return Config{
		ConfigVersion: CurrentConfigVersion,
		Tunnel: TunnelConfig{
			Args:                []string{},
			ReadyTimeoutSeconds: 12,
			PollIntervalMS:      200,
		},
		Writer: WriterConfig{
			Backend:    BackendStaging,
			Args:       []string{},
			StagingDir: filepath.Join(paths.Root, "staging"),
		},
		Profiles: ProfilesConfig{
			Default: "default",
		},
	}
}
