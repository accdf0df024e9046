package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Load reads the config file at paths.Config, falling back to defaults for
// anything it does not set. A missing file yields the defaults.
func Load(paths *Paths) (Config, error) {
	cfg := DefaultConfig(paths)

	v := viper.New()
	v.SetConfigFile(paths.Config)
	v.SetConfigType("yaml")
	v.SetDefault("config_version", cfg.ConfigVersion)
	v.SetDefault("device.udid", cfg.Device.UDID)
	v.SetDefault("device.version", cfg.Device.Version)
	v.SetDefault("tunnel.helper", cfg.Tunnel.Helper)
	v.SetDefault("tunnel.args", cfg.Tunnel.Args)
	v.SetDefault("tunnel.ready_timeout_seconds", cfg.Tunnel.ReadyTimeoutSeconds)
	v.SetDefault("tunnel.poll_interval_ms", cfg.Tunnel.PollIntervalMS)
	v.SetDefault("writer.backend", cfg.Writer.Backend)
	v.SetDefault("writer.helper", cfg.Writer.Helper)
	v.SetDefault("writer.args", cfg.Writer.Args)
	v.SetDefault("writer.staging_dir", cfg.Writer.StagingDir)
	v.SetDefault("profiles.default", cfg.Profiles.Default)

	if _, err := os.Stat(paths.Config); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if !v.IsSet("config_version") {
			return Config{}, fmt.Errorf("config_version is required; expected %d", CurrentConfigVersion)
		}
		if v.GetInt("config_version") != CurrentConfigVersion {
			return Config{}, fmt.Errorf("unsupported config_version %d; expected %d", v.GetInt("config_version"), CurrentConfigVersion)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to stat config: %w", err)
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	expandConfigEnv(&cfg, paths)
	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	switch cfg.Writer.Backend {
	case BackendExec:
		if cfg.Writer.Helper == "" {
			return fmt.Errorf("writer.helper is required for the %s backend", BackendExec)
		}
	case BackendStaging:
		if cfg.Writer.StagingDir == "" {
			return fmt.Errorf("writer.staging_dir is required for the %s backend", BackendStaging)
		}
	default:
		return fmt.Errorf("unsupported writer.backend %q", cfg.Writer.Backend)
	}
	if cfg.Tunnel.ReadyTimeoutSeconds <= 0 {
		return fmt.Errorf("tunnel.ready_timeout_seconds must be positive")
	}
	if cfg.Tunnel.PollIntervalMS <= 0 {
		return fmt.Errorf("tunnel.poll_interval_ms must be positive")
	}
	return nil
}

func expandConfigEnv(cfg *Config, paths *Paths) {
	cfg.Tunnel.Helper = expandEnv(cfg.Tunnel.Helper, paths)
	cfg.Writer.Helper = expandEnv(cfg.Writer.Helper, paths)
	cfg.Writer.StagingDir = expandEnv(cfg.Writer.StagingDir, paths)
}

// expandEnv expands $VAR references. TWEAKRESTORE_ROOT resolves to the active
// root even when it is not exported. Unknown variables are kept verbatim.
func expandEnv(value string, paths *Paths) string {
	if value == "" {
		return value
	}
	return os.Expand(value, func(key string) string {
		if key == "" {
			return ""
		}
		if val, ok := os.LookupEnv(key); ok {
			return val
		}
		if key == RootEnv {
			return paths.Root
		}
		return "$" + key
	})
}

// WriteDefault writes the default config to paths.Config.
func WriteDefault(paths *Paths, overwrite bool) (string, error) {
	path := paths.Config
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config already exists at %s", path)
		}
	}

	data, err := yaml.Marshal(DefaultConfig(paths))
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}
	return path, nil
}
