package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/rvandam/office-gate/internal/risk"
)

// Config is the runtime configuration for office-gate. Every component
// takes what it needs from here through its constructor; nothing reads
// globals.
type Config struct {
	File *SettingsFile
	Path string

	StoreDir     string
	LogDir       string
	PollInterval time.Duration
	OPAPolicy    string

	Risk    risk.Params
	Actions map[string]ActionSchema

	NotifyEnabled   bool
	NotifyPerMinute int
}

// envOverrides are applied on top of the settings file. Parsed with
// caarlos0/env.
type envOverrides struct {
	StoreDir     string        `env:"OFFICEGATE_STORE_DIR"`
	LogDir       string        `env:"OFFICEGATE_LOG_DIR"`
	PollInterval time.Duration `env:"OFFICEGATE_POLL_INTERVAL"`
}

// Load reads a settings YAML file and produces a runtime Config.
func Load(path string) (*Config, error) {
	sf, err := LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return fromSettings(sf, path)
}

// LoadBytes parses YAML data and produces a runtime Config.
func LoadBytes(data []byte) (*Config, error) {
	sf, err := LoadFileBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return fromSettings(sf, "")
}

func fromSettings(sf *SettingsFile, path string) (*Config, error) {
	cfg := &Config{
		File:    sf,
		Path:    path,
		Actions: sf.Actions,
	}

	cfg.StoreDir = sf.Settings.StoreDir
	if cfg.StoreDir == "" {
		cfg.StoreDir = DefaultStoreDir()
	}
	cfg.LogDir = sf.Settings.LogDir
	if cfg.LogDir == "" {
		cfg.LogDir = DefaultLogDir()
	}

	if sf.Settings.PollInterval != "" {
		d, err := time.ParseDuration(sf.Settings.PollInterval)
		if err != nil {
			return nil, fmt.Errorf("invalid poll_interval %q: %w", sf.Settings.PollInterval, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("poll_interval must be positive, got %q", sf.Settings.PollInterval)
		}
		cfg.PollInterval = d
	} else {
		cfg.PollInterval = DefaultPollInterval
	}

	cfg.OPAPolicy = expandHome(sf.Settings.OPAPolicy)

	if sf.Risk != nil {
		cfg.Risk = *sf.Risk
	} else {
		cfg.Risk = risk.DefaultParams()
	}
	if cfg.Risk.Thresholds == (risk.Thresholds{}) {
		cfg.Risk.Thresholds = risk.DefaultParams().Thresholds
	}

	cfg.NotifyEnabled = true
	cfg.NotifyPerMinute = DefaultNotifyPerMinute
	if ns := sf.Settings.Notifications; ns != nil {
		if ns.Enabled != nil {
			cfg.NotifyEnabled = *ns.Enabled
		}
		if ns.MaxPerMinute > 0 {
			cfg.NotifyPerMinute = ns.MaxPerMinute
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	cfg.StoreDir = expandHome(cfg.StoreDir)
	cfg.LogDir = expandHome(cfg.LogDir)

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	ov, err := env.ParseAs[envOverrides]()
	if err != nil {
		return fmt.Errorf("parsing environment overrides: %w", err)
	}
	if ov.StoreDir != "" {
		cfg.StoreDir = ov.StoreDir
	}
	if ov.LogDir != "" {
		cfg.LogDir = ov.LogDir
	}
	if ov.PollInterval > 0 {
		cfg.PollInterval = ov.PollInterval
	}
	return nil
}

func expandHome(path string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// DefaultConfig returns a config with defaults for when no settings file is
// given.
func DefaultConfig() *Config {
	cfg := &Config{
		File: &SettingsFile{
			Version: 1,
		},
		StoreDir:        DefaultStoreDir(),
		LogDir:          DefaultLogDir(),
		PollInterval:    DefaultPollInterval,
		Risk:            risk.DefaultParams(),
		NotifyEnabled:   true,
		NotifyPerMinute: DefaultNotifyPerMinute,
	}
	_ = applyEnv(cfg)
	cfg.StoreDir = expandHome(cfg.StoreDir)
	cfg.LogDir = expandHome(cfg.LogDir)
	return cfg
}

// MarshalYAML serializes the settings for display/export.
func (c *Config) MarshalYAML() ([]byte, error) {
	return yaml.Marshal(c.File)
}
