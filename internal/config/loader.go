package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rvandam/office-gate/internal/risk"
)

// SettingsFile represents the top-level YAML settings document.
type SettingsFile struct {
	Version  int                     `yaml:"version" json:"version"`
	Settings Settings                `yaml:"settings" json:"settings"`
	Risk     *risk.Params            `yaml:"risk,omitempty" json:"risk,omitempty"`
	Actions  map[string]ActionSchema `yaml:"actions,omitempty" json:"actions,omitempty"`
}

// Settings contains global workflow settings.
type Settings struct {
	StoreDir      string                `yaml:"store_dir" json:"store_dir"`
	LogDir        string                `yaml:"log_dir" json:"log_dir"`
	PollInterval  string                `yaml:"poll_interval" json:"poll_interval"`
	OPAPolicy     string                `yaml:"opa_policy,omitempty" json:"opa_policy,omitempty"`
	Notifications *NotificationSettings `yaml:"notifications,omitempty" json:"notifications,omitempty"`
}

// NotificationSettings configures the desktop notifier.
type NotificationSettings struct {
	Enabled      *bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	MaxPerMinute int   `yaml:"max_per_minute,omitempty" json:"max_per_minute,omitempty"`
}

// ActionSchema declares the detail keys a producer must supply for one
// action type.
type ActionSchema struct {
	Required []string `yaml:"required" json:"required"`
}

// LoadFile reads and validates a YAML settings file.
func LoadFile(path string) (*SettingsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading settings file: %w", err)
	}
	return LoadFileBytes(data)
}

// LoadFileBytes parses and validates YAML settings data.
func LoadFileBytes(data []byte) (*SettingsFile, error) {
	var sf SettingsFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parsing settings YAML: %w", err)
	}
	if err := validate(&sf); err != nil {
		return nil, err
	}
	return &sf, nil
}

func validate(sf *SettingsFile) error {
	if sf.Version != 1 {
		return fmt.Errorf("unsupported settings version: %d (expected 1)", sf.Version)
	}

	if sf.Risk != nil {
		for i, w := range sf.Risk.Weights {
			if w.Key == "" {
				return fmt.Errorf("risk weight %d: key is required", i)
			}
			if w.Weight < 0 {
				return fmt.Errorf("risk weight %q: weight must be non-negative", w.Key)
			}
		}
		t := sf.Risk.Thresholds
		if t.Medium < 0 || t.High < 0 {
			return fmt.Errorf("risk thresholds must be non-negative")
		}
		if t.High != 0 && t.Medium > t.High {
			return fmt.Errorf("risk threshold medium (%g) exceeds high (%g)", t.Medium, t.High)
		}
	}

	for name, schema := range sf.Actions {
		if name == "" {
			return fmt.Errorf("action schema with empty action type")
		}
		for _, key := range schema.Required {
			if key == "" {
				return fmt.Errorf("action %q: empty required key", name)
			}
		}
	}

	return nil
}
