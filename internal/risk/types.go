package risk

import (
	"github.com/rvandam/office-gate/api"
)

// Params is the tunable risk configuration. Weights and thresholds are
// configuration, not code; they live in the settings file.
type Params struct {
	// SensitiveActions always require human approval.
	SensitiveActions []string `yaml:"sensitive_actions" json:"sensitive_actions"`
	// SafeActions never require approval on action type alone. Anything on
	// neither list is treated as sensitive.
	SafeActions []string   `yaml:"safe_actions" json:"safe_actions"`
	Weights     []Weight   `yaml:"weights" json:"weights"`
	Thresholds  Thresholds `yaml:"thresholds" json:"thresholds"`
}

// Weight is one scoring contribution: when the named attribute formats to
// the same string as Equals (default true), Weight is added to the score.
type Weight struct {
	Key    string  `yaml:"key" json:"key"`
	Equals any     `yaml:"equals,omitempty" json:"equals,omitempty"`
	Weight float64 `yaml:"weight" json:"weight"`
}

// Thresholds maps a score to a sensitivity band. Scores below Medium are
// low, below High are medium, and High and above are high.
type Thresholds struct {
	Medium float64 `yaml:"medium" json:"medium"`
	High   float64 `yaml:"high" json:"high"`
}

// Input is the input to a risk classification.
type Input struct {
	ActionType string         `json:"action_type"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// DefaultParams returns the built-in risk configuration.
func DefaultParams() Params {
	return Params{
		SensitiveActions: []string{api.ActionSendEmail, api.ActionPostSocial, api.ActionSendMessage},
		SafeActions:      []string{"read_inbox", "summarize_document", "archive_file"},
		Weights: []Weight{
			{Key: "external_recipient", Equals: true, Weight: 2},
			{Key: "reversible", Equals: false, Weight: 2},
			{Key: "contains_pii", Equals: true, Weight: 3},
			{Key: "contains_credentials", Equals: true, Weight: 3},
		},
		Thresholds: Thresholds{Medium: 2, High: 4},
	}
}

// IsSensitiveAction reports whether an action type requires human approval.
// Only explicitly safe-listed types skip the gate; unknown types fail
// closed.
func (p Params) IsSensitiveAction(actionType string) bool {
	for _, a := range p.SafeActions {
		if a == actionType {
			return false
		}
	}
	return true
}

// Sensitivity maps a score onto a band using the configured thresholds.
func (t Thresholds) Sensitivity(score float64) api.Sensitivity {
	switch {
	case score >= t.High:
		return api.SensitivityHigh
	case score >= t.Medium:
		return api.SensitivityMedium
	default:
		return api.SensitivityLow
	}
}
