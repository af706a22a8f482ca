package risk

import (
	"context"

	"github.com/rvandam/office-gate/api"
)

// Engine is the interface for risk classification backends.
type Engine interface {
	// Classify maps an action and its contextual attributes to a
	// sensitivity, score and rationale. Deterministic: identical inputs
	// yield identical results.
	Classify(ctx context.Context, input *Input) (*api.RiskAssessment, error)

	// Reload reloads the scoring configuration from its source.
	Reload(ctx context.Context) error
}
