package risk

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rvandam/office-gate/api"
)

// WeightEngine scores actions by summing configured attribute weights.
type WeightEngine struct {
	mu     sync.RWMutex
	params Params
}

// NewWeightEngine creates a weight-table engine from risk parameters.
func NewWeightEngine(params Params) *WeightEngine {
	return &WeightEngine{params: params}
}

// Classify computes the score from matching attribute weights and maps it
// to a sensitivity band via the configured thresholds.
func (e *WeightEngine) Classify(_ context.Context, input *Input) (*api.RiskAssessment, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	score, matched := e.score(input.Attributes)

	var parts []string
	if e.params.IsSensitiveAction(input.ActionType) {
		parts = append(parts, fmt.Sprintf("%s requires approval", input.ActionType))
	} else {
		parts = append(parts, fmt.Sprintf("%s is whitelisted as safe", input.ActionType))
	}
	if len(matched) > 0 {
		parts = append(parts, "risk attributes: "+strings.Join(matched, ", "))
	} else {
		parts = append(parts, "no risk attributes matched")
	}

	return &api.RiskAssessment{
		Sensitivity: e.params.Thresholds.Sensitivity(score),
		Score:       score,
		Rationale:   strings.Join(parts, "; "),
	}, nil
}

// Score returns the weighted score for a set of attributes, without the
// sensitivity mapping. Exposed for callers that pre-check before creating
// a request.
func (e *WeightEngine) Score(attributes map[string]any) float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	score, _ := e.score(attributes)
	return score
}

// IsSensitiveAction reports whether the action type alone requires approval.
func (e *WeightEngine) IsSensitiveAction(actionType string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.params.IsSensitiveAction(actionType)
}

// Reload is a no-op: parameters are owned by the config layer and a new
// engine is built when they change.
func (e *WeightEngine) Reload(_ context.Context) error { return nil }

func (e *WeightEngine) score(attributes map[string]any) (float64, []string) {
	var score float64
	var matched []string
	for _, w := range e.params.Weights {
		val, ok := attributes[w.Key]
		if !ok {
			continue
		}
		want := w.Equals
		if want == nil {
			want = true
		}
		if fmt.Sprintf("%v", val) != fmt.Sprintf("%v", want) {
			continue
		}
		score += w.Weight
		matched = append(matched, fmt.Sprintf("%s=%v (+%g)", w.Key, val, w.Weight))
	}
	sort.Strings(matched)
	return score, matched
}
