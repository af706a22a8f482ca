package risk

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/open-policy-agent/opa/ast"
	"github.com/open-policy-agent/opa/rego"
	"github.com/open-policy-agent/opa/storage/inmem"
	"github.com/open-policy-agent/opa/topdown"

	"github.com/rvandam/office-gate/api"
)

// OPAEngine implements the Engine interface using embedded OPA/Rego, for
// deployments whose risk rules outgrow the weight table.
type OPAEngine struct {
	mu   sync.RWMutex
	path string

	// Compiled query for evaluation
	query rego.PreparedEvalQuery
}

// NewOPAEngine creates a new OPA engine from a .rego policy file.
func NewOPAEngine(path string) (*OPAEngine, error) {
	e := &OPAEngine{path: path}
	if err := e.Reload(context.Background()); err != nil {
		return nil, err
	}
	return e, nil
}

// NewOPAEngineFromSource creates a new OPA engine from raw Rego source.
func NewOPAEngineFromSource(source string) (*OPAEngine, error) {
	e := &OPAEngine{}
	if err := e.loadSource(source); err != nil {
		return nil, err
	}
	return e, nil
}

// Classify runs the Rego policy against the given input.
//
// The Rego policy must define the following in package officegate:
//
//	sensitivity: "low" | "medium" | "high"
//	score: number
//	rationale: string (optional)
//
// Input available to the policy:
//
//	input.action_type: string
//	input.attributes: object
func (e *OPAEngine) Classify(ctx context.Context, input *Input) (*api.RiskAssessment, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	inputMap := map[string]any{
		"action_type": input.ActionType,
	}
	if input.Attributes != nil {
		inputMap["attributes"] = input.Attributes
	}

	rs, err := e.query.Eval(ctx, rego.EvalInput(inputMap))
	if err != nil {
		// Fail closed on evaluation errors: an unclassifiable action is
		// treated as maximally sensitive.
		if topdown.IsError(err) {
			return &api.RiskAssessment{
				Sensitivity: api.SensitivityHigh,
				Rationale:   "policy evaluation error: " + err.Error(),
			}, nil
		}
		return nil, fmt.Errorf("policy evaluation failed: %w", err)
	}

	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return &api.RiskAssessment{
			Sensitivity: api.SensitivityHigh,
			Rationale:   "policy returned no result",
		}, nil
	}

	resultMap, ok := rs[0].Expressions[0].Value.(map[string]any)
	if !ok {
		return &api.RiskAssessment{
			Sensitivity: api.SensitivityHigh,
			Rationale:   "unexpected policy result type",
		}, nil
	}

	return parseOPAResult(resultMap), nil
}

// Reload re-reads the Rego policy file from disk and recompiles.
func (e *OPAEngine) Reload(_ context.Context) error {
	if e.path == "" {
		return nil
	}
	data, err := os.ReadFile(e.path)
	if err != nil {
		return fmt.Errorf("reading risk policy file: %w", err)
	}
	return e.loadSource(string(data))
}

func (e *OPAEngine) loadSource(source string) error {
	// Parse to validate
	_, err := ast.ParseModuleWithOpts("risk.rego", source, ast.ParserOptions{RegoVersion: ast.RegoV1})
	if err != nil {
		return fmt.Errorf("parsing Rego policy: %w", err)
	}

	store := inmem.New()

	r := rego.New(
		rego.Query("data.officegate"),
		rego.Module("risk.rego", source),
		rego.Store(store),
	)

	query, err := r.PrepareForEval(context.Background())
	if err != nil {
		return fmt.Errorf("preparing policy query: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.query = query

	return nil
}

func parseOPAResult(m map[string]any) *api.RiskAssessment {
	result := &api.RiskAssessment{
		Sensitivity: api.SensitivityHigh, // fail closed if not set
	}

	if s, ok := m["sensitivity"].(string); ok {
		switch s {
		case "low":
			result.Sensitivity = api.SensitivityLow
		case "medium":
			result.Sensitivity = api.SensitivityMedium
		case "high":
			result.Sensitivity = api.SensitivityHigh
		}
	}
	if v, ok := m["score"]; ok {
		result.Score = toFloat(v)
	}
	if r, ok := m["rationale"].(string); ok {
		result.Rationale = r
	}

	return result
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	default:
		return 0
	}
}
