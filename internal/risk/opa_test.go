package risk

import (
	"context"
	"testing"

	"github.com/rvandam/office-gate/api"
)

const testRegoPolicy = `package officegate

import rego.v1

default sensitivity := "low"
default score := 0
default rationale := "no risk rules matched"

sensitivity := "high" if {
	input.action_type == "send_email"
	input.attributes.external_recipient == true
}
score := 5 if {
	input.action_type == "send_email"
	input.attributes.external_recipient == true
}
rationale := "external email" if {
	input.action_type == "send_email"
	input.attributes.external_recipient == true
}

sensitivity := "medium" if {
	input.action_type == "send_message"
}
score := 2 if {
	input.action_type == "send_message"
}
`

func TestOPAEngine_HighRiskEmail(t *testing.T) {
	engine, err := NewOPAEngineFromSource(testRegoPolicy)
	if err != nil {
		t.Fatal(err)
	}

	assessment, err := engine.Classify(context.Background(), &Input{
		ActionType: api.ActionSendEmail,
		Attributes: map[string]any{"external_recipient": true},
	})
	if err != nil {
		t.Fatal(err)
	}
	if assessment.Sensitivity != api.SensitivityHigh {
		t.Errorf("expected high, got %s", assessment.Sensitivity)
	}
	if assessment.Score != 5 {
		t.Errorf("expected score 5, got %g", assessment.Score)
	}
	if assessment.Rationale != "external email" {
		t.Errorf("unexpected rationale %q", assessment.Rationale)
	}
}

func TestOPAEngine_Defaults(t *testing.T) {
	engine, err := NewOPAEngineFromSource(testRegoPolicy)
	if err != nil {
		t.Fatal(err)
	}

	assessment, err := engine.Classify(context.Background(), &Input{
		ActionType: "summarize_document",
	})
	if err != nil {
		t.Fatal(err)
	}
	if assessment.Sensitivity != api.SensitivityLow {
		t.Errorf("expected low, got %s", assessment.Sensitivity)
	}
	if assessment.Score != 0 {
		t.Errorf("expected score 0, got %g", assessment.Score)
	}
}

func TestOPAEngine_MediumMessage(t *testing.T) {
	engine, err := NewOPAEngineFromSource(testRegoPolicy)
	if err != nil {
		t.Fatal(err)
	}

	assessment, err := engine.Classify(context.Background(), &Input{
		ActionType: api.ActionSendMessage,
		Attributes: map[string]any{"recipient": "+15551234"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if assessment.Sensitivity != api.SensitivityMedium {
		t.Errorf("expected medium, got %s", assessment.Sensitivity)
	}
	if assessment.Score != 2 {
		t.Errorf("expected score 2, got %g", assessment.Score)
	}
}

func TestOPAEngine_InvalidPolicy(t *testing.T) {
	if _, err := NewOPAEngineFromSource("this is not rego"); err == nil {
		t.Fatal("expected error for invalid Rego source")
	}
}
