package store

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/rvandam/office-gate/api"
)

func sampleRequest() *api.ApprovalRequest {
	return &api.ApprovalRequest{
		RequestID:  "20260901T101500Z-3f2a9c1b",
		ActionType: api.ActionSendEmail,
		Status:     api.StatusPending,
		Risk: api.RiskAssessment{
			Sensitivity: api.SensitivityHigh,
			Score:       4,
			Rationale:   "send_email requires approval",
		},
		CreatedAt: time.Date(2026, 9, 1, 10, 15, 0, 0, time.UTC),
		Details: map[string]any{
			"recipient":          "client@example.com",
			"subject":            "Quarterly summary",
			"body":               "Please find the summary attached.",
			"external_recipient": true,
			"reversible":         false,
		},
	}
}

func TestRecord_RoundTrip(t *testing.T) {
	req := sampleRequest()

	data, err := Render(req)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}

	if got.RequestID != req.RequestID {
		t.Errorf("request_id: got %q, want %q", got.RequestID, req.RequestID)
	}
	if got.ActionType != req.ActionType {
		t.Errorf("action_type: got %q, want %q", got.ActionType, req.ActionType)
	}
	if got.Status != req.Status {
		t.Errorf("status: got %q, want %q", got.Status, req.Status)
	}
	if got.Risk != req.Risk {
		t.Errorf("risk: got %+v, want %+v", got.Risk, req.Risk)
	}
	if !got.CreatedAt.Equal(req.CreatedAt) {
		t.Errorf("created_at: got %s, want %s", got.CreatedAt, req.CreatedAt)
	}
	if !reflect.DeepEqual(got.Details, req.Details) {
		t.Errorf("details: got %#v, want %#v", got.Details, req.Details)
	}
}

func TestRecord_RoundTripResolved(t *testing.T) {
	req := sampleRequest()
	req.Status = api.StatusRejected
	req.RejectionReason = "wrong recipient"
	resolved := time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC)
	req.ResolvedAt = &resolved

	data, err := Render(req)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}

	if got.Status != api.StatusRejected {
		t.Errorf("status: got %q, want rejected", got.Status)
	}
	if got.RejectionReason != "wrong recipient" {
		t.Errorf("rejection_reason: got %q", got.RejectionReason)
	}
	if got.ResolvedAt == nil || !got.ResolvedAt.Equal(resolved) {
		t.Errorf("resolved_at: got %v, want %s", got.ResolvedAt, resolved)
	}
}

func TestRecord_HumanEdit(t *testing.T) {
	data, err := Render(sampleRequest())
	if err != nil {
		t.Fatal(err)
	}

	// The one edit a human makes: flip the status with a text editor.
	edited := strings.Replace(string(data), "status: pending", "status: approved", 1)

	got, err := Parse([]byte(edited))
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != api.StatusApproved {
		t.Errorf("status after edit: got %q, want approved", got.Status)
	}
	if got.Details["recipient"] != "client@example.com" {
		t.Errorf("details changed by status edit: %#v", got.Details)
	}
}

func TestRecord_EmptyDetails(t *testing.T) {
	req := sampleRequest()
	req.Details = nil

	data, err := Render(req)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Details) != 0 {
		t.Errorf("expected empty details, got %#v", got.Details)
	}
}

func TestParse_Malformed(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"no front matter", "just some text\n"},
		{"unterminated header", "---\nrequest_id: x\n"},
		{"missing request id", "---\naction_type: send_email\n---\n\n```yaml\n{}\n```\n"},
		{"missing details block", "---\nrequest_id: x\n---\n\nno fence here\n"},
		{"unterminated details", "---\nrequest_id: x\n---\n\n```yaml\nkey: val\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.data)); err == nil {
				t.Error("expected parse error")
			}
		})
	}
}
