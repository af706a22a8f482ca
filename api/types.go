package api

import "time"

// Status represents the disposition of an approval request. A request is
// created pending and only a human editing the request file moves it to a
// terminal status.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Terminal reports whether the status is a final disposition.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Sensitivity classifies how dangerous an action is.
type Sensitivity string

const (
	SensitivityLow    Sensitivity = "low"
	SensitivityMedium Sensitivity = "medium"
	SensitivityHigh   Sensitivity = "high"
)

// Well-known action types. The set is open: producers may gate any action
// type, and unrecognized types always require approval.
const (
	ActionSendEmail   = "send_email"
	ActionPostSocial  = "post_social"
	ActionSendMessage = "send_message"
)

// RiskAssessment is the Risk Engine's verdict for one action. It is computed
// once at creation time and never recomputed.
type RiskAssessment struct {
	Sensitivity Sensitivity `yaml:"sensitivity" json:"sensitivity"`
	Score       float64     `yaml:"score" json:"score"`
	Rationale   string      `yaml:"rationale,omitempty" json:"rationale,omitempty"`
}

// ApprovalRequest is a single sensitive action awaiting human disposition.
type ApprovalRequest struct {
	RequestID       string         `json:"request_id"`
	ActionType      string         `json:"action_type"`
	Status          Status         `json:"status"`
	Risk            RiskAssessment `json:"risk"`
	CreatedAt       time.Time      `json:"created_at"`
	ResolvedAt      *time.Time     `json:"resolved_at,omitempty"`
	RejectionReason string         `json:"rejection_reason,omitempty"`

	// Details is the exact action payload the executor will replay after
	// approval. Frozen at creation.
	Details map[string]any `json:"details"`
}

// Resolution is emitted by the checker for every detected terminal
// transition, exactly once per request. The executor consumes these.
type Resolution struct {
	RequestID string `json:"request_id"`
	Status    Status `json:"status"`
	Path      string `json:"file_path"`
}
