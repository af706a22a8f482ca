package api

import "time"

// AuditEvent identifies a lifecycle transition in the approval workflow.
type AuditEvent string

const (
	EventCreated  AuditEvent = "created"
	EventApproved AuditEvent = "approved"
	EventRejected AuditEvent = "rejected"
)

// AuditRecord represents a single approval lifecycle event.
type AuditRecord struct {
	ID              string      `json:"id"`
	Timestamp       time.Time   `json:"timestamp"`
	Event           AuditEvent  `json:"event"`
	RequestID       string      `json:"request_id"`
	ActionType      string      `json:"action_type,omitempty"`
	Sensitivity     Sensitivity `json:"sensitivity,omitempty"`
	Score           float64     `json:"score,omitempty"`
	RejectionReason string      `json:"rejection_reason,omitempty"`
	Message         string      `json:"message,omitempty"`
}

// QueryFilter defines criteria for querying audit records.
type QueryFilter struct {
	Since      time.Time  `json:"since,omitempty"`
	Until      time.Time  `json:"until,omitempty"`
	ActionType string     `json:"action_type,omitempty"`
	Event      AuditEvent `json:"event,omitempty"`
	Limit      int        `json:"limit,omitempty"`
	Offset     int        `json:"offset,omitempty"`
}

// AuditStats provides summary statistics over the audit log.
type AuditStats struct {
	TotalEvents   int            `json:"total_events"`
	CreatedCount  int            `json:"created_count"`
	ApprovedCount int            `json:"approved_count"`
	RejectedCount int            `json:"rejected_count"`
	ByActionType  map[string]int `json:"by_action_type"`
	BySensitivity map[string]int `json:"by_sensitivity"`
}
