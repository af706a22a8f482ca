package approval

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rvandam/office-gate/api"
	"github.com/rvandam/office-gate/internal/audit"
	"github.com/rvandam/office-gate/internal/notify"
	"github.com/rvandam/office-gate/internal/risk"
	"github.com/rvandam/office-gate/internal/scan"
	"github.com/rvandam/office-gate/internal/store"
)

const maxIDAttempts = 5

// Manager creates approval requests: it validates the action, classifies
// its risk, persists a pending record and pings the human. Multiple
// managers may run concurrently against one store; each creation is
// independent and keyed by a unique id.
type Manager struct {
	store    *store.Store
	engine   risk.Engine
	params   risk.Params
	schemas  map[string][]string
	scanner  *scan.Scanner
	notifier notify.Notifier
	audit    audit.Store
	logger   *slog.Logger
	now      func() time.Time
}

// ManagerOptions carries the collaborators a Manager needs beyond the
// store and risk engine. Zero values get sensible defaults; Audit may stay
// nil to disable the audit trail.
type ManagerOptions struct {
	Params   risk.Params
	Schemas  map[string][]string
	Notifier notify.Notifier
	Audit    audit.Store
	Logger   *slog.Logger
}

// NewManager creates a Manager over the given store and risk engine.
func NewManager(st *store.Store, engine risk.Engine, opts ManagerOptions) *Manager {
	schemas := defaultSchemas()
	for name, keys := range opts.Schemas {
		schemas[name] = keys
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.Noop{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:    st,
		engine:   engine,
		params:   opts.Params,
		schemas:  schemas,
		scanner:  scan.NewScanner(),
		notifier: notifier,
		audit:    opts.Audit,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateRequest validates and persists a new pending approval request,
// returning its id once the record is durable in the waiting area. The
// notification side effect is advisory: its failure never fails the call.
func (m *Manager) CreateRequest(ctx context.Context, actionType string, details map[string]any, extraRiskContext map[string]any) (string, error) {
	if err := m.validate(actionType, details); err != nil {
		return "", err
	}

	attrs := m.riskAttributes(details, extraRiskContext)
	assessment, err := m.engine.Classify(ctx, &risk.Input{ActionType: actionType, Attributes: attrs})
	if err != nil {
		return "", fmt.Errorf("classifying action risk: %w", err)
	}

	req := &api.ApprovalRequest{
		ActionType: actionType,
		Status:     api.StatusPending,
		Risk:       *assessment,
		CreatedAt:  m.now().UTC().Truncate(time.Second),
		Details:    details,
	}

	for attempt := 1; ; attempt++ {
		req.RequestID = newRequestID(req.CreatedAt)
		if _, err = m.store.Create(req); err == nil {
			break
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("persisting request: %w", err)
		}
		if attempt >= maxIDAttempts {
			return "", &api.DuplicateIDError{RequestID: req.RequestID, Attempts: attempt}
		}
	}

	m.logger.Info("approval request created",
		slog.String("request_id", req.RequestID),
		slog.String("action_type", actionType),
		slog.String("sensitivity", string(assessment.Sensitivity)),
		slog.Float64("score", assessment.Score),
	)

	m.writeAudit(ctx, &api.AuditRecord{
		Event:       api.EventCreated,
		RequestID:   req.RequestID,
		ActionType:  actionType,
		Sensitivity: assessment.Sensitivity,
		Score:       assessment.Score,
		Message:     assessment.Rationale,
	})

	m.notifier.Notify(req.RequestID, actionType, details)

	return req.RequestID, nil
}

// ShouldGate reports whether an action needs a human approval request at
// all. Safe-listed action types with a zero risk score may execute
// directly; everything else goes through CreateRequest.
func (m *Manager) ShouldGate(ctx context.Context, actionType string, attributes map[string]any) (bool, error) {
	if m.params.IsSensitiveAction(actionType) {
		return true, nil
	}
	assessment, err := m.engine.Classify(ctx, &risk.Input{ActionType: actionType, Attributes: attributes})
	if err != nil {
		return true, fmt.Errorf("classifying action risk: %w", err)
	}
	return assessment.Score > 0, nil
}

func (m *Manager) validate(actionType string, details map[string]any) error {
	if strings.TrimSpace(actionType) == "" {
		return &api.ValidationError{Field: "action_type", Reason: "must not be empty"}
	}
	if details == nil {
		return &api.ValidationError{Field: "action_details", Reason: "must be a mapping"}
	}
	for _, key := range m.schemas[actionType] {
		val, ok := details[key]
		if !ok || val == nil || val == "" {
			return &api.ValidationError{
				Field:  "action_details." + key,
				Reason: fmt.Sprintf("required for action type %q", actionType),
			}
		}
	}
	return nil
}

// riskAttributes merges details with the extra risk context (extra wins)
// and derives contains_pii / contains_credentials from the content fields
// when the producer did not set them explicitly.
func (m *Manager) riskAttributes(details, extra map[string]any) map[string]any {
	attrs := make(map[string]any, len(details)+len(extra)+2)
	for k, v := range details {
		attrs[k] = v
	}
	for k, v := range extra {
		attrs[k] = v
	}

	_, piiSet := attrs["contains_pii"]
	_, credSet := attrs["contains_credentials"]
	if piiSet && credSet {
		return attrs
	}

	var values []string
	for _, key := range contentKeys {
		if v, ok := attrs[key].(string); ok && v != "" {
			values = append(values, v)
		}
	}
	res := m.scanner.Scan(values...)
	if !piiSet && res.PII {
		attrs["contains_pii"] = true
	}
	if !credSet && res.Credentials {
		attrs["contains_credentials"] = true
	}
	return attrs
}

func (m *Manager) writeAudit(ctx context.Context, record *api.AuditRecord) {
	if m.audit == nil {
		return
	}
	if err := m.audit.Write(ctx, record); err != nil {
		m.logger.Warn("audit write failed", "request_id", record.RequestID, "error", err)
	}
}

// newRequestID builds a timestamp plus random suffix id, e.g.
// 20260901T101500Z-3f2a9c1b. The timestamp prefix keeps directory listings
// in creation order.
func newRequestID(at time.Time) string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return at.UTC().Format("20060102T150405Z") + "-" + suffix
}
