package approval

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"time"

	"github.com/rvandam/office-gate/api"
	"github.com/rvandam/office-gate/internal/audit"
	"github.com/rvandam/office-gate/internal/store"
)

// Checker detects approval requests a human has resolved. One call to Poll
// is one scan of the waiting area; the poll cadence belongs to the caller.
// Exactly one checker loop should run against a given store — the design
// relies on a single consumer doing the read-then-rename.
type Checker struct {
	store  *store.Store
	audit  audit.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewChecker creates a Checker over the given store. audit may be nil.
func NewChecker(st *store.Store, auditStore audit.Store, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{
		store:  st,
		audit:  auditStore,
		logger: logger,
		now:    time.Now,
	}
}

// Poll scans the waiting area once and returns every newly detected
// terminal transition, each reported exactly once across all polls. The
// relocating rename happens before a resolution is appended to the result,
// so a crash between the two loses a report but never duplicates one.
// Per-record failures are logged and skipped; they do not abort the scan.
func (c *Checker) Poll(ctx context.Context) ([]api.Resolution, error) {
	paths, err := c.store.ListPending()
	if err != nil {
		return nil, err
	}

	var resolutions []api.Resolution
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return resolutions, err
		}

		req, err := c.store.Read(path)
		if errors.Is(err, fs.ErrNotExist) {
			// Deleted out of band: external cancellation, not a fault.
			continue
		}
		if err != nil {
			c.logger.Warn("skipping unreadable request", "path", path, "error", err)
			continue
		}

		switch {
		case req.Status == api.StatusPending:
			continue

		case req.Status.Terminal():
			dest, err := c.store.MoveToResolved(path)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				c.logger.Warn("failed to relocate resolved request",
					"request_id", req.RequestID, "error", err)
				continue
			}
			if err := c.store.StampResolved(dest, req, c.now().UTC().Truncate(time.Second)); err != nil {
				c.logger.Warn("failed to stamp resolution time",
					"request_id", req.RequestID, "error", err)
			}

			c.logger.Info("approval request resolved",
				slog.String("request_id", req.RequestID),
				slog.String("status", string(req.Status)),
			)
			c.writeAudit(ctx, req)

			resolutions = append(resolutions, api.Resolution{
				RequestID: req.RequestID,
				Status:    req.Status,
				Path:      dest,
			})

		default:
			// Likely a typo in a hand-edited status; wait for a valid edit.
			c.logger.Warn("unrecognized status in waiting area",
				"request_id", req.RequestID, "status", string(req.Status))
		}
	}

	return resolutions, nil
}

func (c *Checker) writeAudit(ctx context.Context, req *api.ApprovalRequest) {
	if c.audit == nil {
		return
	}
	event := api.EventApproved
	if req.Status == api.StatusRejected {
		event = api.EventRejected
	}
	if err := c.audit.Write(ctx, &api.AuditRecord{
		Event:           event,
		RequestID:       req.RequestID,
		ActionType:      req.ActionType,
		Sensitivity:     req.Risk.Sensitivity,
		Score:           req.Risk.Score,
		RejectionReason: req.RejectionReason,
	}); err != nil {
		c.logger.Warn("audit write failed", "request_id", req.RequestID, "error", err)
	}
}
