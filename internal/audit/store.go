package audit

import (
	"context"

	"github.com/rvandam/office-gate/api"
)

// Store defines the interface for audit record persistence and retrieval.
type Store interface {
	// Write appends an audit record.
	Write(ctx context.Context, record *api.AuditRecord) error

	// Query retrieves audit records matching the filter.
	Query(ctx context.Context, filter api.QueryFilter) ([]*api.AuditRecord, error)

	// Stats returns aggregate statistics.
	Stats(ctx context.Context) (*api.AuditStats, error)

	// Close shuts down the store and flushes any buffers.
	Close() error
}
