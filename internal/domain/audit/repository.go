package audit

import (
	"context"
)

// AuditRepository is a write-mostly sink. Append runs inside the same
// transaction as the mutation it records.
type AuditRepository interface {
	Append(ctx context.Context, entry Entry) error
	ListByTarget(ctx context.Context, targetType, targetID string, limit int) ([]Entry, error)
}
