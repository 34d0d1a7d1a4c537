package memory

import (
	"context"

	"github.com/clockwise-hr/timeclock-backend-go/internal/domain/audit"
	"github.com/google/uuid"
)

type auditRepository struct {
	store *Store
}

func NewAuditRepository(store *Store) audit.AuditRepository {
	return &auditRepository{store: store}
}

// Append implements audit.AuditRepository.
func (r *auditRepository) Append(ctx context.Context, entry audit.Entry) error {
	defer r.store.lock(ctx)()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	r.store.auditLog = append(r.store.auditLog, entry)
	return nil
}

// ListByTarget implements audit.AuditRepository. Newest first, matching the
// SQL implementation.
func (r *auditRepository) ListByTarget(ctx context.Context, targetType, targetID string, limit int) ([]audit.Entry, error) {
	defer r.store.lock(ctx)()

	var entries []audit.Entry
	for i := len(r.store.auditLog) - 1; i >= 0; i-- {
		entry := r.store.auditLog[i]
		if entry.TargetType != targetType || entry.TargetID != targetID {
			continue
		}
		entries = append(entries, entry)
		if limit > 0 && len(entries) == limit {
			break
		}
	}
	return entries, nil
}
