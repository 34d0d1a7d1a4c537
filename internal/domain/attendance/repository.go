package attendance

import (
	"context"
	"time"
)

// SessionRepository defines data access methods for attendance sessions.
// Create must fail with ErrActiveSessionExists when the user already has an
// open session; the PostgreSQL implementation backs this with a partial
// unique index so concurrent clock-ins cannot both succeed.
type SessionRepository interface {
	Create(ctx context.Context, s Session) (Session, error)
	GetByID(ctx context.Context, id string) (Session, error)

	// GetOpenByUser returns the user's unique open session, or
	// ErrNoActiveSession.
	GetOpenByUser(ctx context.Context, userID string) (Session, error)

	// Close sets clock-out time and duration exactly once. Fails with
	// ErrAlreadyClosed when the session already has a close time.
	Close(ctx context.Context, id string, clockOutAt time.Time, durationSec int64, closedByAdminID *string, notes *string) error

	ListByUser(ctx context.Context, userID string, filter HistoryFilter) ([]Session, error)
}

// TimeEntryRepository stores derived time entries for project/task work.
type TimeEntryRepository interface {
	Create(ctx context.Context, e TimeEntry) (TimeEntry, error)
	ListByUser(ctx context.Context, userID string, from, to time.Time) ([]TimeEntry, error)
}
