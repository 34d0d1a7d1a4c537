package memory

import (
	"context"
	"sort"
	"time"

	"github.com/clockwise-hr/timeclock-backend-go/internal/domain/attendance"
	"github.com/google/uuid"
)

type sessionRepository struct {
	store *Store
}

func NewSessionRepository(store *Store) attendance.SessionRepository {
	return &sessionRepository{store: store}
}

// Create implements attendance.SessionRepository. The open-session scan plays
// the role of the partial unique index: inside a transaction the store mutex
// is held, so the check and the insert are atomic.
func (r *sessionRepository) Create(ctx context.Context, s attendance.Session) (attendance.Session, error) {
	defer r.store.lock(ctx)()

	for _, existing := range r.store.sessions {
		if existing.UserID == s.UserID && existing.ClockOutAt == nil {
			return attendance.Session{}, attendance.ErrActiveSessionExists
		}
	}

	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now

	r.store.sessions[s.ID] = s
	return s, nil
}

// GetByID implements attendance.SessionRepository.
func (r *sessionRepository) GetByID(ctx context.Context, id string) (attendance.Session, error) {
	defer r.store.lock(ctx)()

	s, ok := r.store.sessions[id]
	if !ok {
		return attendance.Session{}, attendance.ErrSessionNotFound
	}
	return s, nil
}

// GetOpenByUser implements attendance.SessionRepository.
func (r *sessionRepository) GetOpenByUser(ctx context.Context, userID string) (attendance.Session, error) {
	defer r.store.lock(ctx)()

	for _, s := range r.store.sessions {
		if s.UserID == userID && s.ClockOutAt == nil {
			return s, nil
		}
	}
	return attendance.Session{}, attendance.ErrNoActiveSession
}

// Close implements attendance.SessionRepository.
func (r *sessionRepository) Close(ctx context.Context, id string, clockOutAt time.Time, durationSec int64, closedByAdminID *string, notes *string) error {
	defer r.store.lock(ctx)()

	s, ok := r.store.sessions[id]
	if !ok {
		return attendance.ErrSessionNotFound
	}
	if s.ClockOutAt != nil {
		return attendance.ErrAlreadyClosed
	}

	s.ClockOutAt = &clockOutAt
	s.DurationSec = &durationSec
	s.ClosedByAdminID = closedByAdminID
	if notes != nil {
		s.Notes = notes
	}
	s.UpdatedAt = time.Now()

	r.store.sessions[id] = s
	return nil
}

// ListByUser implements attendance.SessionRepository.
func (r *sessionRepository) ListByUser(ctx context.Context, userID string, filter attendance.HistoryFilter) ([]attendance.Session, error) {
	defer r.store.lock(ctx)()

	var sessions []attendance.Session
	for _, s := range r.store.sessions {
		if s.UserID != userID {
			continue
		}
		if filter.StartDate != nil && s.ClockInAt.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && s.ClockInAt.After(*filter.EndDate) {
			continue
		}
		sessions = append(sessions, s)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].ClockInAt.After(sessions[j].ClockInAt)
	})

	if filter.Limit > 0 && len(sessions) > filter.Limit {
		sessions = sessions[:filter.Limit]
	}
	return sessions, nil
}

type timeEntryRepository struct {
	store *Store
}

func NewTimeEntryRepository(store *Store) attendance.TimeEntryRepository {
	return &timeEntryRepository{store: store}
}

// Create implements attendance.TimeEntryRepository.
func (r *timeEntryRepository) Create(ctx context.Context, e attendance.TimeEntry) (attendance.TimeEntry, error) {
	defer r.store.lock(ctx)()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = time.Now()

	r.store.timeEntries[e.ID] = e
	return e, nil
}

// ListByUser implements attendance.TimeEntryRepository.
func (r *timeEntryRepository) ListByUser(ctx context.Context, userID string, from, to time.Time) ([]attendance.TimeEntry, error) {
	defer r.store.lock(ctx)()

	var entries []attendance.TimeEntry
	for _, e := range r.store.timeEntries {
		if e.UserID != userID {
			continue
		}
		if e.StartedAt.Before(from) || e.StartedAt.After(to) {
			continue
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].StartedAt.Before(entries[j].StartedAt)
	})
	return entries, nil
}
