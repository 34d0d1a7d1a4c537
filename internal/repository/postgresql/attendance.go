package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clockwise-hr/timeclock-backend-go/internal/domain/attendance"
	"github.com/clockwise-hr/timeclock-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type sessionRepository struct {
	db *database.DB
}

func NewSessionRepository(db *database.DB) attendance.SessionRepository {
	return &sessionRepository{db: db}
}

const sessionColumns = `
	id, user_id, clock_in_at, clock_out_at, method,
	ip, user_agent, geo_lat, geo_lon, geo_region, in_office,
	face_score, face_pass, project_id, task_id, notes,
	duration_sec, closed_by_admin_id, created_at, updated_at
`

func scanSession(row pgx.Row) (attendance.Session, error) {
	var s attendance.Session
	err := row.Scan(
		&s.ID, &s.UserID, &s.ClockInAt, &s.ClockOutAt, &s.Method,
		&s.IP, &s.UserAgent, &s.GeoLat, &s.GeoLon, &s.GeoRegion, &s.InOffice,
		&s.FaceScore, &s.FacePass, &s.ProjectID, &s.TaskID, &s.Notes,
		&s.DurationSec, &s.ClosedByAdminID, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// Create implements attendance.SessionRepository. The partial unique index
// uniq_open_session_per_user turns a concurrent double clock-in into a
// unique violation, reported as ErrActiveSessionExists.
func (r *sessionRepository) Create(ctx context.Context, s attendance.Session) (attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	query := `
		INSERT INTO attendance_sessions (
			id, user_id, clock_in_at, method,
			ip, user_agent, geo_lat, geo_lon, geo_region, in_office,
			face_score, face_pass, project_id, task_id, notes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.ID, s.UserID, s.ClockInAt, s.Method,
		s.IP, s.UserAgent, s.GeoLat, s.GeoLon, s.GeoRegion, s.InOffice,
		s.FaceScore, s.FacePass, s.ProjectID, s.TaskID, s.Notes,
	).Scan(&s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return attendance.Session{}, attendance.ErrActiveSessionExists
		}
		return attendance.Session{}, fmt.Errorf("failed to create session: %w", err)
	}

	return s, nil
}

// GetByID implements attendance.SessionRepository.
func (r *sessionRepository) GetByID(ctx context.Context, id string) (attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + sessionColumns + ` FROM attendance_sessions WHERE id = $1 FOR UPDATE`

	s, err := scanSession(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Session{}, attendance.ErrSessionNotFound
		}
		return attendance.Session{}, fmt.Errorf("failed to get session by ID: %w", err)
	}

	return s, nil
}

// GetOpenByUser implements attendance.SessionRepository.
func (r *sessionRepository) GetOpenByUser(ctx context.Context, userID string) (attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + sessionColumns + `
		FROM attendance_sessions
		WHERE user_id = $1
		  AND clock_out_at IS NULL
		ORDER BY clock_in_at DESC
		LIMIT 1
		FOR UPDATE
	`

	s, err := scanSession(q.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Session{}, attendance.ErrNoActiveSession
		}
		return attendance.Session{}, fmt.Errorf("failed to get open session: %w", err)
	}

	return s, nil
}

// Close implements attendance.SessionRepository. The clock_out_at IS NULL
// guard makes the close idempotence check part of the statement itself.
func (r *sessionRepository) Close(ctx context.Context, id string, clockOutAt time.Time, durationSec int64, closedByAdminID *string, notes *string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_sessions
		SET clock_out_at = $2,
			duration_sec = $3,
			closed_by_admin_id = $4,
			notes = COALESCE($5, notes),
			updated_at = NOW()
		WHERE id = $1
		  AND clock_out_at IS NULL
	`

	tag, err := q.Exec(ctx, query, id, clockOutAt, durationSec, closedByAdminID, notes)
	if err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}

	if tag.RowsAffected() == 0 {
		var exists bool
		if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM attendance_sessions WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check session existence: %w", err)
		}
		if !exists {
			return attendance.ErrSessionNotFound
		}
		return attendance.ErrAlreadyClosed
	}

	return nil
}

// ListByUser implements attendance.SessionRepository.
func (r *sessionRepository) ListByUser(ctx context.Context, userID string, filter attendance.HistoryFilter) ([]attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "user_id = $1"
	args := []interface{}{userID}
	argIdx := 2

	if filter.StartDate != nil {
		baseWhere += fmt.Sprintf(" AND clock_in_at >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil {
		baseWhere += fmt.Sprintf(" AND clock_in_at <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM attendance_sessions
		WHERE %s
		ORDER BY clock_in_at DESC
		LIMIT $%d
	`, sessionColumns, baseWhere, argIdx)
	args = append(args, filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []attendance.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

type timeEntryRepository struct {
	db *database.DB
}

func NewTimeEntryRepository(db *database.DB) attendance.TimeEntryRepository {
	return &timeEntryRepository{db: db}
}

// Create implements attendance.TimeEntryRepository.
func (r *timeEntryRepository) Create(ctx context.Context, e attendance.TimeEntry) (attendance.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	query := `
		INSERT INTO time_entries (
			id, session_id, user_id, project_id, task_id,
			started_at, ended_at, duration_sec
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		e.ID, e.SessionID, e.UserID, e.ProjectID, e.TaskID,
		e.StartedAt, e.EndedAt, e.DurationSec,
	).Scan(&e.CreatedAt)

	if err != nil {
		return attendance.TimeEntry{}, fmt.Errorf("failed to create time entry: %w", err)
	}

	return e, nil
}

// ListByUser implements attendance.TimeEntryRepository.
func (r *timeEntryRepository) ListByUser(ctx context.Context, userID string, from, to time.Time) ([]attendance.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, session_id, user_id, project_id, task_id,
			   started_at, ended_at, duration_sec, created_at
		FROM time_entries
		WHERE user_id = $1
		  AND started_at >= $2
		  AND started_at <= $3
		ORDER BY started_at DESC
	`

	rows, err := q.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query time entries: %w", err)
	}
	defer rows.Close()

	var entries []attendance.TimeEntry
	for rows.Next() {
		var e attendance.TimeEntry
		err := rows.Scan(
			&e.ID, &e.SessionID, &e.UserID, &e.ProjectID, &e.TaskID,
			&e.StartedAt, &e.EndedAt, &e.DurationSec, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
