package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/clockwise-hr/timeclock-backend-go/internal/domain/report"
	"github.com/clockwise-hr/timeclock-backend-go/internal/pkg/database"
)

type reportRepository struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepository{db: db}
}

// ProjectHours implements report.ReportRepository.
func (r *reportRepository) ProjectHours(ctx context.Context, from, to time.Time) ([]report.ProjectHours, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT project_id, COUNT(*), COALESCE(SUM(duration_sec), 0)
		FROM time_entries
		WHERE project_id IS NOT NULL
		  AND started_at >= $1
		  AND started_at <= $2
		GROUP BY project_id
		ORDER BY SUM(duration_sec) DESC
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query project hours: %w", err)
	}
	defer rows.Close()

	var results []report.ProjectHours
	for rows.Next() {
		var ph report.ProjectHours
		if err := rows.Scan(&ph.ProjectID, &ph.Entries, &ph.TotalSec); err != nil {
			return nil, fmt.Errorf("failed to scan project hours: %w", err)
		}
		ph.Hours = float64(ph.TotalSec) / 3600.0
		results = append(results, ph)
	}

	return results, rows.Err()
}

// AttendanceSummary implements report.ReportRepository.
func (r *reportRepository) AttendanceSummary(ctx context.Context, from, to time.Time) ([]report.AttendanceSummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT user_id, COUNT(*), COALESCE(SUM(duration_sec), 0)
		FROM attendance_sessions
		WHERE clock_out_at IS NOT NULL
		  AND clock_in_at >= $1
		  AND clock_in_at <= $2
		GROUP BY user_id
		ORDER BY user_id
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance summary: %w", err)
	}
	defer rows.Close()

	var results []report.AttendanceSummary
	for rows.Next() {
		var s report.AttendanceSummary
		if err := rows.Scan(&s.UserID, &s.Sessions, &s.TotalSec); err != nil {
			return nil, fmt.Errorf("failed to scan attendance summary: %w", err)
		}
		s.Hours = float64(s.TotalSec) / 3600.0
		results = append(results, s)
	}

	return results, rows.Err()
}
