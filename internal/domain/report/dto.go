package report

import (
	"context"
	"time"
)

// ProjectHours aggregates closed time entries per project.
type ProjectHours struct {
	ProjectID string  `json:"project_id"`
	Entries   int64   `json:"entries"`
	TotalSec  int64   `json:"total_sec"`
	Hours     float64 `json:"hours"`
}

// AttendanceSummary aggregates closed session hours per user.
type AttendanceSummary struct {
	UserID   string  `json:"user_id"`
	Sessions int64   `json:"sessions"`
	TotalSec int64   `json:"total_sec"`
	Hours    float64 `json:"hours"`
}

// ReportRepository is a read-only projection over sessions and time entries.
// It never mutates the underlying stores.
type ReportRepository interface {
	ProjectHours(ctx context.Context, from, to time.Time) ([]ProjectHours, error)
	AttendanceSummary(ctx context.Context, from, to time.Time) ([]AttendanceSummary, error)
}
