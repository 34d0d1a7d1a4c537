package attendance

import (
	"time"
)

type Method string

const (
	MethodWeb    Method = "web"
	MethodMobile Method = "mobile"
	MethodKiosk  Method = "kiosk"
)

func (m Method) Valid() bool {
	return m == MethodWeb || m == MethodMobile || m == MethodKiosk
}

// Session is one clock-in-to-clock-out interval. A session with a nil
// ClockOutAt is open; at most one open session may exist per user.
type Session struct {
	ID        string
	UserID    string
	ClockInAt time.Time
	ClockOutAt *time.Time
	Method    Method

	// Verification context captured at clock-in.
	IP        string
	UserAgent string
	GeoLat    *float64
	GeoLon    *float64
	GeoRegion *string
	InOffice  *bool
	FaceScore *float64
	FacePass  *bool

	ProjectID *string
	TaskID    *string
	Notes     *string

	DurationSec     *int64
	ClosedByAdminID *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Session) IsOpen() bool {
	return s.ClockOutAt == nil
}

// TimeEntry mirrors a closed session that carried project or task work.
// Created by the attendance engine, read by reporting.
type TimeEntry struct {
	ID          string
	SessionID   string
	UserID      string
	ProjectID   *string
	TaskID      *string
	StartedAt   time.Time
	EndedAt     time.Time
	DurationSec int64
	CreatedAt   time.Time
}
