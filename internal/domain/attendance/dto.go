package attendance

import (
	"fmt"
	"time"

	"github.com/clockwise-hr/timeclock-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

// Verification carries the request context recorded on clock events. The
// live face embedding is compared and discarded, never stored.
type Verification struct {
	IP            string    `json:"ip"`
	UserAgent     string    `json:"user_agent"`
	GeoLat        *float64  `json:"geo_lat,omitempty"`
	GeoLon        *float64  `json:"geo_lon,omitempty"`
	FaceEmbedding []float64 `json:"face_embedding,omitempty"`
}

type ClockInRequest struct {
	Method       string       `json:"method"`
	Verification Verification `json:"verification"`
	ProjectID    *string      `json:"project_id,omitempty"`
	TaskID       *string      `json:"task_id,omitempty"`
	Notes        *string      `json:"notes,omitempty"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if !Method(r.Method).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "method",
			Message: "method must be one of web, mobile, kiosk",
		})
	}

	if r.Verification.GeoLat != nil && !validator.IsValidLatitude(*r.Verification.GeoLat) {
		errs = append(errs, validator.ValidationError{
			Field:   "geo_lat",
			Message: "latitude must be between -90 and 90",
		})
	}

	if r.Verification.GeoLon != nil && !validator.IsValidLongitude(*r.Verification.GeoLon) {
		errs = append(errs, validator.ValidationError{
			Field:   "geo_lon",
			Message: "longitude must be between -180 and 180",
		})
	}

	if (r.Verification.GeoLat == nil) != (r.Verification.GeoLon == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "geo",
			Message: "geo_lat and geo_lon must be provided together",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ClockOutRequest struct {
	SessionID    *string      `json:"session_id,omitempty"`
	Verification Verification `json:"verification"`
	Notes        *string      `json:"notes,omitempty"`
}

func (r *ClockOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.SessionID != nil && validator.IsEmpty(*r.SessionID) {
		errs = append(errs, validator.ValidationError{
			Field:   "session_id",
			Message: "session_id must not be empty when provided",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AdminFixClockOutRequest struct {
	SessionID  string    `json:"-"`
	ClockOutAt time.Time `json:"clock_out_at"`
	Notes      *string   `json:"notes,omitempty"`
}

func (r *AdminFixClockOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.SessionID) {
		errs = append(errs, validator.ValidationError{
			Field:   "session_id",
			Message: "session_id is required",
		})
	}

	if r.ClockOutAt.IsZero() {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_out_at",
			Message: "clock_out_at is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EnrollFaceRequest struct {
	Embedding []float64 `json:"embedding"`
	Consent   bool      `json:"consent"`
}

type HistoryFilter struct {
	UserID    *string
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
}

// MaxHistoryLimit caps attendance history page size.
const MaxHistoryLimit = 200

type ClockInResponse struct {
	SessionID string `json:"session_id"`
}

type ClockOutResponse struct {
	SessionID         string `json:"session_id"`
	DurationSec       int64  `json:"duration_sec"`
	DurationFormatted string `json:"duration_formatted"`
}

type SessionResponse struct {
	ID              string   `json:"id"`
	UserID          string   `json:"user_id"`
	ClockInAt       string   `json:"clock_in_at"`
	ClockOutAt      *string  `json:"clock_out_at,omitempty"`
	Method          string   `json:"method"`
	GeoRegion       *string  `json:"geo_region,omitempty"`
	InOffice        *bool    `json:"in_office,omitempty"`
	FaceScore       *float64 `json:"face_score,omitempty"`
	FacePass        *bool    `json:"face_pass,omitempty"`
	ProjectID       *string  `json:"project_id,omitempty"`
	TaskID          *string  `json:"task_id,omitempty"`
	Notes           *string  `json:"notes,omitempty"`
	DurationSec     *int64   `json:"duration_sec,omitempty"`
	ClosedByAdminID *string  `json:"closed_by_admin_id,omitempty"`
}

// FormatDuration renders total seconds as "{h}h {m}m {s}s".
func FormatDuration(totalSec int64) string {
	h := totalSec / 3600
	m := (totalSec % 3600) / 60
	s := totalSec % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}

func ToSessionResponse(s Session) SessionResponse {
	resp := SessionResponse{
		ID:              s.ID,
		UserID:          s.UserID,
		ClockInAt:       s.ClockInAt.Format(time.RFC3339),
		Method:          string(s.Method),
		GeoRegion:       s.GeoRegion,
		InOffice:        s.InOffice,
		FaceScore:       s.FaceScore,
		FacePass:        s.FacePass,
		ProjectID:       s.ProjectID,
		TaskID:          s.TaskID,
		Notes:           s.Notes,
		DurationSec:     s.DurationSec,
		ClosedByAdminID: s.ClosedByAdminID,
	}
	if s.ClockOutAt != nil {
		out := s.ClockOutAt.Format(time.RFC3339)
		resp.ClockOutAt = &out
	}
	return resp
}
