package audit

import (
	"time"
)

// Actions recorded by the engines.
const (
	ActionClockIn          = "clock_in"
	ActionClockOut         = "clock_out"
	ActionAdminFixClockOut = "admin_fix_clock_out"
	ActionEnrollFace       = "enroll_face"
	ActionDeleteBiometric  = "delete_biometric_data"

	ActionRequestLeave  = "request_leave"
	ActionLeaveApproved = "leave_approved"
	ActionLeaveRejected = "leave_rejected"
	ActionLeaveCanceled = "leave_canceled"
	ActionLeaveComment  = "leave_comment"

	ActionCreateUser     = "create_user"
	ActionUpdateUserRole = "update_user_role"
)

// Target entity types.
const (
	TargetSession = "attendance_session"
	TargetLeave   = "leave_request"
	TargetUser    = "user"
)

// Entry is an append-only compliance record. Entries are never updated or
// deleted.
type Entry struct {
	ID         string                 `json:"id"`
	ActorID    string                 `json:"actor_id"`
	Action     string                 `json:"action"`
	TargetType string                 `json:"target_type"`
	TargetID   string                 `json:"target_id"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	At         time.Time              `json:"at"`
}
