package attendance

import (
	"context"

	"github.com/clockwise-hr/timeclock-backend-go/internal/domain/user"
)

// AttendanceService defines the session engine operations. Every method
// takes the explicit caller principal and resolves the role gate first.
type AttendanceService interface {
	// ClockIn opens a session, enforcing at-most-one-open-session-per-user
	// and the optional biometric check.
	ClockIn(ctx context.Context, p user.Principal, req ClockInRequest) (ClockInResponse, error)

	// ClockOut closes the caller's session (by ID or the unique open one)
	// and derives a time entry when project/task work is attached.
	ClockOut(ctx context.Context, p user.Principal, req ClockOutRequest) (ClockOutResponse, error)

	// AdminFixClockOut closes a missed clock-out on behalf of an employee.
	AdminFixClockOut(ctx context.Context, p user.Principal, req AdminFixClockOutRequest) error

	// EnrollFace stores the caller's face embedding with consent.
	EnrollFace(ctx context.Context, p user.Principal, req EnrollFaceRequest) error

	// DeleteBiometricData clears the caller's embedding and consent.
	DeleteBiometricData(ctx context.Context, p user.Principal) error

	// GetHistory lists sessions; employees see only their own.
	GetHistory(ctx context.Context, p user.Principal, filter HistoryFilter) ([]SessionResponse, error)
}
