package response

import (
	"errors"
	"net/http"

	"github.com/clockwise-hr/timeclock-backend-go/internal/domain/attendance"
	"github.com/clockwise-hr/timeclock-backend-go/internal/domain/auth"
	"github.com/clockwise-hr/timeclock-backend-go/internal/domain/leave"
	"github.com/clockwise-hr/timeclock-backend-go/internal/domain/user"
	"github.com/clockwise-hr/timeclock-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Identity errors
	case errors.Is(err, user.ErrUnauthenticated):
		Unauthorized(w, "Authentication required")
	case errors.Is(err, user.ErrForbidden):
		Forbidden(w, "Insufficient role for this operation")
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrUserInactive):
		Forbidden(w, "Account is inactive")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrInvalidRole):
		BadRequest(w, "Invalid role", nil)
	case errors.Is(err, user.ErrInvalidEnrollment):
		BadRequest(w, "Face enrollment requires consent and a valid embedding", nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrActiveSessionExists):
		Conflict(w, "An open attendance session already exists")
	case errors.Is(err, attendance.ErrNoActiveSession):
		NotFound(w, "No open attendance session")
	case errors.Is(err, attendance.ErrSessionNotFound):
		NotFound(w, "Attendance session not found")
	case errors.Is(err, attendance.ErrAlreadyClosed):
		Conflict(w, "Attendance session already closed")
	case errors.Is(err, attendance.ErrFaceVerificationFailed):
		Forbidden(w, "Face verification failed")
	case errors.Is(err, attendance.ErrInvalidClockOutTime):
		BadRequest(w, "Clock-out time must be after clock-in time", nil)

	// Leave domain errors
	case errors.Is(err, leave.ErrRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrBalanceNotFound):
		NotFound(w, "Leave balance not found")
	case errors.Is(err, leave.ErrInvalidDateRange):
		BadRequest(w, "End date must not be before start date", nil)
	case errors.Is(err, leave.ErrPastStartDate):
		BadRequest(w, "Start date must not be in the past", nil)
	case errors.Is(err, leave.ErrAlreadyDecided):
		Conflict(w, "Leave request already decided")
	case errors.Is(err, leave.ErrInvalidState):
		Conflict(w, "Leave request cannot be canceled in its current state")
	case errors.Is(err, leave.ErrAlreadyStarted):
		Conflict(w, "Approved leave has already started")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
