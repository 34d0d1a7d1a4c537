package attendance

import "errors"

// Attendance domain errors
var (
	// Clock-in errors
	ErrActiveSessionExists    = errors.New("an active session already exists for this user")
	ErrFaceVerificationFailed = errors.New("face verification failed")

	// Clock-out errors
	ErrNoActiveSession = errors.New("no active session to clock out of")
	ErrAlreadyClosed   = errors.New("session is already closed")

	// Admin correction errors
	ErrInvalidClockOutTime = errors.New("clock-out time precedes clock-in time")

	// General errors
	ErrSessionNotFound = errors.New("attendance session not found")
)
