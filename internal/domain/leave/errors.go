package leave

import "errors"

// Leave domain errors
var (
	ErrInvalidDateRange = errors.New("start date is after end date")
	ErrPastStartDate    = errors.New("start date is more than one day in the past")

	ErrRequestNotFound = errors.New("leave request not found")
	ErrBalanceNotFound = errors.New("leave balance not found")
	ErrAlreadyDecided  = errors.New("leave request has already been approved or rejected")
	ErrInvalidState    = errors.New("leave request is not in a cancelable state")
	ErrAlreadyStarted  = errors.New("approved leave has already started")
)
