package user

import "errors"

// User domain errors
var (
	ErrUnauthenticated = errors.New("no authenticated caller")
	ErrForbidden       = errors.New("caller role is not allowed to perform this action")

	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already registered")
	ErrInvalidRole  = errors.New("invalid role")

	// Face enrollment errors
	ErrInvalidEnrollment = errors.New("face enrollment requires explicit consent and an embedding of 64 to 1024 dimensions")
)
