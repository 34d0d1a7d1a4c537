package user

import (
	"context"
)

// UserRepository defines data access methods for user records.
type UserRepository interface {
	Create(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context, filter ListUsersFilter) ([]User, int64, error)

	UpdateRole(ctx context.Context, id string, role Role) error
	UpdateStatus(ctx context.Context, id string, status Status) error

	// SetFaceEnrollment stores embedding + consent timestamp; ClearFaceEnrollment
	// removes both.
	SetFaceEnrollment(ctx context.Context, id string, embedding []float64) error
	ClearFaceEnrollment(ctx context.Context, id string) error
}
