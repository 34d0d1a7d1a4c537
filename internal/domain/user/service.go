package user

import (
	"context"
)

// UserService defines admin user management operations.
type UserService interface {
	// CreateUser registers a user with a hashed password. Admin only.
	CreateUser(ctx context.Context, p Principal, req CreateUserRequest) (UserResponse, error)

	// UpdateRole changes a user's role. Admin only.
	UpdateRole(ctx context.Context, p Principal, req UpdateUserRoleRequest) error

	// ListUsers lists users. Admin or manager.
	ListUsers(ctx context.Context, p Principal, filter ListUsersFilter) ([]UserResponse, int64, error)

	// GetUser returns a single user; employees may only fetch themselves.
	GetUser(ctx context.Context, p Principal, id string) (UserResponse, error)
}
