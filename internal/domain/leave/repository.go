package leave

import (
	"context"
)

// RequestRepository defines data access methods for leave requests.
type RequestRepository interface {
	Create(ctx context.Context, r Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)

	// GetByIDForUpdate loads the request with a row lock so the status
	// precondition check and the transition commit atomically.
	GetByIDForUpdate(ctx context.Context, id string) (Request, error)

	// UpdateStatus patches status, approver and the comment list.
	UpdateStatus(ctx context.Context, id string, status RequestStatus, approverID *string, comments []Comment) error

	AppendComments(ctx context.Context, id string, comments []Comment) error
	ListByUser(ctx context.Context, userID string, status *RequestStatus, limit int) ([]Request, error)
}

// BalanceRepository defines data access for the leave ledger.
type BalanceRepository interface {
	// GetForUpdate loads the (user, year, type) balance with a row lock, or
	// ErrBalanceNotFound when none exists yet.
	GetForUpdate(ctx context.Context, userID string, year int, leaveType string) (Balance, error)

	Create(ctx context.Context, b Balance) (Balance, error)
	Update(ctx context.Context, b Balance) error

	ListByUser(ctx context.Context, userID string, year *int) ([]Balance, error)
}
