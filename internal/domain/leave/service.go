package leave

import (
	"context"

	"github.com/clockwise-hr/timeclock-backend-go/internal/domain/user"
)

// LeaveService defines the leave accounting engine operations.
type LeaveService interface {
	// RequestLeave creates a pending request for the caller.
	RequestLeave(ctx context.Context, p user.Principal, req CreateRequestRequest) (RequestResponse, error)

	// UpdateStatus approves or rejects a pending request. Approval deducts
	// the request's day count from the (user, year, type) balance.
	UpdateStatus(ctx context.Context, p user.Principal, req UpdateStatusRequest) error

	// Cancel cancels a pending or not-yet-started approved request,
	// restoring the balance when the request had been approved.
	Cancel(ctx context.Context, p user.Principal, req CancelRequest) error

	// AddComment appends a comment regardless of status.
	AddComment(ctx context.Context, p user.Principal, req AddCommentRequest) error

	// GetRequest returns a single request visible to the caller.
	GetRequest(ctx context.Context, p user.Principal, leaveID string) (RequestResponse, error)

	// ListRequests lists requests; employees see only their own.
	ListRequests(ctx context.Context, p user.Principal, userID *string, status *RequestStatus, limit int) ([]RequestResponse, error)

	// GetBalances lists balances; employees see only their own.
	GetBalances(ctx context.Context, p user.Principal, userID *string, year *int) ([]BalanceResponse, error)
}
