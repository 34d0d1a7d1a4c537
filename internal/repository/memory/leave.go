package memory

import (
	"context"
	"sort"
	"time"

	"github.com/clockwise-hr/timeclock-backend-go/internal/domain/leave"
	"github.com/google/uuid"
)

type leaveRequestRepository struct {
	store *Store
}

func NewLeaveRequestRepository(store *Store) leave.RequestRepository {
	return &leaveRequestRepository{store: store}
}

// Create implements leave.RequestRepository.
func (r *leaveRequestRepository) Create(ctx context.Context, req leave.Request) (leave.Request, error) {
	defer r.store.lock(ctx)()

	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	now := time.Now()
	req.CreatedAt = now
	req.UpdatedAt = now

	r.store.requests[req.ID] = req
	return req, nil
}

// GetByID implements leave.RequestRepository.
func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.Request, error) {
	defer r.store.lock(ctx)()

	req, ok := r.store.requests[id]
	if !ok {
		return leave.Request{}, leave.ErrRequestNotFound
	}
	return req, nil
}

// GetByIDForUpdate implements leave.RequestRepository. Row locking is
// unnecessary here; the transaction already holds the store mutex.
func (r *leaveRequestRepository) GetByIDForUpdate(ctx context.Context, id string) (leave.Request, error) {
	return r.GetByID(ctx, id)
}

// UpdateStatus implements leave.RequestRepository.
func (r *leaveRequestRepository) UpdateStatus(ctx context.Context, id string, status leave.RequestStatus, approverID *string, comments []leave.Comment) error {
	defer r.store.lock(ctx)()

	req, ok := r.store.requests[id]
	if !ok {
		return leave.ErrRequestNotFound
	}

	req.Status = status
	if approverID != nil {
		req.ApproverID = approverID
	}
	req.Comments = comments
	req.UpdatedAt = time.Now()

	r.store.requests[id] = req
	return nil
}

// AppendComments implements leave.RequestRepository.
func (r *leaveRequestRepository) AppendComments(ctx context.Context, id string, comments []leave.Comment) error {
	defer r.store.lock(ctx)()

	req, ok := r.store.requests[id]
	if !ok {
		return leave.ErrRequestNotFound
	}

	req.Comments = comments
	req.UpdatedAt = time.Now()

	r.store.requests[id] = req
	return nil
}

// ListByUser implements leave.RequestRepository.
func (r *leaveRequestRepository) ListByUser(ctx context.Context, userID string, status *leave.RequestStatus, limit int) ([]leave.Request, error) {
	defer r.store.lock(ctx)()

	var requests []leave.Request
	for _, req := range r.store.requests {
		if req.UserID != userID {
			continue
		}
		if status != nil && req.Status != *status {
			continue
		}
		requests = append(requests, req)
	}

	sort.Slice(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})

	if limit > 0 && len(requests) > limit {
		requests = requests[:limit]
	}
	return requests, nil
}

type leaveBalanceRepository struct {
	store *Store
}

func NewLeaveBalanceRepository(store *Store) leave.BalanceRepository {
	return &leaveBalanceRepository{store: store}
}

// GetForUpdate implements leave.BalanceRepository.
func (r *leaveBalanceRepository) GetForUpdate(ctx context.Context, userID string, year int, leaveType string) (leave.Balance, error) {
	defer r.store.lock(ctx)()

	for _, b := range r.store.balances {
		if b.UserID == userID && b.Year == year && b.Type == leaveType {
			return b, nil
		}
	}
	return leave.Balance{}, leave.ErrBalanceNotFound
}

// Create implements leave.BalanceRepository.
func (r *leaveBalanceRepository) Create(ctx context.Context, b leave.Balance) (leave.Balance, error) {
	defer r.store.lock(ctx)()

	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now

	r.store.balances[b.ID] = b
	return b, nil
}

// Update implements leave.BalanceRepository.
func (r *leaveBalanceRepository) Update(ctx context.Context, b leave.Balance) error {
	defer r.store.lock(ctx)()

	existing, ok := r.store.balances[b.ID]
	if !ok {
		return leave.ErrBalanceNotFound
	}

	existing.Accrued = b.Accrued
	existing.Used = b.Used
	existing.Remaining = b.Remaining
	existing.UpdatedAt = time.Now()

	r.store.balances[b.ID] = existing
	return nil
}

// ListByUser implements leave.BalanceRepository.
func (r *leaveBalanceRepository) ListByUser(ctx context.Context, userID string, year *int) ([]leave.Balance, error) {
	defer r.store.lock(ctx)()

	var balances []leave.Balance
	for _, b := range r.store.balances {
		if b.UserID != userID {
			continue
		}
		if year != nil && b.Year != *year {
			continue
		}
		balances = append(balances, b)
	}

	sort.Slice(balances, func(i, j int) bool {
		if balances[i].Year != balances[j].Year {
			return balances[i].Year > balances[j].Year
		}
		return balances[i].Type < balances[j].Type
	})
	return balances, nil
}
