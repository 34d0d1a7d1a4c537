package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clockwise-hr/timeclock-backend-go/internal/domain/audit"
	"github.com/clockwise-hr/timeclock-backend-go/internal/domain/leave"
	"github.com/clockwise-hr/timeclock-backend-go/internal/domain/user"
	"github.com/clockwise-hr/timeclock-backend-go/internal/pkg/database"
)

type LeaveServiceImpl struct {
	txm database.TxManager
	leave.RequestRepository
	leave.BalanceRepository
	audit.AuditRepository

	defaultAccrualDays float64
	now                func() time.Time
}

func NewLeaveService(
	txm database.TxManager,
	requestRepo leave.RequestRepository,
	balanceRepo leave.BalanceRepository,
	auditRepo audit.AuditRepository,
	defaultAccrualDays float64,
) leave.LeaveService {
	return &LeaveServiceImpl{
		txm:                txm,
		RequestRepository:  requestRepo,
		BalanceRepository:  balanceRepo,
		AuditRepository:    auditRepo,
		defaultAccrualDays: defaultAccrualDays,
		now:                time.Now,
	}
}

// RequestLeave implements leave.LeaveService.
func (l *LeaveServiceImpl) RequestLeave(ctx context.Context, p user.Principal, req leave.CreateRequestRequest) (leave.RequestResponse, error) {
	if err := user.RequireRole(p, user.RoleEmployee, user.RoleManager, user.RoleAdmin); err != nil {
		return leave.RequestResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.RequestResponse{}, err
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return leave.RequestResponse{}, fmt.Errorf("failed to parse start date: %w", err)
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return leave.RequestResponse{}, fmt.Errorf("failed to parse end date: %w", err)
	}

	if startDate.After(endDate) {
		return leave.RequestResponse{}, leave.ErrInvalidDateRange
	}
	if startDate.Before(l.now().UTC().Add(-24 * time.Hour)) {
		return leave.RequestResponse{}, leave.ErrPastStartDate
	}

	request := leave.Request{
		UserID:    p.ID,
		Type:      req.Type,
		StartDate: startDate,
		EndDate:   endDate,
		Partial:   req.Partial,
		Reason:    req.Reason,
		Status:    leave.StatusPending,
		Comments:  []leave.Comment{},
	}

	var created leave.Request
	err = l.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		created, err = l.RequestRepository.Create(ctx, request)
		if err != nil {
			return fmt.Errorf("failed to create leave request: %w", err)
		}

		return l.AuditRepository.Append(ctx, audit.Entry{
			ActorID:    p.ID,
			Action:     audit.ActionRequestLeave,
			TargetType: audit.TargetLeave,
			TargetID:   created.ID,
			Metadata: map[string]interface{}{
				"type": req.Type,
				"days": leave.DayCount(startDate, endDate, req.Partial),
			},
			At: l.now().UTC(),
		})
	})
	if err != nil {
		return leave.RequestResponse{}, err
	}

	return leave.ToRequestResponse(created), nil
}

// UpdateStatus implements leave.LeaveService.
func (l *LeaveServiceImpl) UpdateStatus(ctx context.Context, p user.Principal, req leave.UpdateStatusRequest) error {
	if err := user.RequireRole(p, user.RoleManager, user.RoleAdmin); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	newStatus := leave.RequestStatus(req.Status)

	return l.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		request, err := l.RequestRepository.GetByIDForUpdate(ctx, req.LeaveID)
		if err != nil {
			return err
		}
		if request.Status != leave.StatusPending {
			return leave.ErrAlreadyDecided
		}

		comments := request.Comments
		if req.Comment != nil && *req.Comment != "" {
			comments = append(comments, leave.Comment{
				UserID: p.ID,
				Text:   *req.Comment,
				At:     l.now().UTC(),
			})
		}

		approverID := p.ID
		if err := l.RequestRepository.UpdateStatus(ctx, request.ID, newStatus, &approverID, comments); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}

		action := audit.ActionLeaveRejected
		if newStatus == leave.StatusApproved {
			action = audit.ActionLeaveApproved
			if err := l.deductBalance(ctx, request); err != nil {
				return err
			}
		}

		return l.AuditRepository.Append(ctx, audit.Entry{
			ActorID:    p.ID,
			Action:     action,
			TargetType: audit.TargetLeave,
			TargetID:   request.ID,
			Metadata: map[string]interface{}{
				"days": leave.DayCount(request.StartDate, request.EndDate, request.Partial),
			},
			At: l.now().UTC(),
		})
	})
}

// deductBalance applies the day count of an approved request to the lazily
// created (user, current year, type) balance. Remaining is allowed to go
// negative; the engine does not gate approvals on available balance.
func (l *LeaveServiceImpl) deductBalance(ctx context.Context, request leave.Request) error {
	days := leave.DayCount(request.StartDate, request.EndDate, request.Partial)
	year := l.now().UTC().Year()

	balance, err := l.BalanceRepository.GetForUpdate(ctx, request.UserID, year, request.Type)
	if err != nil {
		if !errors.Is(err, leave.ErrBalanceNotFound) {
			return fmt.Errorf("failed to load leave balance: %w", err)
		}
		balance, err = l.BalanceRepository.Create(ctx, leave.Balance{
			UserID:    request.UserID,
			Year:      year,
			Type:      request.Type,
			Accrued:   l.defaultAccrualDays,
			Used:      0,
			Remaining: l.defaultAccrualDays,
		})
		if err != nil {
			return fmt.Errorf("failed to create leave balance: %w", err)
		}
	}

	balance.Used += days
	balance.Remaining -= days

	if err := l.BalanceRepository.Update(ctx, balance); err != nil {
		return fmt.Errorf("failed to update leave balance: %w", err)
	}

	return nil
}

// restoreBalance undoes a previous deduction using the same day-count
// formula, so a cancel after approve round-trips the ledger exactly.
func (l *LeaveServiceImpl) restoreBalance(ctx context.Context, request leave.Request) error {
	days := leave.DayCount(request.StartDate, request.EndDate, request.Partial)
	year := l.now().UTC().Year()

	balance, err := l.BalanceRepository.GetForUpdate(ctx, request.UserID, year, request.Type)
	if err != nil {
		if errors.Is(err, leave.ErrBalanceNotFound) {
			// Nothing was deducted this year; nothing to restore.
			return nil
		}
		return fmt.Errorf("failed to load leave balance: %w", err)
	}

	balance.Used -= days
	if balance.Used < 0 {
		balance.Used = 0
	}
	balance.Remaining += days

	if err := l.BalanceRepository.Update(ctx, balance); err != nil {
		return fmt.Errorf("failed to update leave balance: %w", err)
	}

	return nil
}

// Cancel implements leave.LeaveService.
func (l *LeaveServiceImpl) Cancel(ctx context.Context, p user.Principal, req leave.CancelRequest) error {
	if err := user.RequireRole(p, user.RoleEmployee, user.RoleManager, user.RoleAdmin); err != nil {
		return err
	}

	return l.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		request, err := l.RequestRepository.GetByIDForUpdate(ctx, req.LeaveID)
		if err != nil {
			return err
		}
		if request.UserID != p.ID && !p.IsManagerial() {
			return user.ErrForbidden
		}
		if request.Status != leave.StatusPending && request.Status != leave.StatusApproved {
			return leave.ErrInvalidState
		}

		wasApproved := request.Status == leave.StatusApproved
		if wasApproved && !request.StartDate.After(l.now().UTC()) {
			return leave.ErrAlreadyStarted
		}

		note := "canceled"
		if req.Reason != nil && *req.Reason != "" {
			note = "canceled: " + *req.Reason
		}
		comments := append(request.Comments, leave.Comment{
			UserID: p.ID,
			Text:   note,
			At:     l.now().UTC(),
		})

		if err := l.RequestRepository.UpdateStatus(ctx, request.ID, leave.StatusCanceled, request.ApproverID, comments); err != nil {
			return fmt.Errorf("failed to cancel leave request: %w", err)
		}

		if wasApproved {
			if err := l.restoreBalance(ctx, request); err != nil {
				return err
			}
		}

		return l.AuditRepository.Append(ctx, audit.Entry{
			ActorID:    p.ID,
			Action:     audit.ActionLeaveCanceled,
			TargetType: audit.TargetLeave,
			TargetID:   request.ID,
			Metadata: map[string]interface{}{
				"was_approved": wasApproved,
			},
			At: l.now().UTC(),
		})
	})
}

// AddComment implements leave.LeaveService.
func (l *LeaveServiceImpl) AddComment(ctx context.Context, p user.Principal, req leave.AddCommentRequest) error {
	if err := user.RequireRole(p, user.RoleEmployee, user.RoleManager, user.RoleAdmin); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	return l.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		request, err := l.RequestRepository.GetByIDForUpdate(ctx, req.LeaveID)
		if err != nil {
			return err
		}
		if request.UserID != p.ID && !p.IsManagerial() {
			return user.ErrForbidden
		}

		comments := append(request.Comments, leave.Comment{
			UserID: p.ID,
			Text:   req.Text,
			At:     l.now().UTC(),
		})

		if err := l.RequestRepository.AppendComments(ctx, request.ID, comments); err != nil {
			return fmt.Errorf("failed to append comment: %w", err)
		}

		return l.AuditRepository.Append(ctx, audit.Entry{
			ActorID:    p.ID,
			Action:     audit.ActionLeaveComment,
			TargetType: audit.TargetLeave,
			TargetID:   request.ID,
			At:         l.now().UTC(),
		})
	})
}

// GetRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) GetRequest(ctx context.Context, p user.Principal, leaveID string) (leave.RequestResponse, error) {
	if err := user.RequireRole(p, user.RoleEmployee, user.RoleManager, user.RoleAdmin); err != nil {
		return leave.RequestResponse{}, err
	}

	request, err := l.RequestRepository.GetByID(ctx, leaveID)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if request.UserID != p.ID && !p.IsManagerial() {
		return leave.RequestResponse{}, user.ErrForbidden
	}

	return leave.ToRequestResponse(request), nil
}

// ListRequests implements leave.LeaveService.
func (l *LeaveServiceImpl) ListRequests(ctx context.Context, p user.Principal, userID *string, status *leave.RequestStatus, limit int) ([]leave.RequestResponse, error) {
	if err := user.RequireRole(p, user.RoleEmployee, user.RoleManager, user.RoleAdmin); err != nil {
		return nil, err
	}

	targetUserID := p.ID
	if userID != nil && *userID != p.ID {
		if !p.IsManagerial() {
			return nil, user.ErrForbidden
		}
		targetUserID = *userID
	}

	if limit <= 0 || limit > 200 {
		limit = 200
	}

	requests, err := l.RequestRepository.ListByUser(ctx, targetUserID, status, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.RequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, leave.ToRequestResponse(r))
	}

	return responses, nil
}

// GetBalances implements leave.LeaveService.
func (l *LeaveServiceImpl) GetBalances(ctx context.Context, p user.Principal, userID *string, year *int) ([]leave.BalanceResponse, error) {
	if err := user.RequireRole(p, user.RoleEmployee, user.RoleManager, user.RoleAdmin); err != nil {
		return nil, err
	}

	targetUserID := p.ID
	if userID != nil && *userID != p.ID {
		if !p.IsManagerial() {
			return nil, user.ErrForbidden
		}
		targetUserID = *userID
	}

	balances, err := l.BalanceRepository.ListByUser(ctx, targetUserID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}

	responses := make([]leave.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		responses = append(responses, leave.ToBalanceResponse(b))
	}

	return responses, nil
}
