package leave

import (
	"context"
	"testing"
	"time"

	"github.com/clockwise-hr/timeclock-backend-go/internal/domain/audit"
	"github.com/clockwise-hr/timeclock-backend-go/internal/domain/leave"
	"github.com/clockwise-hr/timeclock-backend-go/internal/domain/user"
	"github.com/clockwise-hr/timeclock-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAccrualDays = 20.0

type leaveFixture struct {
	svc       *LeaveServiceImpl
	requests  leave.RequestRepository
	balances  leave.BalanceRepository
	auditRepo audit.AuditRepository
}

func newLeaveFixture(t *testing.T) *leaveFixture {
	t.Helper()

	store := memory.NewStore()
	requestRepo := memory.NewLeaveRequestRepository(store)
	balanceRepo := memory.NewLeaveBalanceRepository(store)
	auditRepo := memory.NewAuditRepository(store)

	svc := NewLeaveService(
		memory.NewTxManager(store),
		requestRepo,
		balanceRepo,
		auditRepo,
		testAccrualDays,
	).(*LeaveServiceImpl)

	// Fixed clock so "past start date" checks are deterministic.
	svc.now = func() time.Time { return time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC) }

	return &leaveFixture{
		svc:       svc,
		requests:  requestRepo,
		balances:  balanceRepo,
		auditRepo: auditRepo,
	}
}

var (
	employeeP = user.Principal{ID: "emp-1", Role: user.RoleEmployee}
	managerP  = user.Principal{ID: "mgr-1", Role: user.RoleManager}
)

func (f *leaveFixture) request(t *testing.T, p user.Principal, start, end string, partial bool) leave.RequestResponse {
	t.Helper()

	resp, err := f.svc.RequestLeave(context.Background(), p, leave.CreateRequestRequest{
		Type:      "annual",
		StartDate: start,
		EndDate:   end,
		Partial:   partial,
		Reason:    "vacation",
	})
	require.NoError(t, err)
	return resp
}

func (f *leaveFixture) balance(t *testing.T, userID string) leave.Balance {
	t.Helper()

	b, err := f.balances.GetForUpdate(context.Background(), userID, 2026, "annual")
	require.NoError(t, err)
	return b
}

func TestRequestLeave_CreatesPending(t *testing.T) {
	f := newLeaveFixture(t)

	resp := f.request(t, employeeP, "2026-04-06", "2026-04-08", false)

	assert.Equal(t, string(leave.StatusPending), resp.Status)
	assert.Equal(t, employeeP.ID, resp.UserID)
	assert.Equal(t, 3.0, resp.Days)

	entries, err := f.auditRepo.ListByTarget(context.Background(), audit.TargetLeave, resp.ID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionRequestLeave, entries[0].Action)
}

func TestRequestLeave_InvalidRange(t *testing.T) {
	f := newLeaveFixture(t)

	_, err := f.svc.RequestLeave(context.Background(), employeeP, leave.CreateRequestRequest{
		Type:      "annual",
		StartDate: "2026-04-08",
		EndDate:   "2026-04-06",
		Reason:    "backwards",
	})
	assert.ErrorIs(t, err, leave.ErrInvalidDateRange)
}

func TestRequestLeave_PastStartDate(t *testing.T) {
	f := newLeaveFixture(t)

	_, err := f.svc.RequestLeave(context.Background(), employeeP, leave.CreateRequestRequest{
		Type:      "annual",
		StartDate: "2026-02-20",
		EndDate:   "2026-02-21",
		Reason:    "too late",
	})
	assert.ErrorIs(t, err, leave.ErrPastStartDate)
}

func TestRequestLeave_SameDayAllowed(t *testing.T) {
	f := newLeaveFixture(t)

	// The fixed clock is 2026-03-02 10:00 UTC; requesting that same day is
	// within the 24h grace window.
	resp := f.request(t, employeeP, "2026-03-02", "2026-03-02", false)
	assert.Equal(t, 1.0, resp.Days)
}

func TestUpdateStatus_ApproveDeductsBalance(t *testing.T) {
	ctx := context.Background()
	f := newLeaveFixture(t)

	resp := f.request(t, employeeP, "2026-04-06", "2026-04-10", false) // 5 days

	err := f.svc.UpdateStatus(ctx, managerP, leave.UpdateStatusRequest{
		LeaveID: resp.ID,
		Status:  string(leave.StatusApproved),
	})
	require.NoError(t, err)

	req, err := f.requests.GetByID(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, req.Status)
	require.NotNil(t, req.ApproverID)
	assert.Equal(t, managerP.ID, *req.ApproverID)

	// Balance was lazily created with the default accrual, then deducted.
	b := f.balance(t, employeeP.ID)
	assert.Equal(t, testAccrualDays, b.Accrued)
	assert.Equal(t, 5.0, b.Used)
	assert.Equal(t, testAccrualDays-5.0, b.Remaining)
}

func TestUpdateStatus_RejectLeavesBalanceUntouched(t *testing.T) {
	ctx := context.Background()
	f := newLeaveFixture(t)

	resp := f.request(t, employeeP, "2026-04-06", "2026-04-10", false)

	comment := "headcount is tight that week"
	err := f.svc.UpdateStatus(ctx, managerP, leave.UpdateStatusRequest{
		LeaveID: resp.ID,
		Status:  string(leave.StatusRejected),
		Comment: &comment,
	})
	require.NoError(t, err)

	req, err := f.requests.GetByID(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusRejected, req.Status)
	require.Len(t, req.Comments, 1)
	assert.Equal(t, comment, req.Comments[0].Text)

	_, err = f.balances.GetForUpdate(ctx, employeeP.ID, 2026, "annual")
	assert.ErrorIs(t, err, leave.ErrBalanceNotFound)
}

func TestUpdateStatus_EmployeeForbidden(t *testing.T) {
	f := newLeaveFixture(t)
	resp := f.request(t, employeeP, "2026-04-06", "2026-04-10", false)

	err := f.svc.UpdateStatus(context.Background(), employeeP, leave.UpdateStatusRequest{
		LeaveID: resp.ID,
		Status:  string(leave.StatusApproved),
	})
	assert.ErrorIs(t, err, user.ErrForbidden)
}

func TestUpdateStatus_AlreadyDecided(t *testing.T) {
	ctx := context.Background()
	f := newLeaveFixture(t)
	resp := f.request(t, employeeP, "2026-04-06", "2026-04-10", false)

	require.NoError(t, f.svc.UpdateStatus(ctx, managerP, leave.UpdateStatusRequest{
		LeaveID: resp.ID,
		Status:  string(leave.StatusApproved),
	}))

	err := f.svc.UpdateStatus(ctx, managerP, leave.UpdateStatusRequest{
		LeaveID: resp.ID,
		Status:  string(leave.StatusRejected),
	})
	assert.ErrorIs(t, err, leave.ErrAlreadyDecided)

	// Approval stands and the deduction was not doubled.
	b := f.balance(t, employeeP.ID)
	assert.Equal(t, 5.0, b.Used)
}

func TestUpdateStatus_ApprovalMayGoNegative(t *testing.T) {
	ctx := context.Background()
	f := newLeaveFixture(t)

	// 30 inclusive days against a 20-day accrual.
	resp := f.request(t, employeeP, "2026-04-01", "2026-04-30", false)

	require.NoError(t, f.svc.UpdateStatus(ctx, managerP, leave.UpdateStatusRequest{
		LeaveID: resp.ID,
		Status:  string(leave.StatusApproved),
	}))

	b := f.balance(t, employeeP.ID)
	assert.Equal(t, 30.0, b.Used)
	assert.Equal(t, -10.0, b.Remaining)
}

func TestCancel_PendingByOwner(t *testing.T) {
	ctx := context.Background()
	f := newLeaveFixture(t)
	resp := f.request(t, employeeP, "2026-04-06", "2026-04-10", false)

	err := f.svc.Cancel(ctx, employeeP, leave.CancelRequest{LeaveID: resp.ID})
	require.NoError(t, err)

	req, err := f.requests.GetByID(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusCanceled, req.Status)
}

func TestCancel_ApprovedRestoresBalance(t *testing.T) {
	ctx := context.Background()
	f := newLeaveFixture(t)

	// Partial request: 3 days - 0.5 = 2.5 deductible days.
	resp := f.request(t, employeeP, "2026-04-06", "2026-04-08", true)
	assert.Equal(t, 2.5, resp.Days)

	require.NoError(t, f.svc.UpdateStatus(ctx, managerP, leave.UpdateStatusRequest{
		LeaveID: resp.ID,
		Status:  string(leave.StatusApproved),
	}))

	b := f.balance(t, employeeP.ID)
	assert.Equal(t, 2.5, b.Used)
	assert.Equal(t, testAccrualDays-2.5, b.Remaining)

	// Cancel before the start date restores exactly what was deducted.
	require.NoError(t, f.svc.Cancel(ctx, employeeP, leave.CancelRequest{LeaveID: resp.ID}))

	b = f.balance(t, employeeP.ID)
	assert.Equal(t, 0.0, b.Used)
	assert.Equal(t, testAccrualDays, b.Remaining)
}

func TestCancel_ApprovedAlreadyStarted(t *testing.T) {
	ctx := context.Background()
	f := newLeaveFixture(t)

	resp := f.request(t, employeeP, "2026-03-10", "2026-03-12", false)
	require.NoError(t, f.svc.UpdateStatus(ctx, managerP, leave.UpdateStatusRequest{
		LeaveID: resp.ID,
		Status:  string(leave.StatusApproved),
	}))

	// Advance the clock past the start date.
	f.svc.now = func() time.Time { return time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC) }

	err := f.svc.Cancel(ctx, employeeP, leave.CancelRequest{LeaveID: resp.ID})
	assert.ErrorIs(t, err, leave.ErrAlreadyStarted)

	// Balance untouched.
	b := f.balance(t, employeeP.ID)
	assert.Equal(t, 3.0, b.Used)
}

func TestCancel_TerminalStatesRejected(t *testing.T) {
	ctx := context.Background()
	f := newLeaveFixture(t)

	resp := f.request(t, employeeP, "2026-04-06", "2026-04-08", false)
	require.NoError(t, f.svc.UpdateStatus(ctx, managerP, leave.UpdateStatusRequest{
		LeaveID: resp.ID,
		Status:  string(leave.StatusRejected),
	}))

	err := f.svc.Cancel(ctx, employeeP, leave.CancelRequest{LeaveID: resp.ID})
	assert.ErrorIs(t, err, leave.ErrInvalidState)
}

func TestCancel_OtherUserForbidden(t *testing.T) {
	f := newLeaveFixture(t)
	resp := f.request(t, employeeP, "2026-04-06", "2026-04-08", false)

	other := user.Principal{ID: "emp-2", Role: user.RoleEmployee}
	err := f.svc.Cancel(context.Background(), other, leave.CancelRequest{LeaveID: resp.ID})
	assert.ErrorIs(t, err, user.ErrForbidden)
}

func TestAddComment_AppendsInOrder(t *testing.T) {
	ctx := context.Background()
	f := newLeaveFixture(t)
	resp := f.request(t, employeeP, "2026-04-06", "2026-04-08", false)

	require.NoError(t, f.svc.AddComment(ctx, employeeP, leave.AddCommentRequest{
		LeaveID: resp.ID,
		Text:    "family trip",
	}))
	require.NoError(t, f.svc.AddComment(ctx, managerP, leave.AddCommentRequest{
		LeaveID: resp.ID,
		Text:    "noted",
	}))

	req, err := f.requests.GetByID(ctx, resp.ID)
	require.NoError(t, err)
	require.Len(t, req.Comments, 2)
	assert.Equal(t, "family trip", req.Comments[0].Text)
	assert.Equal(t, "noted", req.Comments[1].Text)
}

func TestGetRequest_OwnershipGate(t *testing.T) {
	ctx := context.Background()
	f := newLeaveFixture(t)
	resp := f.request(t, employeeP, "2026-04-06", "2026-04-08", false)

	_, err := f.svc.GetRequest(ctx, user.Principal{ID: "emp-2", Role: user.RoleEmployee}, resp.ID)
	assert.ErrorIs(t, err, user.ErrForbidden)

	got, err := f.svc.GetRequest(ctx, managerP, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, got.ID)
}

func TestListRequests_StatusFilter(t *testing.T) {
	ctx := context.Background()
	f := newLeaveFixture(t)

	first := f.request(t, employeeP, "2026-04-06", "2026-04-08", false)
	f.request(t, employeeP, "2026-05-04", "2026-05-06", false)

	require.NoError(t, f.svc.UpdateStatus(ctx, managerP, leave.UpdateStatusRequest{
		LeaveID: first.ID,
		Status:  string(leave.StatusApproved),
	}))

	approved := leave.StatusApproved
	results, err := f.svc.ListRequests(ctx, employeeP, nil, &approved, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, first.ID, results[0].ID)
}

func TestGetBalances_OwnershipGate(t *testing.T) {
	ctx := context.Background()
	f := newLeaveFixture(t)

	resp := f.request(t, employeeP, "2026-04-06", "2026-04-08", false)
	require.NoError(t, f.svc.UpdateStatus(ctx, managerP, leave.UpdateStatusRequest{
		LeaveID: resp.ID,
		Status:  string(leave.StatusApproved),
	}))

	_, err := f.svc.GetBalances(ctx, user.Principal{ID: "emp-2", Role: user.RoleEmployee}, &employeeP.ID, nil)
	assert.ErrorIs(t, err, user.ErrForbidden)

	balances, err := f.svc.GetBalances(ctx, managerP, &employeeP.ID, nil)
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.Equal(t, 3.0, balances[0].Used)
}
