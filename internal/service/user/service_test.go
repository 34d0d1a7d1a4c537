package user

import (
	"context"
	"testing"

	"github.com/clockwise-hr/timeclock-backend-go/internal/domain/audit"
	"github.com/clockwise-hr/timeclock-backend-go/internal/domain/user"
	"github.com/clockwise-hr/timeclock-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	adminP    = user.Principal{ID: "admin-1", Role: user.RoleAdmin}
	managerP  = user.Principal{ID: "mgr-1", Role: user.RoleManager}
	employeeP = user.Principal{ID: "emp-1", Role: user.RoleEmployee}
)

func newUserFixture(t *testing.T) (user.UserService, user.UserRepository, audit.AuditRepository) {
	t.Helper()

	store := memory.NewStore()
	userRepo := memory.NewUserRepository(store)
	auditRepo := memory.NewAuditRepository(store)

	return NewUserService(memory.NewTxManager(store), userRepo, auditRepo), userRepo, auditRepo
}

func validCreateRequest(email string) user.CreateUserRequest {
	return user.CreateUserRequest{
		Email:    email,
		Password: "password123",
		FullName: "New Hire",
		Role:     string(user.RoleEmployee),
	}
}

func TestCreateUser_AdminOnly(t *testing.T) {
	svc, _, _ := newUserFixture(t)

	_, err := svc.CreateUser(context.Background(), managerP, validCreateRequest("a@example.com"))
	assert.ErrorIs(t, err, user.ErrForbidden)

	_, err = svc.CreateUser(context.Background(), employeeP, validCreateRequest("a@example.com"))
	assert.ErrorIs(t, err, user.ErrForbidden)
}

func TestCreateUser_Success(t *testing.T) {
	ctx := context.Background()
	svc, repo, auditRepo := newUserFixture(t)

	resp, err := svc.CreateUser(ctx, adminP, validCreateRequest("hire@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "hire@example.com", resp.Email)
	assert.Equal(t, string(user.RoleEmployee), resp.Role)
	assert.Equal(t, string(user.StatusActive), resp.Status)

	// Password is stored hashed, never verbatim.
	stored, err := repo.GetByID(ctx, resp.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "password123", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)

	entries, err := auditRepo.ListByTarget(ctx, audit.TargetUser, resp.ID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionCreateUser, entries[0].Action)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newUserFixture(t)

	_, err := svc.CreateUser(ctx, adminP, validCreateRequest("dup@example.com"))
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, adminP, validCreateRequest("dup@example.com"))
	assert.ErrorIs(t, err, user.ErrEmailExists)
}

func TestCreateUser_InvalidRequest(t *testing.T) {
	svc, _, _ := newUserFixture(t)

	req := validCreateRequest("bad@example.com")
	req.Role = "superuser"
	_, err := svc.CreateUser(context.Background(), adminP, req)
	assert.Error(t, err)

	req = validCreateRequest("bad@example.com")
	req.Password = "short"
	_, err = svc.CreateUser(context.Background(), adminP, req)
	assert.Error(t, err)
}

func TestUpdateRole(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newUserFixture(t)

	resp, err := svc.CreateUser(ctx, adminP, validCreateRequest("promote@example.com"))
	require.NoError(t, err)

	err = svc.UpdateRole(ctx, managerP, user.UpdateUserRoleRequest{ID: resp.ID, Role: string(user.RoleManager)})
	assert.ErrorIs(t, err, user.ErrForbidden)

	err = svc.UpdateRole(ctx, adminP, user.UpdateUserRoleRequest{ID: resp.ID, Role: string(user.RoleManager)})
	require.NoError(t, err)

	stored, err := repo.GetByID(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, user.RoleManager, stored.Role)
}

func TestListUsers_RoleGate(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newUserFixture(t)

	_, err := svc.CreateUser(ctx, adminP, validCreateRequest("one@example.com"))
	require.NoError(t, err)

	_, _, err = svc.ListUsers(ctx, employeeP, user.ListUsersFilter{})
	assert.ErrorIs(t, err, user.ErrForbidden)

	users, total, err := svc.ListUsers(ctx, managerP, user.ListUsersFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, users, 1)
}

func TestGetUser_SelfOrManagerial(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newUserFixture(t)

	resp, err := svc.CreateUser(ctx, adminP, validCreateRequest("self@example.com"))
	require.NoError(t, err)

	// The user can read themselves.
	self := user.Principal{ID: resp.ID, Role: user.RoleEmployee}
	got, err := svc.GetUser(ctx, self, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, got.ID)

	// Another employee cannot.
	_, err = svc.GetUser(ctx, employeeP, resp.ID)
	assert.ErrorIs(t, err, user.ErrForbidden)

	// A manager can.
	_, err = svc.GetUser(ctx, managerP, resp.ID)
	require.NoError(t, err)
}
