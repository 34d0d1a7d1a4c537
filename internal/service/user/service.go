package user

import (
	"context"
	"fmt"
	"time"

	"github.com/clockwise-hr/timeclock-backend-go/internal/domain/audit"
	"github.com/clockwise-hr/timeclock-backend-go/internal/domain/user"
	"github.com/clockwise-hr/timeclock-backend-go/internal/pkg/database"
	"golang.org/x/crypto/bcrypt"
)

type UserServiceImpl struct {
	txm database.TxManager
	user.UserRepository
	audit.AuditRepository

	now func() time.Time
}

func NewUserService(txm database.TxManager, userRepo user.UserRepository, auditRepo audit.AuditRepository) user.UserService {
	return &UserServiceImpl{
		txm:             txm,
		UserRepository:  userRepo,
		AuditRepository: auditRepo,
		now:             time.Now,
	}
}

// CreateUser implements user.UserService.
func (s *UserServiceImpl) CreateUser(ctx context.Context, p user.Principal, req user.CreateUserRequest) (user.UserResponse, error) {
	if err := user.RequireRole(p, user.RoleAdmin); err != nil {
		return user.UserResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser := user.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         user.Role(req.Role),
		Status:       user.StatusActive,
	}

	var created user.User
	err = s.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.UserRepository.Create(ctx, newUser)
		if err != nil {
			return err
		}

		return s.AuditRepository.Append(ctx, audit.Entry{
			ActorID:    p.ID,
			Action:     audit.ActionCreateUser,
			TargetType: audit.TargetUser,
			TargetID:   created.ID,
			Metadata: map[string]interface{}{
				"role": req.Role,
			},
			At: s.now().UTC(),
		})
	})
	if err != nil {
		return user.UserResponse{}, err
	}

	return user.ToResponse(created), nil
}

// UpdateRole implements user.UserService.
func (s *UserServiceImpl) UpdateRole(ctx context.Context, p user.Principal, req user.UpdateUserRoleRequest) error {
	if err := user.RequireRole(p, user.RoleAdmin); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	return s.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.UserRepository.UpdateRole(ctx, req.ID, user.Role(req.Role)); err != nil {
			return err
		}

		return s.AuditRepository.Append(ctx, audit.Entry{
			ActorID:    p.ID,
			Action:     audit.ActionUpdateUserRole,
			TargetType: audit.TargetUser,
			TargetID:   req.ID,
			Metadata: map[string]interface{}{
				"role": req.Role,
			},
			At: s.now().UTC(),
		})
	})
}

// ListUsers implements user.UserService.
func (s *UserServiceImpl) ListUsers(ctx context.Context, p user.Principal, filter user.ListUsersFilter) ([]user.UserResponse, int64, error) {
	if err := user.RequireRole(p, user.RoleManager, user.RoleAdmin); err != nil {
		return nil, 0, err
	}

	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	users, total, err := s.UserRepository.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	responses := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, user.ToResponse(u))
	}

	return responses, total, nil
}

// GetUser implements user.UserService.
func (s *UserServiceImpl) GetUser(ctx context.Context, p user.Principal, id string) (user.UserResponse, error) {
	if err := user.RequireRole(p, user.RoleEmployee, user.RoleManager, user.RoleAdmin); err != nil {
		return user.UserResponse{}, err
	}

	if id != p.ID && !p.IsManagerial() {
		return user.UserResponse{}, user.ErrForbidden
	}

	u, err := s.UserRepository.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}

	return user.ToResponse(u), nil
}
