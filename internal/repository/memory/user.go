package memory

import (
	"context"
	"sort"
	"time"

	"github.com/clockwise-hr/timeclock-backend-go/internal/domain/user"
	"github.com/google/uuid"
)

type userRepository struct {
	store *Store
}

func NewUserRepository(store *Store) user.UserRepository {
	return &userRepository{store: store}
}

// Create implements user.UserRepository.
func (r *userRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	defer r.store.lock(ctx)()

	for _, existing := range r.store.users {
		if existing.Email == u.Email {
			return user.User{}, user.ErrEmailExists
		}
	}

	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	r.store.users[u.ID] = u
	return u, nil
}

// GetByID implements user.UserRepository.
func (r *userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	defer r.store.lock(ctx)()

	u, ok := r.store.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

// GetByEmail implements user.UserRepository.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	defer r.store.lock(ctx)()

	for _, u := range r.store.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

// List implements user.UserRepository.
func (r *userRepository) List(ctx context.Context, filter user.ListUsersFilter) ([]user.User, int64, error) {
	defer r.store.lock(ctx)()

	var users []user.User
	for _, u := range r.store.users {
		if filter.Role != nil && *filter.Role != "" && string(u.Role) != *filter.Role {
			continue
		}
		if filter.Status != nil && *filter.Status != "" && string(u.Status) != *filter.Status {
			continue
		}
		users = append(users, u)
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})

	total := int64(len(users))

	offset := (filter.Page - 1) * filter.Limit
	if offset >= len(users) {
		return nil, total, nil
	}
	users = users[offset:]
	if filter.Limit > 0 && len(users) > filter.Limit {
		users = users[:filter.Limit]
	}
	return users, total, nil
}

// UpdateRole implements user.UserRepository.
func (r *userRepository) UpdateRole(ctx context.Context, id string, role user.Role) error {
	defer r.store.lock(ctx)()

	u, ok := r.store.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.Role = role
	u.UpdatedAt = time.Now()
	r.store.users[id] = u
	return nil
}

// UpdateStatus implements user.UserRepository.
func (r *userRepository) UpdateStatus(ctx context.Context, id string, status user.Status) error {
	defer r.store.lock(ctx)()

	u, ok := r.store.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.Status = status
	u.UpdatedAt = time.Now()
	r.store.users[id] = u
	return nil
}

// SetFaceEnrollment implements user.UserRepository.
func (r *userRepository) SetFaceEnrollment(ctx context.Context, id string, embedding []float64) error {
	defer r.store.lock(ctx)()

	u, ok := r.store.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	now := time.Now()
	u.FaceEmbedding = embedding
	u.FaceConsentAt = &now
	u.UpdatedAt = now
	r.store.users[id] = u
	return nil
}

// ClearFaceEnrollment implements user.UserRepository.
func (r *userRepository) ClearFaceEnrollment(ctx context.Context, id string) error {
	defer r.store.lock(ctx)()

	u, ok := r.store.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.FaceEmbedding = nil
	u.FaceConsentAt = nil
	u.UpdatedAt = time.Now()
	r.store.users[id] = u
	return nil
}
