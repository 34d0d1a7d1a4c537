// Package memory provides map-backed repositories guarding the same
// invariants as the PostgreSQL implementations. The engines' unit tests run
// against them without a database.
package memory

import (
	"context"
	"sync"

	"github.com/clockwise-hr/timeclock-backend-go/internal/domain/attendance"
	"github.com/clockwise-hr/timeclock-backend-go/internal/domain/audit"
	"github.com/clockwise-hr/timeclock-backend-go/internal/domain/leave"
	"github.com/clockwise-hr/timeclock-backend-go/internal/domain/user"
	"github.com/clockwise-hr/timeclock-backend-go/internal/pkg/database"
)

// Store holds all entity maps behind one mutex; transactions serialize on
// it, which is the single-writer-queue shape of the concurrency contract.
type Store struct {
	mu sync.Mutex

	users       map[string]user.User
	sessions    map[string]attendance.Session
	timeEntries map[string]attendance.TimeEntry
	requests    map[string]leave.Request
	balances    map[string]leave.Balance
	auditLog    []audit.Entry
}

func NewStore() *Store {
	return &Store{
		users:       make(map[string]user.User),
		sessions:    make(map[string]attendance.Session),
		timeEntries: make(map[string]attendance.TimeEntry),
		requests:    make(map[string]leave.Request),
		balances:    make(map[string]leave.Balance),
	}
}

type txKey struct{}

func inTx(ctx context.Context) bool {
	held, _ := ctx.Value(txKey{}).(bool)
	return held
}

// lock acquires the store mutex unless the context already runs inside a
// transaction holding it.
func (s *Store) lock(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type txManager struct {
	store *Store
}

func NewTxManager(store *Store) database.TxManager {
	return &txManager{store: store}
}

// WithinTransaction serializes the whole operation on the store mutex.
// There is no rollback; the engines check preconditions before writing.
func (m *txManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, true))
}
