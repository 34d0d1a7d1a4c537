package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/clockwise-hr/timeclock-backend-go/internal/domain/leave"
	"github.com/clockwise-hr/timeclock-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type leaveBalanceRepository struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.BalanceRepository {
	return &leaveBalanceRepository{db: db}
}

// GetForUpdate implements leave.BalanceRepository.
func (repo *leaveBalanceRepository) GetForUpdate(ctx context.Context, userID string, year int, leaveType string) (leave.Balance, error) {
	q := GetQuerier(ctx, repo.db)

	query := `
		SELECT id, user_id, year, type, accrued, used, remaining, created_at, updated_at
		FROM leave_balances
		WHERE user_id = $1 AND year = $2 AND type = $3
		FOR UPDATE
	`

	var b leave.Balance
	err := q.QueryRow(ctx, query, userID, year, leaveType).Scan(
		&b.ID, &b.UserID, &b.Year, &b.Type, &b.Accrued, &b.Used, &b.Remaining,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Balance{}, leave.ErrBalanceNotFound
		}
		return leave.Balance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}

	return b, nil
}

// Create implements leave.BalanceRepository.
func (repo *leaveBalanceRepository) Create(ctx context.Context, b leave.Balance) (leave.Balance, error) {
	q := GetQuerier(ctx, repo.db)

	if b.ID == "" {
		b.ID = uuid.NewString()
	}

	query := `
		INSERT INTO leave_balances (id, user_id, year, type, accrued, used, remaining)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		b.ID, b.UserID, b.Year, b.Type, b.Accrued, b.Used, b.Remaining,
	).Scan(&b.CreatedAt, &b.UpdatedAt)

	if err != nil {
		return leave.Balance{}, fmt.Errorf("failed to create leave balance: %w", err)
	}

	return b, nil
}

// Update implements leave.BalanceRepository.
func (repo *leaveBalanceRepository) Update(ctx context.Context, b leave.Balance) error {
	q := GetQuerier(ctx, repo.db)

	query := `
		UPDATE leave_balances
		SET accrued = $2,
			used = $3,
			remaining = $4,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, b.ID, b.Accrued, b.Used, b.Remaining)
	if err != nil {
		return fmt.Errorf("failed to update leave balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrBalanceNotFound
	}

	return nil
}

// ListByUser implements leave.BalanceRepository.
func (repo *leaveBalanceRepository) ListByUser(ctx context.Context, userID string, year *int) ([]leave.Balance, error) {
	q := GetQuerier(ctx, repo.db)

	baseWhere := "user_id = $1"
	args := []interface{}{userID}
	if year != nil {
		baseWhere += " AND year = $2"
		args = append(args, *year)
	}

	query := `
		SELECT id, user_id, year, type, accrued, used, remaining, created_at, updated_at
		FROM leave_balances
		WHERE ` + baseWhere + `
		ORDER BY year DESC, type ASC
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave balances: %w", err)
	}
	defer rows.Close()

	var balances []leave.Balance
	for rows.Next() {
		var b leave.Balance
		err := rows.Scan(
			&b.ID, &b.UserID, &b.Year, &b.Type, &b.Accrued, &b.Used, &b.Remaining,
			&b.CreatedAt, &b.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave balance: %w", err)
		}
		balances = append(balances, b)
	}

	return balances, rows.Err()
}
