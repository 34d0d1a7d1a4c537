package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/clockwise-hr/timeclock-backend-go/internal/domain/leave"
	"github.com/clockwise-hr/timeclock-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepository struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.RequestRepository {
	return &leaveRequestRepository{db: db}
}

const leaveRequestColumns = `
	id, user_id, type, start_date, end_date, partial, reason,
	status, approver_id, comments, created_at, updated_at
`

func scanLeaveRequest(row pgx.Row) (leave.Request, error) {
	var r leave.Request
	var commentsJSON []byte
	err := row.Scan(
		&r.ID, &r.UserID, &r.Type, &r.StartDate, &r.EndDate, &r.Partial, &r.Reason,
		&r.Status, &r.ApproverID, &commentsJSON, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return leave.Request{}, err
	}

	if len(commentsJSON) > 0 {
		if err := json.Unmarshal(commentsJSON, &r.Comments); err != nil {
			return leave.Request{}, fmt.Errorf("failed to unmarshal comments: %w", err)
		}
	}

	return r, nil
}

// Create implements leave.RequestRepository.
func (repo *leaveRequestRepository) Create(ctx context.Context, r leave.Request) (leave.Request, error) {
	q := GetQuerier(ctx, repo.db)

	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	commentsJSON, err := json.Marshal(r.Comments)
	if err != nil {
		return leave.Request{}, fmt.Errorf("failed to marshal comments: %w", err)
	}

	query := `
		INSERT INTO leave_requests (
			id, user_id, type, start_date, end_date, partial, reason, status, comments
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		) RETURNING created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		r.ID, r.UserID, r.Type, r.StartDate, r.EndDate, r.Partial, r.Reason, r.Status, commentsJSON,
	).Scan(&r.CreatedAt, &r.UpdatedAt)

	if err != nil {
		return leave.Request{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return r, nil
}

// GetByID implements leave.RequestRepository.
func (repo *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.Request, error) {
	q := GetQuerier(ctx, repo.db)

	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests WHERE id = $1`

	r, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Request{}, leave.ErrRequestNotFound
		}
		return leave.Request{}, fmt.Errorf("failed to get leave request by ID: %w", err)
	}

	return r, nil
}

// GetByIDForUpdate implements leave.RequestRepository. The row lock keeps
// the status precondition and the transition atomic under concurrency.
func (repo *leaveRequestRepository) GetByIDForUpdate(ctx context.Context, id string) (leave.Request, error) {
	q := GetQuerier(ctx, repo.db)

	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests WHERE id = $1 FOR UPDATE`

	r, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Request{}, leave.ErrRequestNotFound
		}
		return leave.Request{}, fmt.Errorf("failed to get leave request for update: %w", err)
	}

	return r, nil
}

// UpdateStatus implements leave.RequestRepository.
func (repo *leaveRequestRepository) UpdateStatus(ctx context.Context, id string, status leave.RequestStatus, approverID *string, comments []leave.Comment) error {
	q := GetQuerier(ctx, repo.db)

	commentsJSON, err := json.Marshal(comments)
	if err != nil {
		return fmt.Errorf("failed to marshal comments: %w", err)
	}

	query := `
		UPDATE leave_requests
		SET status = $2,
			approver_id = $3,
			comments = $4,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id, status, approverID, commentsJSON)
	if err != nil {
		return fmt.Errorf("failed to update leave request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrRequestNotFound
	}

	return nil
}

// AppendComments implements leave.RequestRepository.
func (repo *leaveRequestRepository) AppendComments(ctx context.Context, id string, comments []leave.Comment) error {
	q := GetQuerier(ctx, repo.db)

	commentsJSON, err := json.Marshal(comments)
	if err != nil {
		return fmt.Errorf("failed to marshal comments: %w", err)
	}

	query := `
		UPDATE leave_requests
		SET comments = $2,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id, commentsJSON)
	if err != nil {
		return fmt.Errorf("failed to append comments: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrRequestNotFound
	}

	return nil
}

// ListByUser implements leave.RequestRepository.
func (repo *leaveRequestRepository) ListByUser(ctx context.Context, userID string, status *leave.RequestStatus, limit int) ([]leave.Request, error) {
	q := GetQuerier(ctx, repo.db)

	baseWhere := "user_id = $1"
	args := []interface{}{userID}
	argIdx := 2

	if status != nil {
		baseWhere += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *status)
		argIdx++
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM leave_requests
		WHERE %s
		ORDER BY start_date DESC
		LIMIT $%d
	`, leaveRequestColumns, baseWhere, argIdx)
	args = append(args, limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.Request
	for rows.Next() {
		r, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, r)
	}

	return requests, rows.Err()
}
