package leave

import (
	"time"

	"github.com/clockwise-hr/timeclock-backend-go/internal/pkg/validator"
)

// ========================================
// LEAVE DTOs
// ========================================

type CreateRequestRequest struct {
	Type      string `json:"type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Partial   bool   `json:"partial"`
	Reason    string `json:"reason"`
}

func (r *CreateRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Type) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type is required",
		})
	}

	if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	if _, ok := validator.IsValidDate(r.EndDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateStatusRequest struct {
	LeaveID string  `json:"-"`
	Status  string  `json:"status"`
	Comment *string `json:"comment,omitempty"`
}

func (r *UpdateStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.LeaveID) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_id",
			Message: "leave_id is required",
		})
	}

	if r.Status != string(StatusApproved) && r.Status != string(StatusRejected) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be approved or rejected",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CancelRequest struct {
	LeaveID string  `json:"-"`
	Reason  *string `json:"reason,omitempty"`
}

type AddCommentRequest struct {
	LeaveID string `json:"-"`
	Text    string `json:"text"`
}

func (r *AddCommentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Text) {
		errs = append(errs, validator.ValidationError{
			Field:   "text",
			Message: "text is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CommentResponse struct {
	UserID string `json:"user_id"`
	Text   string `json:"text"`
	At     string `json:"at"`
}

type RequestResponse struct {
	ID         string            `json:"id"`
	UserID     string            `json:"user_id"`
	Type       string            `json:"type"`
	StartDate  string            `json:"start_date"`
	EndDate    string            `json:"end_date"`
	Partial    bool              `json:"partial"`
	Reason     string            `json:"reason"`
	Status     string            `json:"status"`
	ApproverID *string           `json:"approver_id,omitempty"`
	Comments   []CommentResponse `json:"comments"`
	Days       float64           `json:"days"`
}

type BalanceResponse struct {
	UserID    string  `json:"user_id"`
	Year      int     `json:"year"`
	Type      string  `json:"type"`
	Accrued   float64 `json:"accrued"`
	Used      float64 `json:"used"`
	Remaining float64 `json:"remaining"`
}

func ToRequestResponse(r Request) RequestResponse {
	comments := make([]CommentResponse, 0, len(r.Comments))
	for _, c := range r.Comments {
		comments = append(comments, CommentResponse{
			UserID: c.UserID,
			Text:   c.Text,
			At:     c.At.Format(time.RFC3339),
		})
	}

	return RequestResponse{
		ID:         r.ID,
		UserID:     r.UserID,
		Type:       r.Type,
		StartDate:  r.StartDate.Format("2006-01-02"),
		EndDate:    r.EndDate.Format("2006-01-02"),
		Partial:    r.Partial,
		Reason:     r.Reason,
		Status:     string(r.Status),
		ApproverID: r.ApproverID,
		Comments:   comments,
		Days:       DayCount(r.StartDate, r.EndDate, r.Partial),
	}
}

func ToBalanceResponse(b Balance) BalanceResponse {
	return BalanceResponse{
		UserID:    b.UserID,
		Year:      b.Year,
		Type:      b.Type,
		Accrued:   b.Accrued,
		Used:      b.Used,
		Remaining: b.Remaining,
	}
}
