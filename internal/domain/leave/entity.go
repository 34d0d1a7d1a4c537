package leave

import (
	"math"
	"time"
)

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
	StatusCanceled RequestStatus = "canceled"
)

// Comment is an append-only note on a leave request.
type Comment struct {
	UserID string    `json:"user_id"`
	Text   string    `json:"text"`
	At     time.Time `json:"at"`
}

// Request is a leave request. Status moves pending -> approved|rejected, and
// pending|approved -> canceled; rejected and canceled are terminal.
type Request struct {
	ID     string
	UserID string
	Type   string

	// Inclusive date range, midnight UTC.
	StartDate time.Time
	EndDate   time.Time
	Partial   bool

	Reason string

	Status     RequestStatus
	ApproverID *string
	Comments   []Comment

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Balance is the per-(user, year, type) ledger. Remaining is materialized,
// not derived, and is only mutated by the leave engine.
type Balance struct {
	ID        string
	UserID    string
	Year      int
	Type      string
	Accrued   float64
	Used      float64
	Remaining float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DayCount computes the deductible days for a request: inclusive calendar
// days, minus half a day for partial requests. The same formula runs on
// approval and cancellation so restoration exactly undoes deduction.
func DayCount(startDate, endDate time.Time, partial bool) float64 {
	days := math.Ceil(endDate.Sub(startDate).Hours()/24) + 1
	if partial {
		return days - 0.5
	}
	return days
}
