package http

import (
	"net/http"
	"time"

	"github.com/clockwise-hr/timeclock-backend-go/internal/domain/report"
	"github.com/clockwise-hr/timeclock-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	ProjectHours(w http.ResponseWriter, r *http.Request)
	AttendanceSummary(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportRepo report.ReportRepository
}

func NewReportHandler(reportRepo report.ReportRepository) ReportHandler {
	return &reportHandlerImpl{
		reportRepo: reportRepo,
	}
}

// reportRange parses from/to query parameters, defaulting to the last 30
// days.
func reportRange(r *http.Request) (time.Time, time.Time) {
	to := time.Now()
	from := to.AddDate(0, 0, -30)

	if v := r.URL.Query().Get("from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			from = t
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			// Inclusive end date.
			to = t.AddDate(0, 0, 1)
		}
	}
	return from, to
}

// ProjectHours implements ReportHandler.
func (h *reportHandlerImpl) ProjectHours(w http.ResponseWriter, r *http.Request) {
	from, to := reportRange(r)

	results, err := h.reportRepo.ProjectHours(r.Context(), from, to)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// AttendanceSummary implements ReportHandler.
func (h *reportHandlerImpl) AttendanceSummary(w http.ResponseWriter, r *http.Request) {
	from, to := reportRange(r)

	results, err := h.reportRepo.AttendanceSummary(r.Context(), from, to)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}
