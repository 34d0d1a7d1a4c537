package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/clockwise-hr/timeclock-backend-go/internal/domain/attendance"
	"github.com/clockwise-hr/timeclock-backend-go/internal/domain/audit"
	"github.com/clockwise-hr/timeclock-backend-go/internal/domain/user"
	"github.com/clockwise-hr/timeclock-backend-go/internal/pkg/database"
	"github.com/clockwise-hr/timeclock-backend-go/internal/service/face"
	"github.com/clockwise-hr/timeclock-backend-go/internal/service/geofence"
)

type AttendanceServiceImpl struct {
	txm database.TxManager
	attendance.SessionRepository
	attendance.TimeEntryRepository
	user.UserRepository
	audit.AuditRepository
	matcher  *face.Matcher
	geofence *geofence.Evaluator

	now func() time.Time
}

func NewAttendanceService(
	txm database.TxManager,
	sessionRepo attendance.SessionRepository,
	timeEntryRepo attendance.TimeEntryRepository,
	userRepo user.UserRepository,
	auditRepo audit.AuditRepository,
	matcher *face.Matcher,
	evaluator *geofence.Evaluator,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		txm:                 txm,
		SessionRepository:   sessionRepo,
		TimeEntryRepository: timeEntryRepo,
		UserRepository:      userRepo,
		AuditRepository:     auditRepo,
		matcher:             matcher,
		geofence:            evaluator,
		now:                 time.Now,
	}
}

// ClockIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockIn(ctx context.Context, p user.Principal, req attendance.ClockInRequest) (attendance.ClockInResponse, error) {
	if err := user.RequireRole(p, user.RoleEmployee, user.RoleManager, user.RoleAdmin); err != nil {
		return attendance.ClockInResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.ClockInResponse{}, err
	}

	caller, err := a.UserRepository.GetByID(ctx, p.ID)
	if err != nil {
		return attendance.ClockInResponse{}, fmt.Errorf("failed to get caller: %w", err)
	}

	session := attendance.Session{
		UserID:    p.ID,
		ClockInAt: a.now().UTC(),
		Method:    attendance.Method(req.Method),
		IP:        req.Verification.IP,
		UserAgent: req.Verification.UserAgent,
		GeoLat:    req.Verification.GeoLat,
		GeoLon:    req.Verification.GeoLon,
		ProjectID: req.ProjectID,
		TaskID:    req.TaskID,
		Notes:     req.Notes,
	}

	// Biometric check only when both sides exist. An unenrolled user clocks
	// in without biometric assurance; that is policy, not an error.
	if len(caller.FaceEmbedding) > 0 && len(req.Verification.FaceEmbedding) > 0 {
		result := a.matcher.Verify(caller.FaceEmbedding, req.Verification.FaceEmbedding)
		session.FaceScore = &result.Score
		session.FacePass = &result.Pass
		if !result.Pass {
			return attendance.ClockInResponse{}, attendance.ErrFaceVerificationFailed
		}
	}

	if req.Verification.GeoLat != nil && req.Verification.GeoLon != nil {
		match := a.geofence.Locate(*req.Verification.GeoLat, *req.Verification.GeoLon)
		session.InOffice = &match.InRegion
		if match.InRegion {
			session.GeoRegion = &match.RegionName
		}
	}

	var created attendance.Session
	err = a.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		created, err = a.SessionRepository.Create(ctx, session)
		if err != nil {
			return err
		}

		return a.AuditRepository.Append(ctx, audit.Entry{
			ActorID:    p.ID,
			Action:     audit.ActionClockIn,
			TargetType: audit.TargetSession,
			TargetID:   created.ID,
			Metadata: map[string]interface{}{
				"method":    req.Method,
				"in_office": session.InOffice != nil && *session.InOffice,
			},
			At: a.now().UTC(),
		})
	})
	if err != nil {
		return attendance.ClockInResponse{}, err
	}

	return attendance.ClockInResponse{SessionID: created.ID}, nil
}

// ClockOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockOut(ctx context.Context, p user.Principal, req attendance.ClockOutRequest) (attendance.ClockOutResponse, error) {
	if err := user.RequireRole(p, user.RoleEmployee, user.RoleManager, user.RoleAdmin); err != nil {
		return attendance.ClockOutResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.ClockOutResponse{}, err
	}

	var resp attendance.ClockOutResponse
	err := a.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		var session attendance.Session
		var err error

		if req.SessionID != nil {
			session, err = a.SessionRepository.GetByID(ctx, *req.SessionID)
			if err != nil {
				return err
			}
			if session.UserID != p.ID && !p.IsManagerial() {
				return user.ErrForbidden
			}
			if !session.IsOpen() {
				return attendance.ErrAlreadyClosed
			}
		} else {
			session, err = a.SessionRepository.GetOpenByUser(ctx, p.ID)
			if err != nil {
				return err
			}
		}

		clockOutAt := a.now().UTC()
		durationSec := int64(clockOutAt.Sub(session.ClockInAt) / time.Second)

		if err := a.SessionRepository.Close(ctx, session.ID, clockOutAt, durationSec, nil, req.Notes); err != nil {
			return err
		}

		if session.ProjectID != nil || session.TaskID != nil {
			_, err := a.TimeEntryRepository.Create(ctx, attendance.TimeEntry{
				SessionID:   session.ID,
				UserID:      session.UserID,
				ProjectID:   session.ProjectID,
				TaskID:      session.TaskID,
				StartedAt:   session.ClockInAt,
				EndedAt:     clockOutAt,
				DurationSec: durationSec,
			})
			if err != nil {
				return fmt.Errorf("failed to create time entry: %w", err)
			}
		}

		if err := a.AuditRepository.Append(ctx, audit.Entry{
			ActorID:    p.ID,
			Action:     audit.ActionClockOut,
			TargetType: audit.TargetSession,
			TargetID:   session.ID,
			Metadata: map[string]interface{}{
				"duration_sec": durationSec,
			},
			At: a.now().UTC(),
		}); err != nil {
			return err
		}

		resp = attendance.ClockOutResponse{
			SessionID:         session.ID,
			DurationSec:       durationSec,
			DurationFormatted: attendance.FormatDuration(durationSec),
		}
		return nil
	})
	if err != nil {
		return attendance.ClockOutResponse{}, err
	}

	return resp, nil
}

// AdminFixClockOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) AdminFixClockOut(ctx context.Context, p user.Principal, req attendance.AdminFixClockOutRequest) error {
	if err := user.RequireRole(p, user.RoleManager, user.RoleAdmin); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	return a.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		session, err := a.SessionRepository.GetByID(ctx, req.SessionID)
		if err != nil {
			return err
		}
		if !session.IsOpen() {
			return attendance.ErrAlreadyClosed
		}

		clockOutAt := req.ClockOutAt.UTC()
		if clockOutAt.Before(session.ClockInAt) {
			return attendance.ErrInvalidClockOutTime
		}

		durationSec := int64(clockOutAt.Sub(session.ClockInAt) / time.Second)
		adminID := p.ID
		if err := a.SessionRepository.Close(ctx, session.ID, clockOutAt, durationSec, &adminID, req.Notes); err != nil {
			return err
		}

		return a.AuditRepository.Append(ctx, audit.Entry{
			ActorID:    p.ID,
			Action:     audit.ActionAdminFixClockOut,
			TargetType: audit.TargetSession,
			TargetID:   session.ID,
			Metadata: map[string]interface{}{
				"clock_out_at": clockOutAt.Format(time.RFC3339),
				"duration_sec": durationSec,
			},
			At: a.now().UTC(),
		})
	})
}

// EnrollFace implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) EnrollFace(ctx context.Context, p user.Principal, req attendance.EnrollFaceRequest) error {
	if err := user.RequireRole(p, user.RoleEmployee, user.RoleManager, user.RoleAdmin); err != nil {
		return err
	}

	if !req.Consent || len(req.Embedding) < 64 || len(req.Embedding) > 1024 {
		return user.ErrInvalidEnrollment
	}

	return a.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := a.UserRepository.SetFaceEnrollment(ctx, p.ID, req.Embedding); err != nil {
			return fmt.Errorf("failed to store face enrollment: %w", err)
		}

		return a.AuditRepository.Append(ctx, audit.Entry{
			ActorID:    p.ID,
			Action:     audit.ActionEnrollFace,
			TargetType: audit.TargetUser,
			TargetID:   p.ID,
			Metadata: map[string]interface{}{
				"dimensions": len(req.Embedding),
			},
			At: a.now().UTC(),
		})
	})
}

// DeleteBiometricData implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) DeleteBiometricData(ctx context.Context, p user.Principal) error {
	if err := user.RequireRole(p, user.RoleEmployee, user.RoleManager, user.RoleAdmin); err != nil {
		return err
	}

	return a.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := a.UserRepository.ClearFaceEnrollment(ctx, p.ID); err != nil {
			return fmt.Errorf("failed to clear face enrollment: %w", err)
		}

		return a.AuditRepository.Append(ctx, audit.Entry{
			ActorID:    p.ID,
			Action:     audit.ActionDeleteBiometric,
			TargetType: audit.TargetUser,
			TargetID:   p.ID,
			At:         a.now().UTC(),
		})
	})
}

// GetHistory implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetHistory(ctx context.Context, p user.Principal, filter attendance.HistoryFilter) ([]attendance.SessionResponse, error) {
	if err := user.RequireRole(p, user.RoleEmployee, user.RoleManager, user.RoleAdmin); err != nil {
		return nil, err
	}

	targetUserID := p.ID
	if filter.UserID != nil && *filter.UserID != p.ID {
		if !p.IsManagerial() {
			return nil, user.ErrForbidden
		}
		targetUserID = *filter.UserID
	}

	if filter.Limit <= 0 || filter.Limit > attendance.MaxHistoryLimit {
		filter.Limit = attendance.MaxHistoryLimit
	}

	sessions, err := a.SessionRepository.ListByUser(ctx, targetUserID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	responses := make([]attendance.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		responses = append(responses, attendance.ToSessionResponse(s))
	}

	return responses, nil
}
