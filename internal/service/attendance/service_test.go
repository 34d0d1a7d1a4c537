package attendance

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/clockwise-hr/timeclock-backend-go/internal/domain/attendance"
	"github.com/clockwise-hr/timeclock-backend-go/internal/domain/audit"
	"github.com/clockwise-hr/timeclock-backend-go/internal/domain/user"
	"github.com/clockwise-hr/timeclock-backend-go/internal/repository/memory"
	"github.com/clockwise-hr/timeclock-backend-go/internal/service/face"
	"github.com/clockwise-hr/timeclock-backend-go/internal/service/geofence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type attendanceFixture struct {
	svc       *AttendanceServiceImpl
	store     *memory.Store
	users     user.UserRepository
	sessions  attendance.SessionRepository
	entries   attendance.TimeEntryRepository
	auditRepo audit.AuditRepository
}

func newAttendanceFixture(t *testing.T) *attendanceFixture {
	t.Helper()

	store := memory.NewStore()
	userRepo := memory.NewUserRepository(store)
	sessionRepo := memory.NewSessionRepository(store)
	timeEntryRepo := memory.NewTimeEntryRepository(store)
	auditRepo := memory.NewAuditRepository(store)

	evaluator := geofence.NewEvaluator([]geofence.Region{
		{Name: "hq", Latitude: 0, Longitude: 0, RadiusMeters: 500},
	})

	svc := NewAttendanceService(
		memory.NewTxManager(store),
		sessionRepo,
		timeEntryRepo,
		userRepo,
		auditRepo,
		face.NewMatcher(),
		evaluator,
	).(*AttendanceServiceImpl)

	return &attendanceFixture{
		svc:       svc,
		store:     store,
		users:     userRepo,
		sessions:  sessionRepo,
		entries:   timeEntryRepo,
		auditRepo: auditRepo,
	}
}

func (f *attendanceFixture) createUser(t *testing.T, role user.Role) user.Principal {
	t.Helper()

	u, err := f.users.Create(context.Background(), user.User{
		Email:        string(role) + "@example.com",
		PasswordHash: "irrelevant",
		FullName:     "Test " + string(role),
		Role:         role,
		Status:       user.StatusActive,
	})
	require.NoError(t, err)

	return user.Principal{ID: u.ID, Role: role}
}

func makeEmbedding(n int, fill float64) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = fill
	}
	return v
}

func webClockIn() attendance.ClockInRequest {
	return attendance.ClockInRequest{Method: "web"}
}

func TestClockIn_OpensSession(t *testing.T) {
	ctx := context.Background()
	f := newAttendanceFixture(t)
	p := f.createUser(t, user.RoleEmployee)

	resp, err := f.svc.ClockIn(ctx, p, webClockIn())
	require.NoError(t, err)
	require.NotEmpty(t, resp.SessionID)

	open, err := f.sessions.GetOpenByUser(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.SessionID, open.ID)
	assert.True(t, open.IsOpen())

	entries, err := f.auditRepo.ListByTarget(ctx, audit.TargetSession, resp.SessionID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionClockIn, entries[0].Action)
	assert.Equal(t, p.ID, entries[0].ActorID)
}

func TestClockIn_SecondOpenSessionRejected(t *testing.T) {
	ctx := context.Background()
	f := newAttendanceFixture(t)
	p := f.createUser(t, user.RoleEmployee)

	_, err := f.svc.ClockIn(ctx, p, webClockIn())
	require.NoError(t, err)

	_, err = f.svc.ClockIn(ctx, p, webClockIn())
	assert.ErrorIs(t, err, attendance.ErrActiveSessionExists)
}

func TestClockIn_ConcurrentSingleWinner(t *testing.T) {
	ctx := context.Background()
	f := newAttendanceFixture(t)
	p := f.createUser(t, user.RoleEmployee)

	const attempts = 8
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.ClockIn(ctx, p, webClockIn())
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, attendance.ErrActiveSessionExists)
		}
	}
	assert.Equal(t, 1, successes)
}

func TestClockIn_UnauthenticatedAndInvalidMethod(t *testing.T) {
	ctx := context.Background()
	f := newAttendanceFixture(t)

	_, err := f.svc.ClockIn(ctx, user.Principal{}, webClockIn())
	assert.ErrorIs(t, err, user.ErrUnauthenticated)

	p := f.createUser(t, user.RoleEmployee)
	req := webClockIn()
	req.Method = "carrier-pigeon"
	_, err = f.svc.ClockIn(ctx, p, req)
	assert.Error(t, err)
}

func TestClockIn_FaceMatchRecordsScore(t *testing.T) {
	ctx := context.Background()
	f := newAttendanceFixture(t)
	p := f.createUser(t, user.RoleEmployee)

	enrolled := makeEmbedding(64, 0.5)
	require.NoError(t, f.users.SetFaceEnrollment(ctx, p.ID, enrolled))

	req := webClockIn()
	req.Verification.FaceEmbedding = makeEmbedding(64, 0.5)

	resp, err := f.svc.ClockIn(ctx, p, req)
	require.NoError(t, err)

	s, err := f.sessions.GetByID(ctx, resp.SessionID)
	require.NoError(t, err)
	require.NotNil(t, s.FaceScore)
	require.NotNil(t, s.FacePass)
	assert.InDelta(t, 1.0, *s.FaceScore, 1e-9)
	assert.True(t, *s.FacePass)
}

func TestClockIn_FaceMismatchRejected(t *testing.T) {
	ctx := context.Background()
	f := newAttendanceFixture(t)
	p := f.createUser(t, user.RoleEmployee)

	enrolled := makeEmbedding(64, 0.5)
	require.NoError(t, f.users.SetFaceEnrollment(ctx, p.ID, enrolled))

	// Orthogonal-ish live vector: first half zeros, second half nonzero
	// against a uniform enrollment scores well below the threshold.
	live := make([]float64, 64)
	live[0] = 1

	req := webClockIn()
	req.Verification.FaceEmbedding = live

	_, err := f.svc.ClockIn(ctx, p, req)
	assert.ErrorIs(t, err, attendance.ErrFaceVerificationFailed)

	// No session was opened.
	_, err = f.sessions.GetOpenByUser(ctx, p.ID)
	assert.ErrorIs(t, err, attendance.ErrNoActiveSession)
}

func TestClockIn_UnenrolledSkipsFaceCheck(t *testing.T) {
	ctx := context.Background()
	f := newAttendanceFixture(t)
	p := f.createUser(t, user.RoleEmployee)

	req := webClockIn()
	req.Verification.FaceEmbedding = makeEmbedding(64, 0.5)

	resp, err := f.svc.ClockIn(ctx, p, req)
	require.NoError(t, err)

	s, err := f.sessions.GetByID(ctx, resp.SessionID)
	require.NoError(t, err)
	assert.Nil(t, s.FaceScore)
	assert.Nil(t, s.FacePass)
}

func TestClockIn_GeofenceTagging(t *testing.T) {
	ctx := context.Background()
	f := newAttendanceFixture(t)
	p := f.createUser(t, user.RoleEmployee)

	lat, lon := 0.0, 0.0
	req := webClockIn()
	req.Verification.GeoLat = &lat
	req.Verification.GeoLon = &lon

	resp, err := f.svc.ClockIn(ctx, p, req)
	require.NoError(t, err)

	s, err := f.sessions.GetByID(ctx, resp.SessionID)
	require.NoError(t, err)
	require.NotNil(t, s.InOffice)
	assert.True(t, *s.InOffice)
	require.NotNil(t, s.GeoRegion)
	assert.Equal(t, "hq", *s.GeoRegion)
}

func TestClockIn_RemoteCoordinates(t *testing.T) {
	ctx := context.Background()
	f := newAttendanceFixture(t)
	p := f.createUser(t, user.RoleEmployee)

	lat, lon := 45.0, 45.0
	req := webClockIn()
	req.Verification.GeoLat = &lat
	req.Verification.GeoLon = &lon

	resp, err := f.svc.ClockIn(ctx, p, req)
	require.NoError(t, err)

	s, err := f.sessions.GetByID(ctx, resp.SessionID)
	require.NoError(t, err)
	require.NotNil(t, s.InOffice)
	assert.False(t, *s.InOffice)
	assert.Nil(t, s.GeoRegion)
}

func TestClockOut_ComputesDuration(t *testing.T) {
	ctx := context.Background()
	f := newAttendanceFixture(t)
	p := f.createUser(t, user.RoleEmployee)

	t0 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return t0 }

	in, err := f.svc.ClockIn(ctx, p, webClockIn())
	require.NoError(t, err)

	// 1h 1m 1.9s later; fractional seconds floor away.
	f.svc.now = func() time.Time { return t0.Add(time.Hour + time.Minute + 1900*time.Millisecond) }

	out, err := f.svc.ClockOut(ctx, p, attendance.ClockOutRequest{})
	require.NoError(t, err)
	assert.Equal(t, in.SessionID, out.SessionID)
	assert.Equal(t, int64(3661), out.DurationSec)
	assert.Equal(t, "1h 1m 1s", out.DurationFormatted)
}

func TestClockOut_NoActiveSession(t *testing.T) {
	ctx := context.Background()
	f := newAttendanceFixture(t)
	p := f.createUser(t, user.RoleEmployee)

	_, err := f.svc.ClockOut(ctx, p, attendance.ClockOutRequest{})
	assert.ErrorIs(t, err, attendance.ErrNoActiveSession)
}

func TestClockOut_AlreadyClosed(t *testing.T) {
	ctx := context.Background()
	f := newAttendanceFixture(t)
	p := f.createUser(t, user.RoleEmployee)

	in, err := f.svc.ClockIn(ctx, p, webClockIn())
	require.NoError(t, err)

	_, err = f.svc.ClockOut(ctx, p, attendance.ClockOutRequest{SessionID: &in.SessionID})
	require.NoError(t, err)

	_, err = f.svc.ClockOut(ctx, p, attendance.ClockOutRequest{SessionID: &in.SessionID})
	assert.ErrorIs(t, err, attendance.ErrAlreadyClosed)
}

func TestClockOut_OtherUsersSessionForbidden(t *testing.T) {
	ctx := context.Background()
	f := newAttendanceFixture(t)
	owner := f.createUser(t, user.RoleEmployee)
	other := f.createUser(t, user.RoleManager)
	other.Role = user.RoleEmployee // same store, downgraded principal

	in, err := f.svc.ClockIn(ctx, owner, webClockIn())
	require.NoError(t, err)

	_, err = f.svc.ClockOut(ctx, other, attendance.ClockOutRequest{SessionID: &in.SessionID})
	assert.ErrorIs(t, err, user.ErrForbidden)
}

func TestClockOut_ProjectWorkCreatesTimeEntry(t *testing.T) {
	ctx := context.Background()
	f := newAttendanceFixture(t)
	p := f.createUser(t, user.RoleEmployee)

	t0 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return t0 }

	projectID := "apollo"
	req := webClockIn()
	req.ProjectID = &projectID

	in, err := f.svc.ClockIn(ctx, p, req)
	require.NoError(t, err)

	f.svc.now = func() time.Time { return t0.Add(2 * time.Hour) }
	_, err = f.svc.ClockOut(ctx, p, attendance.ClockOutRequest{})
	require.NoError(t, err)

	entries, err := f.entries.ListByUser(ctx, p.ID, t0.Add(-time.Hour), t0.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, in.SessionID, entries[0].SessionID)
	assert.Equal(t, &projectID, entries[0].ProjectID)
	assert.Equal(t, int64(7200), entries[0].DurationSec)
}

func TestClockOut_NoProjectNoTimeEntry(t *testing.T) {
	ctx := context.Background()
	f := newAttendanceFixture(t)
	p := f.createUser(t, user.RoleEmployee)

	_, err := f.svc.ClockIn(ctx, p, webClockIn())
	require.NoError(t, err)
	_, err = f.svc.ClockOut(ctx, p, attendance.ClockOutRequest{})
	require.NoError(t, err)

	now := time.Now()
	entries, err := f.entries.ListByUser(ctx, p.ID, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAdminFixClockOut(t *testing.T) {
	ctx := context.Background()
	f := newAttendanceFixture(t)
	employee := f.createUser(t, user.RoleEmployee)
	manager := f.createUser(t, user.RoleManager)

	t0 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return t0 }

	in, err := f.svc.ClockIn(ctx, employee, webClockIn())
	require.NoError(t, err)

	// Employees cannot fix sessions.
	err = f.svc.AdminFixClockOut(ctx, employee, attendance.AdminFixClockOutRequest{
		SessionID:  in.SessionID,
		ClockOutAt: t0.Add(8 * time.Hour),
	})
	assert.ErrorIs(t, err, user.ErrForbidden)

	// Clock-out before clock-in is rejected.
	err = f.svc.AdminFixClockOut(ctx, manager, attendance.AdminFixClockOutRequest{
		SessionID:  in.SessionID,
		ClockOutAt: t0.Add(-time.Hour),
	})
	assert.ErrorIs(t, err, attendance.ErrInvalidClockOutTime)

	err = f.svc.AdminFixClockOut(ctx, manager, attendance.AdminFixClockOutRequest{
		SessionID:  in.SessionID,
		ClockOutAt: t0.Add(8 * time.Hour),
	})
	require.NoError(t, err)

	s, err := f.sessions.GetByID(ctx, in.SessionID)
	require.NoError(t, err)
	require.NotNil(t, s.ClosedByAdminID)
	assert.Equal(t, manager.ID, *s.ClosedByAdminID)
	require.NotNil(t, s.DurationSec)
	assert.Equal(t, int64(8*3600), *s.DurationSec)

	// Fixing twice fails.
	err = f.svc.AdminFixClockOut(ctx, manager, attendance.AdminFixClockOutRequest{
		SessionID:  in.SessionID,
		ClockOutAt: t0.Add(9 * time.Hour),
	})
	assert.ErrorIs(t, err, attendance.ErrAlreadyClosed)
}

func TestEnrollFace_Validation(t *testing.T) {
	ctx := context.Background()
	f := newAttendanceFixture(t)
	p := f.createUser(t, user.RoleEmployee)

	// No consent.
	err := f.svc.EnrollFace(ctx, p, attendance.EnrollFaceRequest{
		Embedding: makeEmbedding(128, 0.1),
		Consent:   false,
	})
	assert.ErrorIs(t, err, user.ErrInvalidEnrollment)

	// Too short.
	err = f.svc.EnrollFace(ctx, p, attendance.EnrollFaceRequest{
		Embedding: makeEmbedding(63, 0.1),
		Consent:   true,
	})
	assert.ErrorIs(t, err, user.ErrInvalidEnrollment)

	// Too long.
	err = f.svc.EnrollFace(ctx, p, attendance.EnrollFaceRequest{
		Embedding: makeEmbedding(1025, 0.1),
		Consent:   true,
	})
	assert.ErrorIs(t, err, user.ErrInvalidEnrollment)

	err = f.svc.EnrollFace(ctx, p, attendance.EnrollFaceRequest{
		Embedding: makeEmbedding(128, 0.1),
		Consent:   true,
	})
	require.NoError(t, err)

	u, err := f.users.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, u.FaceEmbedding, 128)
	assert.NotNil(t, u.FaceConsentAt)
}

func TestDeleteBiometricData(t *testing.T) {
	ctx := context.Background()
	f := newAttendanceFixture(t)
	p := f.createUser(t, user.RoleEmployee)

	require.NoError(t, f.svc.EnrollFace(ctx, p, attendance.EnrollFaceRequest{
		Embedding: makeEmbedding(64, 0.2),
		Consent:   true,
	}))

	require.NoError(t, f.svc.DeleteBiometricData(ctx, p))

	u, err := f.users.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, u.FaceEmbedding)
	assert.Nil(t, u.FaceConsentAt)

	entries, err := f.auditRepo.ListByTarget(ctx, audit.TargetUser, p.ID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, audit.ActionDeleteBiometric, entries[0].Action)
}

func TestGetHistory_RoleGate(t *testing.T) {
	ctx := context.Background()
	f := newAttendanceFixture(t)
	employee := f.createUser(t, user.RoleEmployee)
	manager := f.createUser(t, user.RoleManager)

	_, err := f.svc.ClockIn(ctx, employee, webClockIn())
	require.NoError(t, err)

	// Employee sees own history without a filter.
	own, err := f.svc.GetHistory(ctx, employee, attendance.HistoryFilter{})
	require.NoError(t, err)
	assert.Len(t, own, 1)

	// Employee cannot read another user's history.
	demoted := user.Principal{ID: manager.ID, Role: user.RoleEmployee}
	_, err = f.svc.GetHistory(ctx, demoted, attendance.HistoryFilter{UserID: &employee.ID})
	assert.ErrorIs(t, err, user.ErrForbidden)

	// Manager can.
	theirs, err := f.svc.GetHistory(ctx, manager, attendance.HistoryFilter{UserID: &employee.ID})
	require.NoError(t, err)
	assert.Len(t, theirs, 1)
}
