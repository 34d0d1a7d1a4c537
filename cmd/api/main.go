package main

import (
	"fmt"
	"net/http"

	"github.com/clockwise-hr/timeclock-backend-go/internal/config"
	appHTTP "github.com/clockwise-hr/timeclock-backend-go/internal/handler/http"
	"github.com/clockwise-hr/timeclock-backend-go/internal/pkg/database"
	"github.com/clockwise-hr/timeclock-backend-go/internal/pkg/jwt"
	"github.com/clockwise-hr/timeclock-backend-go/internal/repository/postgresql"
	attendanceService "github.com/clockwise-hr/timeclock-backend-go/internal/service/attendance"
	authService "github.com/clockwise-hr/timeclock-backend-go/internal/service/auth"
	"github.com/clockwise-hr/timeclock-backend-go/internal/service/face"
	"github.com/clockwise-hr/timeclock-backend-go/internal/service/geofence"
	leaveService "github.com/clockwise-hr/timeclock-backend-go/internal/service/leave"
	userService "github.com/clockwise-hr/timeclock-backend-go/internal/service/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	txm := postgresql.NewTxManager(db)
	userRepo := postgresql.NewUserRepository(db)
	sessionRepo := postgresql.NewSessionRepository(db)
	timeEntryRepo := postgresql.NewTimeEntryRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	auditRepo := postgresql.NewAuditRepository(db)
	reportRepo := postgresql.NewReportRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	matcher := face.NewMatcher()
	evaluator := geofence.NewEvaluator(cfg.Attendance.Geofences)

	authSvc := authService.NewAuthService(userRepo, JWTService)
	attendanceSvc := attendanceService.NewAttendanceService(
		txm,
		sessionRepo,
		timeEntryRepo,
		userRepo,
		auditRepo,
		matcher,
		evaluator,
	)
	leaveSvc := leaveService.NewLeaveService(
		txm,
		leaveRequestRepo,
		leaveBalanceRepo,
		auditRepo,
		cfg.Leave.DefaultAccrualDays,
	)
	userSvc := userService.NewUserService(txm, userRepo, auditRepo)

	authHandler := appHTTP.NewAuthHandler(authSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc)
	userHandler := appHTTP.NewUserHandler(userSvc)
	reportHandler := appHTTP.NewReportHandler(reportRepo)
	auditHandler := appHTTP.NewAuditHandler(auditRepo)

	router := appHTTP.NewRouter(
		JWTService,
		authHandler,
		attendanceHandler,
		leaveHandler,
		userHandler,
		reportHandler,
		auditHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
