package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/medirota/roster-backend-go/internal/config"
	appHTTP "github.com/medirota/roster-backend-go/internal/handler/http"
	"github.com/medirota/roster-backend-go/internal/pkg/cron"
	"github.com/medirota/roster-backend-go/internal/pkg/database"
	"github.com/medirota/roster-backend-go/internal/pkg/jwt"
	"github.com/medirota/roster-backend-go/internal/repository/postgresql"
	serviceAuth "github.com/medirota/roster-backend-go/internal/service/auth"
	calendarService "github.com/medirota/roster-backend-go/internal/service/calendar"
	leaveService "github.com/medirota/roster-backend-go/internal/service/leave"
	rosterService "github.com/medirota/roster-backend-go/internal/service/roster"
	staffService "github.com/medirota/roster-backend-go/internal/service/staff"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	userRepo := postgresql.NewUserRepository(db)
	clinicRepo := postgresql.NewClinicRepository(db)
	JWTRepository := postgresql.NewJWTRepository(db)
	staffRepo := postgresql.NewStaffRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	providerRosterRepo := postgresql.NewProviderRosterRepository(db)
	combinationRepo := postgresql.NewCombinationRepository(db)
	ratioRepo := postgresql.NewRatioRepository(db)
	dimensionRepo := postgresql.NewDimensionRepository(db)
	periodRepo := postgresql.NewPeriodRepository(db)
	assignmentRepo := postgresql.NewAssignmentRepository(db)
	issueRepo := postgresql.NewIssueRepository(db)
	fairnessRepo := postgresql.NewFairnessRepository(db)
	snapshotRepo := postgresql.NewSnapshotRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	authService := serviceAuth.NewAuthService(db, userRepo, clinicRepo, JWTService, JWTRepository)
	staffSvc := staffService.NewStaffService(staffRepo)
	leaveSvc := leaveService.NewLeaveService(leaveRepo, staffRepo, fairnessRepo)
	calendarSvc := calendarService.NewCalendarService(holidayRepo, providerRosterRepo, combinationRepo, ratioRepo, dimensionRepo)
	rosterSvc := rosterService.NewRosterService(
		db,
		rosterService.Options{
			BusinessDaysPerWeek: cfg.Scheduling.BusinessDaysPerWeek,
			BaselineMode:        rosterService.BaselineMode(cfg.Scheduling.BaselineMode),
		},
		periodRepo,
		assignmentRepo,
		issueRepo,
		fairnessRepo,
		snapshotRepo,
		staffRepo,
		leaveRepo,
		holidayRepo,
		providerRosterRepo,
		combinationRepo,
		ratioRepo,
		dimensionRepo,
	)

	authHandler := appHTTP.NewAuthHandler(authService, JWTService)
	staffHandler := appHTTP.NewStaffHandler(staffSvc)
	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc)
	calendarHandler := appHTTP.NewCalendarHandler(calendarSvc)
	rosterHandler := appHTTP.NewRosterHandler(rosterSvc)

	scheduler := cron.NewScheduler()
	rosterJobs := cron.NewRosterJobs(rosterSvc, time.Duration(cfg.Scheduling.AutoGenerateIntervalMinutes)*time.Minute)
	rosterJobs.RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		JWTService,
		authHandler,
		staffHandler,
		leaveHandler,
		calendarHandler,
		rosterHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
