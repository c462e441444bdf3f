package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/cmlabs-hris/shift-engine-go/internal/config"
	"github.com/cmlabs-hris/shift-engine-go/internal/domain/assignment"
	"github.com/cmlabs-hris/shift-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shift-engine-go/internal/domain/shift"
	appHTTP "github.com/cmlabs-hris/shift-engine-go/internal/handler/http"
	"github.com/cmlabs-hris/shift-engine-go/internal/pkg/cache"
	"github.com/cmlabs-hris/shift-engine-go/internal/pkg/cron"
	"github.com/cmlabs-hris/shift-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/shift-engine-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/shift-engine-go/internal/repository/memory"
	"github.com/cmlabs-hris/shift-engine-go/internal/repository/postgresql"
	assignmentService "github.com/cmlabs-hris/shift-engine-go/internal/service/assignment"
	attendanceService "github.com/cmlabs-hris/shift-engine-go/internal/service/attendance"
	shiftService "github.com/cmlabs-hris/shift-engine-go/internal/service/shift"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	var (
		templateRepo   shift.ShiftTemplateRepository
		assignmentRepo assignment.AssignmentRepository
		historyRepo    assignment.HistoryRepository
		attendanceRepo attendance.AttendanceRepository
	)

	switch cfg.Database.Driver {
	case "memory":
		templateRepo = memory.NewShiftTemplateRepository()
		assignmentRepo = memory.NewAssignmentRepository()
		historyRepo = memory.NewHistoryRepository()
		attendanceRepo = memory.NewAttendanceRepository()
	case "postgres":
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			log.Fatal("Failed to connect to database: ", err)
		}
		templateRepo = postgresql.NewShiftTemplateRepository(db)
		assignmentRepo = postgresql.NewAssignmentRepository(db)
		historyRepo = postgresql.NewHistoryRepository(db)
		attendanceRepo = postgresql.NewAttendanceRepository(db)
	default:
		log.Fatal("Unsupported database driver: ", cfg.Database.Driver)
	}

	var templateCache cache.Cache = cache.Noop{}
	if cfg.Redis.Addr != "" {
		redisCache, err := cache.NewRedisCache(
			cfg.Redis.Addr,
			cfg.Redis.Password,
			cfg.Redis.DB,
			time.Duration(cfg.Redis.TTLSec)*time.Second,
		)
		if err != nil {
			log.Fatal("Failed to connect to redis: ", err)
		}
		templateCache = redisCache
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	shiftSvc := shiftService.NewShiftTemplateService(templateRepo, assignmentRepo, templateCache)
	assignmentSvc := assignmentService.NewAssignmentService(assignmentRepo, historyRepo, templateRepo)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, shiftSvc, templateRepo, assignmentRepo)

	shiftHandler := appHTTP.NewShiftTemplateHandler(shiftSvc)
	assignmentHandler := appHTTP.NewAssignmentHandler(assignmentSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)

	scheduler := cron.NewScheduler()
	if cfg.App.ReconcileIntervalMin > 0 {
		scheduler.AddJob(
			"shift-history-reconciliation",
			time.Duration(cfg.App.ReconcileIntervalMin)*time.Minute,
			assignmentSvc.ReconcileHistories,
		)
	}
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(JWTService, shiftHandler, assignmentHandler, attendanceHandler)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Println("Server starting on", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal("Server error: ", err)
	}
}
