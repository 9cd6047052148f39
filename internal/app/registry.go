package app

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"crewdeck/internal/attendance"
	"crewdeck/internal/member"
	"crewdeck/internal/messaging/kafka"
	"crewdeck/internal/middleware"
	"crewdeck/internal/schedule"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	attendanceRepo := attendance.NewRepository(gormDB)
	memberRepo := member.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	scheduleRepo := schedule.NewRepository(gormDB)

	// --- Services ---
	attendanceService := attendance.NewServiceWithOutbox(db, attendanceRepo, scheduleRepo, memberRepo, outboxRepo, rdb)
	memberService := member.NewService(memberRepo)
	scheduleService := schedule.NewService(scheduleRepo)

	// --- Handlers ---
	attendanceHandler := attendance.NewHandlerWithRedis(attendanceService, rdb)
	memberHandler := member.NewHandler(memberService)
	scheduleHandler := schedule.NewHandler(scheduleService)

	// --- Routes Registration ---
	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitByIP(rate.Limit(50), 100))

	api := router.Group("/api/v1")
	{
		attendance.RegisterRoutes(api, attendanceHandler, rdb)
		member.RegisterRoutes(api, memberHandler)
		schedule.RegisterRoutes(api, scheduleHandler)
	}

	return nil
}
