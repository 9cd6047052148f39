package attendance

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"crewdeck/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rdb *redis.Client) {
	schedules := r.Group("/schedules/:id/attendance")
	schedules.Use(middleware.RequireActor())
	{
		schedules.GET("", h.GetBySchedule)
		schedules.POST("/check-in", middleware.Idempotency(rdb), h.CheckIn)
		schedules.POST("/check-out", h.CheckOut)
		schedules.PUT("/status", middleware.RequireOrganizer(), h.SetStatus)
		schedules.POST("/bulk", middleware.RequireOrganizer(), h.BulkSetStatus)
		schedules.POST("/excuse", h.SubmitExcuse)
		schedules.POST("/excuse/review", middleware.RequireOrganizer(), h.ReviewExcuse)
	}

	stats := r.Group("/attendance")
	stats.Use(middleware.RequireActor())
	{
		stats.GET("/stats", h.GetMemberStats)
	}
}
