package schedule

import (
	"github.com/gin-gonic/gin"

	"crewdeck/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	schedules := r.Group("/schedules")
	schedules.Use(middleware.RequireActor())
	{
		schedules.GET("", h.GetAll)
		schedules.GET("/:id", h.GetByID)
		schedules.POST("", middleware.RequireOrganizer(), h.Create)
		schedules.PATCH("/:id", middleware.RequireOrganizer(), h.Update)
	}
}
