package member

import (
	"github.com/gin-gonic/gin"

	"crewdeck/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	members := r.Group("/members")
	members.Use(middleware.RequireActor())
	{
		members.GET("", h.GetAll)
	}
}
