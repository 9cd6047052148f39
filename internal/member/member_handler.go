package member

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crewdeck/internal/shared/apperror"
	"crewdeck/internal/shared/response"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetAll(c *gin.Context) {
	groupID := c.GetString("group_id")

	resp, err := h.service.GetAll(c.Request.Context(), groupID)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
