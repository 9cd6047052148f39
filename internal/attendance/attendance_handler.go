package attendance

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"crewdeck/internal/location"
	"crewdeck/internal/shared/apperror"
	"crewdeck/internal/shared/response"
)

type Handler struct {
	service Service
	rdb     *redis.Client
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func NewHandlerWithRedis(service Service, rdb *redis.Client) *Handler {
	return &Handler{service: service, rdb: rdb}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) CheckIn(c *gin.Context) {
	lockKey, _ := c.Get("idempotency_lock_key")
	cacheKey, _ := c.Get("idempotency_cache_key")

	if h.rdb != nil {
		if lk, ok := lockKey.(string); ok && lk != "" {
			defer h.rdb.Del(c.Request.Context(), lk)
		}
	}

	groupID := c.GetString("group_id")
	memberID := c.GetString("member_id")
	scheduleID := c.Param("id")

	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.CheckIn(c.Request.Context(), groupID, scheduleID, memberID, location.FromCoords(req.Latitude, req.Longitude))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if h.rdb != nil {
		if ck, ok := cacheKey.(string); ok && ck != "" {
			if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
				_ = h.rdb.Set(c.Request.Context(), ck, payload, 24*time.Hour).Err()
			}
		}
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) CheckOut(c *gin.Context) {
	groupID := c.GetString("group_id")
	memberID := c.GetString("member_id")
	scheduleID := c.Param("id")

	var req CheckOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.CheckOut(c.Request.Context(), groupID, scheduleID, memberID, location.FromCoords(req.Latitude, req.Longitude))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) SetStatus(c *gin.Context) {
	groupID := c.GetString("group_id")
	scheduleID := c.Param("id")

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.SetStatus(c.Request.Context(), groupID, scheduleID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) BulkSetStatus(c *gin.Context) {
	groupID := c.GetString("group_id")
	scheduleID := c.Param("id")

	var req BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.BulkSetStatus(c.Request.Context(), groupID, scheduleID, req.Status)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) SubmitExcuse(c *gin.Context) {
	groupID := c.GetString("group_id")
	memberID := c.GetString("member_id")
	scheduleID := c.Param("id")

	var req SubmitExcuseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.SubmitExcuse(c.Request.Context(), groupID, scheduleID, memberID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ReviewExcuse(c *gin.Context) {
	groupID := c.GetString("group_id")
	scheduleID := c.Param("id")

	var req ReviewExcuseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.ReviewExcuse(c.Request.Context(), groupID, scheduleID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetBySchedule(c *gin.Context) {
	groupID := c.GetString("group_id")
	scheduleID := c.Param("id")

	resp, err := h.service.GetBySchedule(c.Request.Context(), groupID, scheduleID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetMemberStats(c *gin.Context) {
	groupID := c.GetString("group_id")

	var from, to *string
	if v := c.Query("from"); v != "" {
		from = &v
	}
	if v := c.Query("to"); v != "" {
		to = &v
	}

	resp, err := h.service.GetMemberStats(c.Request.Context(), groupID, from, to)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
