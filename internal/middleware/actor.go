package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"crewdeck/internal/shared/contextutil"
	"crewdeck/internal/shared/response"
)

const RoleOrganizer = "organizer"

// RequireActor reads the identity headers set by the gateway in front of
// this service. Every attendance route needs to know which group the call
// is scoped to and which member is acting.
func RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		groupID := strings.TrimSpace(c.GetHeader("X-Group-ID"))
		memberID := strings.TrimSpace(c.GetHeader("X-Member-ID"))
		role := strings.ToLower(strings.TrimSpace(c.GetHeader("X-Role")))

		if groupID == "" || memberID == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing actor identity", nil)
			c.Abort()
			return
		}
		if _, err := uuid.Parse(groupID); err != nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_ACTOR", "group id is not a valid uuid", nil)
			c.Abort()
			return
		}
		if _, err := uuid.Parse(memberID); err != nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_ACTOR", "member id is not a valid uuid", nil)
			c.Abort()
			return
		}

		c.Set("group_id", groupID)
		c.Set("member_id", memberID)
		c.Set("role", role)

		ctx := contextutil.WithActorID(c.Request.Context(), memberID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireOrganizer gates administrative transitions. Must run after
// RequireActor.
func RequireOrganizer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != RoleOrganizer {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "organizer role required", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
