package authz

import (
	"fmt"
	"net/http"

	"go-staffing/internal/audit"
	"go-staffing/internal/middleware"
	"go-staffing/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// Guard builds the per-route authorization middleware; routes declare the
// resource/action pair they protect.
type Guard func(resource, action string) gin.HandlerFunc

func NewGuard(gate Gate, recorder audit.Recorder) Guard {
	return func(resource, action string) gin.HandlerFunc {
		return Authorize(gate, recorder, resource, action)
	}
}

// Authorize short-circuits before any persistence or conflict work. A denial
// is itself an auditable event (ACCESS_DENIED).
func Authorize(gate Gate, recorder audit.Recorder, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(middleware.KeyRole)
		actorID := c.GetString(middleware.KeyActorID)

		if role == "" || actorID == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing auth context", nil)
			c.Abort()
			return
		}

		allowed, err := gate.Authorize(role, resource, action)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
			c.Abort()
			return
		}

		if !allowed {
			recorder.RecordEvent(
				c.Request.Context(),
				actorID,
				audit.ActionAccessDenied,
				fmt.Sprintf("role %q denied %s:%s %s", role, resource, action, c.FullPath()),
			)
			response.Error(c, http.StatusForbidden, "FORBIDDEN",
				"You do not have permission to access this resource",
				gin.H{"required": resource + ":" + action},
			)
			c.Abort()
			return
		}

		c.Next()
	}
}
