package audit

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the read-only ledger endpoint. The guard middleware is
// built by the composition root (this package cannot import authz, which
// depends on the recorder).
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, guard gin.HandlerFunc) {
	records := r.Group("/audit-records")
	records.Use(guard)
	{
		records.GET("", handler.List)
	}
}
