package assignment

import (
	"go-staffing/internal/authz"
	"go-staffing/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	guard authz.Guard,
	rdb *redis.Client,
) {
	assignments := r.Group("/assignments")
	{
		assignments.GET("", guard("assignment", "read"), handler.GetAll)
		assignments.GET("/:id", guard("assignment", "read"), handler.GetById)
		assignments.POST("",
			guard("assignment", "create"),
			middleware.RateLimitByActor(2, 5),
			middleware.Idempotency(rdb),
			handler.Create,
		)
		assignments.PUT("/:id",
			guard("assignment", "update"),
			middleware.RateLimitByActor(3, 10),
			handler.Update,
		)
		assignments.POST("/:id/activate", guard("assignment", "transition"), handler.Activate)
		assignments.POST("/:id/pause", guard("assignment", "transition"), handler.Pause)
		assignments.POST("/:id/resume", guard("assignment", "transition"), handler.Resume)
		assignments.POST("/:id/complete", guard("assignment", "transition"), handler.Complete)
		assignments.POST("/:id/cancel", guard("assignment", "transition"), handler.Cancel)
		assignments.DELETE("/:id",
			guard("assignment", "delete"),
			middleware.RateLimitByActor(0.1, 1),
			handler.Delete,
		)
	}
}
