package schedule

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
	schedules := r.Group("/schedules")
	{
		schedules.GET("", guard("schedule", "read"), handler.GetAll)
		schedules.GET("/:id", guard("schedule", "read"), handler.GetById)
		schedules.POST("",
			guard("schedule", "create"),
			middleware.RateLimitByActor(2, 5),
			middleware.Idempotency(rdb),
			handler.Create,
		)
		schedules.PUT("/:id",
			guard("schedule", "update"),
			middleware.RateLimitByActor(3, 10),
			handler.Update,
		)
		schedules.POST("/:id/confirm", guard("schedule", "transition"), handler.Confirm)
		schedules.POST("/:id/activate", guard("schedule", "transition"), handler.Activate)
		schedules.POST("/:id/complete", guard("schedule", "transition"), handler.Complete)
		schedules.POST("/:id/cancel", guard("schedule", "transition"), handler.Cancel)
		// Conflict probing hits the overlap query directly, keep it throttled.
		schedules.POST("/conflicts",
			guard("schedule", "read"),
			middleware.RateLimitByActor(5, 20),
			handler.Conflicts,
		)
	}

	r.GET("/employees/:id/schedules", guard("schedule", "read"), handler.EmployeeCalendar)
}
