package app

import (
	"database/sql"

	"go-staffing/internal/assignment"
	"go-staffing/internal/audit"
	"go-staffing/internal/authz"
	"go-staffing/internal/directory"
	"go-staffing/internal/middleware"
	"go-staffing/internal/schedule"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	auditRepo audit.Repository,
	recorder audit.Recorder,
) error {
	// --- Repositories ---
	directoryRepo := directory.NewRepository(gormDB)
	scheduleRepo := schedule.NewRepository(gormDB)
	assignmentRepo := assignment.NewRepository(gormDB)

	// --- Authorization ---
	gate, err := authz.NewGate()
	if err != nil {
		return err
	}
	guard := authz.NewGuard(gate, recorder)

	// --- Services ---
	scheduleService := schedule.NewService(db, scheduleRepo, directoryRepo, recorder)
	assignmentService := assignment.NewService(db, assignmentRepo, directoryRepo, recorder)

	// --- Handlers ---
	scheduleHandler := schedule.NewHandler(scheduleService)
	assignmentHandler := assignment.NewHandler(assignmentService)
	auditHandler := audit.NewHandler(auditRepo)

	// --- Routes Registration ---
	// Auth runs first: the context logger tags every request-scoped log line
	// with the authenticated actor id.
	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware())
	api.Use(middleware.ContextLogger(zap.L()))
	{
		schedule.RegisterRoutes(api, scheduleHandler, guard, rdb)
		assignment.RegisterRoutes(api, assignmentHandler, guard, rdb)
		audit.RegisterRoutes(api, auditHandler, guard("audit", "read"))
	}

	return nil
}
