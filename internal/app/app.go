package app

import (
	"os"

	"go-staffing/internal/audit"
	"go-staffing/internal/messaging/kafka"
	"go-staffing/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp wires infrastructure and every module behind the router, then
// returns the audit recorder so the server can log its own lifecycle events.
func BuildApp(router *gin.Engine) (audit.Recorder, error) {
	logger := zap.L().Named("app")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	if err := Migrate(gormDB); err != nil {
		return nil, err
	}
	logger.Info("migrations applied")

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	rdb, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return nil, err
	}
	logger.Info("redis connection established")

	auditRepo := audit.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(sqlDB)
	recorder := audit.NewRecorder(auditRepo, outboxRepo)

	if err := registerModules(router, sqlDB, gormDB, rdb, auditRepo, recorder); err != nil {
		return nil, err
	}

	return recorder, nil
}
