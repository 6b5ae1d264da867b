package server

import (
	"context"
	"time"

	"marketing-crm/logger"
	"marketing-crm/types"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// HealthController reports whether the backing stores are reachable.
type HealthController struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewHealthController takes a nil redis client when redis is not configured.
func NewHealthController(db *gorm.DB, redisClient *redis.Client) *HealthController {
	return &HealthController{db: db, redis: redisClient}
}

func (h *HealthController) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	checks := fiber.Map{"database": "ok"}
	healthy := true

	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		logger.Error("Health check: database unreachable", err)
		checks["database"] = "unreachable"
		healthy = false
	}

	if h.redis != nil {
		checks["redis"] = "ok"
		if err := h.redis.Ping(ctx).Err(); err != nil {
			logger.Error("Health check: redis unreachable", err)
			checks["redis"] = "unreachable"
			healthy = false
		}
	}

	status := fiber.StatusOK
	message := "Service is healthy"
	if !healthy {
		status = fiber.StatusServiceUnavailable
		message = "Service is degraded"
	}
	return c.Status(status).JSON(types.ApiResponse{
		Success: healthy,
		Message: message,
		Status:  status,
		Data:    checks,
	})
}
