package middleware

import (
	"marketing-crm/logger"
	"marketing-crm/utils"

	"github.com/gofiber/fiber/v2"
)

// RequestLogger persists a sanitized copy of every request and response
// through the async logger.
func RequestLogger(asyncLogger *logger.AsyncLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		entry := utils.CreateSanitizedLogEntry(c)
		if principal := CurrentPrincipal(c); principal != nil {
			userID := principal.UserID
			entry.UserID = &userID
		}
		asyncLogger.Log(entry)

		return err
	}
}
