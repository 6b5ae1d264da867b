package utils

import (
	"errors"
	"fmt"
	"strconv"

	"marketing-crm/logger"
	"marketing-crm/types"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SendError writes err as an ApiResponse using the status of its kind.
// Errors that are not *types.AppError are logged and reported as internal.
func SendError(c *fiber.Ctx, err error) error {
	appErr := types.AsAppError(err)
	status := appErr.HTTPStatus()

	if appErr.Kind == types.KindInternal {
		logger.Error(c.Method()+" "+c.Path()+" failed", err)
	}

	retryAfter := appErr.RetryAfterSeconds()
	if retryAfter > 0 {
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
	}

	return c.Status(status).JSON(types.ApiResponse{
		Success:    false,
		Message:    appErr.Message,
		Status:     status,
		Kind:       appErr.Kind,
		RetryAfter: retryAfter,
	})
}

// SendSuccess writes a successful ApiResponse carrying data.
func SendSuccess(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(types.ApiResponse{
		Success: true,
		Message: message,
		Status:  status,
		Data:    data,
	})
}

// ParseBody decodes the request body into req and runs struct validation.
func ParseBody(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return types.WrapError(types.KindInvalidFormat, "Invalid request body", err)
	}
	return ValidateStruct(req)
}

// TranslateDBError maps gorm's not-found and duplicate-key errors to
// NotFound and Conflict app errors; anything else is wrapped as internal.
func TranslateDBError(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return types.NewError(types.KindNotFound, resource+" not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return types.WrapError(types.KindConflict, resource+" already exists", err)
	default:
		return fmt.Errorf("%s query failed: %w", resource, err)
	}
}
