package serverutils

import (
	"errors"

	"ai-frontdesk-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts errors returned by controllers into
// JSON responses. Domain errors map to their HTTP status; anything else
// is a 500 without leaking internals.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err == nil {
			return nil
		}

		switch {
		case errors.Is(err, service.ErrRequestNotFound):
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse("help request not found"))
		case errors.Is(err, service.ErrAlreadyResolved):
			return c.Status(fiber.StatusConflict).JSON(ErrorResponse("help request already resolved"))
		case errors.Is(err, service.ErrInvalidCredentials):
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("invalid email or password"))
		case errors.Is(err, service.ErrEmptyQuestion):
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse("question must not be empty"))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("internal server error"))
	}
}
