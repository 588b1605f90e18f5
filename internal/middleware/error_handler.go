package middleware

import (
	"errors"

	"catalogo/internal/errs"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// ErrorHandler renders every error a handler returns. Validation and HTTP
// errors keep their own shape; anything unexpected is logged and answered
// with a generic 500.
func ErrorHandler(logger zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var validationErr *errs.ValidationError
		if errors.As(err, &validationErr) {
			return c.Status(fiber.StatusBadRequest).JSON(validationErr)
		}

		var httpErr *errs.HTTPError
		if errors.As(err, &httpErr) {
			return c.Status(httpErr.Status).JSON(httpErr)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
		}

		logger.Error().Err(err).
			Str("request_id", RequestID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("unhandled error")
		internal := errs.NewInternalServerError()
		return c.Status(internal.Status).JSON(internal)
	}
}
