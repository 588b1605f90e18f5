package middleware

import (
	"errors"
	"time"

	"catalogo/internal/errs"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// RequestIDKey is the Locals key the requestid middleware stores the id under.
const RequestIDKey = "requestid"

// RequestID returns the id assigned to the current request, if any.
func RequestID(c *fiber.Ctx) string {
	rid, _ := c.Locals(RequestIDKey).(string)
	return rid
}

// RequestLogger logs one line per request. The level follows the final
// status: 5xx error, 4xx warn, anything else info.
func RequestLogger(logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()

		// The error handler has not written the response yet when a handler
		// returns an error, so derive the status from the error itself.
		status := c.Response().StatusCode()
		if chainErr != nil {
			status = statusFromError(chainErr)
		}

		var e *zerolog.Event
		switch {
		case status >= fiber.StatusInternalServerError:
			e = logger.Error().Err(chainErr)
		case status >= fiber.StatusBadRequest:
			e = logger.Warn()
		default:
			e = logger.Info()
		}

		if rid := RequestID(c); rid != "" {
			e = e.Str("request_id", rid)
		}
		e.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP()).
			Msg("API")

		return chainErr
	}
}

func statusFromError(err error) int {
	var validationErr *errs.ValidationError
	var httpErr *errs.HTTPError
	var fiberErr *fiber.Error

	switch {
	case errors.As(err, &validationErr):
		return fiber.StatusBadRequest
	case errors.As(err, &httpErr):
		return httpErr.Status
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	default:
		return fiber.StatusInternalServerError
	}
}
