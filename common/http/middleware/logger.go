package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// AccessLog writes one entry per request at a level picked from the final
// status. Requests for which skip reports true are passed through silently.
func AccessLog(logger *logrus.Logger, skip func(*fiber.Ctx) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if skip != nil && skip(c) {
			return c.Next()
		}

		start := time.Now()
		// Render chain errors here so the logged status matches the response.
		if err := c.Next(); err != nil {
			if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		entry := logger.WithContext(c.UserContext()).WithFields(logrus.Fields{
			"method":      c.Method(),
			"route":       c.Route().Path,
			"path":        c.Path(),
			"status":      status,
			"role":        c.Get(HeaderRole),
			"request_id":  GetRequestID(c),
			"duration_ms": time.Since(start).Milliseconds(),
		})
		switch {
		case status >= fiber.StatusInternalServerError:
			entry.Error("Request failed")
		case status >= fiber.StatusBadRequest:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request served")
		}
		return nil
	}
}
