package middleware

import (
	"strconv"
	"time"

	"memberhub/internal/pkg/logger"
	"memberhub/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
)

// RequestMetrics records Prometheus metrics and logs every request. Errors
// are rendered here so the recorded status is the one the client sees.
func RequestMetrics(m *metrics.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		m.HTTPRequestsInFlight.Inc()
		defer m.HTTPRequestsInFlight.Dec()

		start := time.Now()

		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		duration := time.Since(start)
		status := c.Response().StatusCode()

		// Route pattern keeps label cardinality bounded
		route := c.Route().Path
		if route == "" || (route == "/" && c.Path() != "/") {
			route = "unmatched"
		}

		m.HTTPRequestsTotal.WithLabelValues(route, c.Method(), strconv.Itoa(status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(route, c.Method()).Observe(duration.Seconds())

		fields := []interface{}{
			"requestId", c.Locals("requestid"),
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latencyMs", duration.Milliseconds(),
			"ip", c.IP(),
		}
		switch {
		case status >= fiber.StatusInternalServerError:
			logger.Error("HTTP request completed", fields...)
		case status >= fiber.StatusBadRequest:
			logger.Warn("HTTP request completed", fields...)
		default:
			logger.Info("HTTP request completed", fields...)
		}

		return nil
	}
}
