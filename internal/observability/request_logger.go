package observability

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader carries the request id in and out.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// RequestLogger logs one line per request and records request metrics.
// An inbound X-Request-ID is reused, otherwise a new one is generated.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *fiber.Ctx) error {
		start := time.Now()

		reqID := c.Get(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Locals(requestIDKey, reqID)
		c.Set(RequestIDHeader, reqID)

		err := c.Next()

		status := c.Response().StatusCode()
		duration := time.Since(start)
		metrics.RecordRequest(RouteKey(c), c.Method(), status, duration)

		fields := []zap.Field{
			zap.String("req_id", reqID),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Int64("duration_ms", duration.Milliseconds()),
			zap.String("ip", c.IP()),
		}
		if status >= fiber.StatusInternalServerError {
			logger.Warn("http_request", fields...)
		} else {
			logger.Info("http_request", fields...)
		}
		return err
	}
}

// UnmatchedRoute is the metric key for requests no route handled.
const UnmatchedRoute = "unmatched"

// RouteKey is the route template the request matched (":id" instead of each
// id), so metric keys stay bounded. Only global middleware is mounted at "/",
// so a "/" route here means nothing else matched.
func RouteKey(c *fiber.Ctx) string {
	path := c.Route().Path
	if path == "" || path == "/" {
		return UnmatchedRoute
	}
	return path
}

// RequestID returns the id assigned by RequestLogger.
func RequestID(c *fiber.Ctx) string {
	if v, ok := c.Locals(requestIDKey).(string); ok {
		return v
	}
	return ""
}
