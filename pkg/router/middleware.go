package router

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

func HttpRealIP() fiber.Handler {
	return func(c *fiber.Ctx) error {
		xForwardedFor := c.Get(http.CanonicalHeaderKey("X-Forwarded-For"))
		if xForwardedFor != "" {
			parts := strings.Split(xForwardedFor, ",")
			if len(parts) > 0 {
				c.Locals("remote_ip", strings.TrimSpace(parts[0]))
			}
		} else {
			xRealIP := c.Get(http.CanonicalHeaderKey("X-Real-IP"))
			if xRealIP != "" {
				c.Locals("remote_ip", strings.TrimSpace(xRealIP))
			}
		}
		return c.Next()
	}
}

// HttpRequestID tags every request with a UUID, echoed back in the
// X-Request-ID header and attached to log entries.
func HttpRequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := strings.TrimSpace(c.Get("X-Request-ID"))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Locals("request_id", requestID)
		c.Set("X-Request-ID", requestID)
		return c.Next()
	}
}

// HttpSendRateLimit bounds outbound message throughput with a token bucket.
// A ratePerMinute of zero or less disables the limiter.
func HttpSendRateLimit(ratePerMinute int) fiber.Handler {
	if ratePerMinute <= 0 {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}
	limiter := rate.NewLimiter(rate.Limit(float64(ratePerMinute)/60.0), ratePerMinute)
	return func(c *fiber.Ctx) error {
		if !limiter.Allow() {
			return ResponseTooManyRequests(c, "Send rate limit exceeded, slow down")
		}
		return c.Next()
	}
}
