package router

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cache"
)

// liveEndpoints must always reflect the current connection state snapshot
// and are never served from cache.
var liveEndpoints = []string{"/status", "/qr", "/health", "/send-message"}

func HttpCacheInMemory(ttl time.Duration) fiber.Handler {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return cache.New(cache.Config{
		Next: func(c *fiber.Ctx) bool {
			if c.Method() != fiber.MethodGet {
				return true
			}
			path := c.Path()
			for _, live := range liveEndpoints {
				if strings.HasSuffix(path, live) {
					return true
				}
			}
			return false
		},
		Expiration: ttl,
	})
}
