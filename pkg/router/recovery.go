package router

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/habari-dev/whatsapp-gateway/pkg/log"
)

// RecoveryMiddleware converts panics into structured JSON responses and logs them.
// It must be registered before application routes.
func RecoveryMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Print(c).WithField("request_id", c.Locals("request_id")).Error("panic recovered: " + fmt.Sprintf("%v", rec))
				_ = c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
					Success: false,
					Error:   "Internal server error",
				})
			}
		}()
		return c.Next()
	}
}
