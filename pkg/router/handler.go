package router

import (
	"github.com/gofiber/fiber/v2"
)

// HttpErrorHandler maps unrouted paths and uncaught handler errors to the
// gateway's JSON error envelope.
func HttpErrorHandler(c *fiber.Ctx, err error) error {
	if fiberErr, ok := err.(*fiber.Error); ok {
		switch fiberErr.Code {
		case fiber.StatusNotFound:
			return ResponseNotFound(c, "Endpoint not found")
		case fiber.StatusInternalServerError:
			return ResponseInternalError(c, "Internal server error")
		default:
			return responseError(c, fiberErr.Code, fiberErr.Message)
		}
	}
	return ResponseInternalError(c, "Internal server error")
}
