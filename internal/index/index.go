package index

import (
	"github.com/gofiber/fiber/v2"

	"github.com/habari-dev/whatsapp-gateway/pkg/router"
)

// Index
// @Summary     Show The Status of The Server
// @Description Get The Server Status
// @Tags        Root
// @Produce     json
// @Success     200
// @Router      / [get]
func Index(c *fiber.Ctx) error {
	return router.ResponseOK(c, "WhatsApp Send Gateway is running", fiber.Map{
		"success": true,
		"message": "WhatsApp Send Gateway is running",
	})
}
