package internal

import (
	"github.com/gofiber/fiber/v2"
	swagger "github.com/gofiber/swagger"

	"github.com/habari-dev/whatsapp-gateway/pkg/router"

	ctlIndex "github.com/habari-dev/whatsapp-gateway/internal/index"
	ctlMessage "github.com/habari-dev/whatsapp-gateway/internal/message"
	ctlQR "github.com/habari-dev/whatsapp-gateway/internal/qr"
	ctlStatus "github.com/habari-dev/whatsapp-gateway/internal/status"
)

func Routes(app *fiber.App) {
	// Configure OpenAPI / Swagger
	specURL := router.BaseURL + "/docs/swagger.json"
	swaggerHandler := swagger.New(swagger.Config{
		URL: specURL,
	})

	// Route for Index
	// ---------------------------------------------
	if router.BaseURL == "" {
		app.Get("/", ctlIndex.Index)
	} else {
		app.Get(router.BaseURL, ctlIndex.Index)
		app.Get(router.BaseURL+"/", ctlIndex.Index)
	}

	// Route for OpenAPI / Swagger
	// ---------------------------------------------
	app.Get(router.BaseURL+"/docs/swagger.json", func(c *fiber.Ctx) error {
		return c.SendFile("docs/swagger.json")
	})
	app.Get(router.BaseURL+"/docs/*", swaggerHandler)

	// Gateway routes
	// ---------------------------------------------
	app.Get(router.BaseURL+"/status", ctlStatus.GetStatus)
	app.Get(router.BaseURL+"/qr", ctlQR.GetQR)
	app.Get(router.BaseURL+"/health", ctlStatus.GetHealth)
	app.Post(router.BaseURL+"/send-message",
		router.HttpSendRateLimit(router.SendRatePerMinute),
		ctlMessage.SendMessage,
	)
}
