package status

import (
	"time"

	"github.com/gofiber/fiber/v2"

	typGateway "github.com/habari-dev/whatsapp-gateway/internal/types"
	"github.com/habari-dev/whatsapp-gateway/pkg/log"
	"github.com/habari-dev/whatsapp-gateway/pkg/router"
	pkgWhatsApp "github.com/habari-dev/whatsapp-gateway/pkg/whatsapp"
)

// GetStatus
// @Summary     Get WhatsApp Connection Status
// @Description Returns the current connection state snapshot
// @Tags        Gateway
// @Produce     json
// @Success     200 {object} types.ResponseStatus
// @Router      /status [get]
func GetStatus(c *fiber.Ctx) error {
	ready, qrPayload := pkgWhatsApp.State.Snapshot()

	resStatus := typGateway.ResponseStatus{
		Status:  "not_ready",
		Message: "WhatsApp client is initializing",
	}

	switch {
	case ready:
		resStatus.Status = "ready"
		resStatus.Message = "WhatsApp client is connected and ready"
	case qrPayload != "":
		qrImage, err := pkgWhatsApp.QRImageDataURI(qrPayload)
		if err != nil {
			log.Print(c).WithError(err).Error("Failed to encode QR code")
			return router.ResponseInternalError(c, "Internal server error")
		}
		resStatus.QRCode = &qrImage
		resStatus.Message = "Scan the QR code to authenticate"
	}

	return router.ResponseOK(c, "Success get connection status", resStatus)
}

// GetHealth
// @Summary     Liveness Probe
// @Description Always returns 200, independent of WhatsApp readiness
// @Tags        Gateway
// @Produce     json
// @Success     200 {object} types.ResponseHealth
// @Router      /health [get]
func GetHealth(c *fiber.Ctx) error {
	return router.ResponseOK(c, "healthy", typGateway.ResponseHealth{
		Status:        "healthy",
		Timestamp:     time.Now().Format(time.RFC3339),
		WhatsAppReady: pkgWhatsApp.State.IsReady(),
	})
}
