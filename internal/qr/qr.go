package qr

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	typGateway "github.com/habari-dev/whatsapp-gateway/internal/types"
	"github.com/habari-dev/whatsapp-gateway/pkg/log"
	"github.com/habari-dev/whatsapp-gateway/pkg/router"
	pkgWhatsApp "github.com/habari-dev/whatsapp-gateway/pkg/whatsapp"
)

// GetQR
// @Summary     Get Login QR Code
// @Description Returns the pending login QR code when authentication is required
// @Tags        Gateway
// @Produce     json
// @Param       output query string false "Set to html to render a scannable page"
// @Success     200 {object} types.ResponseQR
// @Router      /qr [get]
func GetQR(c *fiber.Ctx) error {
	ready, qrPayload := pkgWhatsApp.State.Snapshot()

	if qrPayload == "" {
		resQR := typGateway.ResponseQR{
			Message: "QR code not available yet, try again shortly",
		}
		if ready {
			resQR.Message = "WhatsApp is already authenticated"
		}
		return router.ResponseOK(c, resQR.Message, resQR)
	}

	qrImage, err := pkgWhatsApp.QRImageDataURI(qrPayload)
	if err != nil {
		log.Print(c).WithError(err).Error("Failed to encode QR code")
		return router.ResponseInternalError(c, "Internal server error")
	}

	if strings.TrimSpace(c.Query("output")) == "html" {
		htmlContent := `
		<html>
			<head>
				<title>WhatsApp Gateway Login</title>
				<meta name="viewport" content="width=device-width, initial-scale=1, shrink-to-fit=no" />
			</head>
			<body>
				<img src="` + qrImage + `" />
				<p>
					<b>QR Code Scan</b>
					<br/>
					Open WhatsApp on your phone and scan this code under Linked Devices
				</p>
			</body>
		</html>
		`

		c.Set("Content-Type", "text/html")
		return c.SendString(htmlContent)
	}

	return router.ResponseOK(c, "Success get QR code", typGateway.ResponseQR{
		QRCode:  qrImage,
		Message: "Scan this QR code with WhatsApp on your phone",
	})
}
