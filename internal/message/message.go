package message

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rivo/uniseg"

	typGateway "github.com/habari-dev/whatsapp-gateway/internal/types"
	"github.com/habari-dev/whatsapp-gateway/pkg/log"
	"github.com/habari-dev/whatsapp-gateway/pkg/phone"
	"github.com/habari-dev/whatsapp-gateway/pkg/router"
	pkgWhatsApp "github.com/habari-dev/whatsapp-gateway/pkg/whatsapp"
)

// Indirections over the session layer, swapped out in tests.
var (
	sendText         = pkgWhatsApp.SendText
	resolveRecipient = pkgWhatsApp.ResolveRecipient
)

// SendMessage
// @Summary     Send a Text Message
// @Description Normalizes the phone number and delivers the message through WhatsApp
// @Tags        Gateway
// @Accept      json
// @Produce     json
// @Param       body body types.RequestSendMessage true "Message to send"
// @Success     200 {object} types.ResponseSendMessage
// @Router      /send-message [post]
func SendMessage(c *fiber.Ctx) error {
	if !pkgWhatsApp.State.IsReady() {
		return router.ResponseServiceUnavailable(c, "WhatsApp client is not ready, scan the QR code first")
	}

	var reqSendMessage typGateway.RequestSendMessage
	if err := c.BodyParser(&reqSendMessage); err != nil {
		log.Print(c).Warn("Failed to parse body request")
		return router.ResponseBadRequest(c, "Failed to parse request body")
	}

	// Required-field checks run before any normalization.
	if strings.TrimSpace(reqSendMessage.PhoneNumber) == "" {
		return router.ResponseBadRequest(c, "phoneNumber is required")
	}
	if strings.TrimSpace(reqSendMessage.Message) == "" {
		return router.ResponseBadRequest(c, "message is required")
	}

	address, err := phone.Normalize(reqSendMessage.PhoneNumber)
	if err != nil {
		return router.ResponseBadRequest(c, err.Error())
	}

	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}

	recipient, err := resolveRecipient(ctx, address)
	if err != nil {
		if errors.Is(err, pkgWhatsApp.ErrNotReady) {
			return router.ResponseServiceUnavailable(c, "WhatsApp client is not ready, scan the QR code first")
		}
		if errors.Is(err, pkgWhatsApp.ErrNotRegistered) {
			return router.ResponseBadRequest(c, "Phone number is not registered on WhatsApp")
		}
		log.Print(c).WithError(err).Error("Failed to check recipient registration")
		return router.ResponseInternalError(c, "Failed to send message: "+err.Error())
	}

	log.Print(c).WithField("to", address).WithField("graphemes", uniseg.GraphemeClusterCount(reqSendMessage.Message)).Info("Sending text message")

	msgID, timestamp, err := sendText(ctx, recipient, reqSendMessage.Message)
	if err != nil {
		if errors.Is(err, pkgWhatsApp.ErrNotReady) {
			return router.ResponseServiceUnavailable(c, "WhatsApp client is not ready, scan the QR code first")
		}
		log.Print(c).WithError(err).Error("Failed to send text message")
		return router.ResponseInternalError(c, "Failed to send message: "+err.Error())
	}

	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	return router.ResponseOK(c, "Success send message", typGateway.ResponseSendMessage{
		Success:   true,
		MessageID: msgID,
		To:        address,
		Message:   reqSendMessage.Message,
		Timestamp: timestamp.Format(time.RFC3339),
	})
}
