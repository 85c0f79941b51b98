package router

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/habari-dev/whatsapp-gateway/pkg/log"
)

// ErrorResponse is the JSON envelope used for every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func logSuccess(c *fiber.Ctx, code int, message string) {
	statusMessage := http.StatusText(code)

	if statusMessage == message || c.OriginalURL() == BaseURL {
		log.Print(c).Info(fmt.Sprintf("%d %v", code, statusMessage))
	} else {
		log.Print(c).Info(fmt.Sprintf("%d %v", code, message))
	}
}

func logError(c *fiber.Ctx, code int, message string) {
	statusMessage := http.StatusText(code)

	if statusMessage == message {
		log.Print(c).Error(fmt.Sprintf("%d %v", code, statusMessage))
	} else {
		log.Print(c).Error(fmt.Sprintf("%d %v", code, message))
	}
}

// ResponseOK writes a 200 response with an endpoint-specific payload.
func ResponseOK(c *fiber.Ctx, message string, payload interface{}) error {
	logSuccess(c, http.StatusOK, message)
	return c.Status(http.StatusOK).JSON(payload)
}

func ResponseNoContent(c *fiber.Ctx) error {
	return c.SendStatus(http.StatusNoContent)
}

func responseError(c *fiber.Ctx, code int, message string) error {
	if message == "" {
		message = http.StatusText(code)
	}
	logError(c, code, message)
	return c.Status(code).JSON(ErrorResponse{Success: false, Error: message})
}

func ResponseBadRequest(c *fiber.Ctx, message string) error {
	return responseError(c, http.StatusBadRequest, message)
}

func ResponseNotFound(c *fiber.Ctx, message string) error {
	return responseError(c, http.StatusNotFound, message)
}

func ResponseTooManyRequests(c *fiber.Ctx, message string) error {
	return responseError(c, http.StatusTooManyRequests, message)
}

func ResponseInternalError(c *fiber.Ctx, message string) error {
	return responseError(c, http.StatusInternalServerError, message)
}

func ResponseServiceUnavailable(c *fiber.Ctx, message string) error {
	return responseError(c, http.StatusServiceUnavailable, message)
}
