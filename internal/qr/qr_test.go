package qr

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habari-dev/whatsapp-gateway/pkg/router"
	pkgWhatsApp "github.com/habari-dev/whatsapp-gateway/pkg/whatsapp"
)

func newTestApp() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: router.HttpErrorHandler,
	})
	app.Get("/qr", GetQR)
	return app
}

func getQR(t *testing.T, app *fiber.App, path string) (*http.Response, []byte) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func TestGetQRAlreadyAuthenticated(t *testing.T) {
	pkgWhatsApp.State.ClientReady()
	app := newTestApp()

	resp, raw := getQR(t, app, "/qr")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Contains(t, decoded["message"], "already authenticated")
	assert.NotContains(t, decoded, "qrCode")
}

func TestGetQRNotAvailable(t *testing.T) {
	pkgWhatsApp.State.ClientNotReady()
	pkgWhatsApp.State.QRIssued("")
	app := newTestApp()

	resp, raw := getQR(t, app, "/qr")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Contains(t, decoded["message"], "not available yet")
}

func TestGetQRPending(t *testing.T) {
	pkgWhatsApp.State.ClientNotReady()
	pkgWhatsApp.State.QRIssued("login-token-abc")
	app := newTestApp()

	resp, raw := getQR(t, app, "/qr")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	qrCode, ok := decoded["qrCode"].(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(qrCode, "data:image/png;base64,"))
	assert.Contains(t, decoded["message"], "Scan")
}

func TestGetQRHTMLOutput(t *testing.T) {
	pkgWhatsApp.State.ClientNotReady()
	pkgWhatsApp.State.QRIssued("login-token-abc")
	app := newTestApp()

	resp, raw := getQR(t, app, "/qr?output=html")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(raw), "data:image/png;base64,")
}
