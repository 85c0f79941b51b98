package types

// ResponseStatus reports the current connection state snapshot.
type ResponseStatus struct {
	Status  string  `json:"status"`
	QRCode  *string `json:"qrCode"`
	Message string  `json:"message"`
}

// ResponseQR carries the pending login token, when one exists.
type ResponseQR struct {
	QRCode  string `json:"qrCode,omitempty"`
	Message string `json:"message"`
}

// ResponseSendMessage echoes a successfully delivered message.
type ResponseSendMessage struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId"`
	To        string `json:"to"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// ResponseHealth is the liveness probe body; it never depends on the
// WhatsApp connection being up.
type ResponseHealth struct {
	Status        string `json:"status"`
	Timestamp     string `json:"timestamp"`
	WhatsAppReady bool   `json:"whatsappReady"`
}
