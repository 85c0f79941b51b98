package types

// RequestSendMessage is the POST /send-message payload. Both fields are
// required; the phone number accepts any loosely formatted Rwandan number.
type RequestSendMessage struct {
	PhoneNumber string `json:"phoneNumber"`
	Message     string `json:"message"`
}
