package whatsapp

import "sync"

// ConnectionState mirrors the WhatsApp client lifecycle into two fields read
// by the HTTP handlers. Client event callbacks are the only writers; every
// update is a single assignment with last-write-wins semantics.
type ConnectionState struct {
	mu        sync.RWMutex
	ready     bool
	qrPayload string
}

func NewConnectionState() *ConnectionState {
	return &ConnectionState{}
}

// QRIssued stores a fresh login token. Readiness is unchanged.
func (s *ConnectionState) QRIssued(payload string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.qrPayload = payload
}

// ClientReady marks the session usable and clears any pending QR token.
func (s *ConnectionState) ClientReady() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = true
	s.qrPayload = ""
}

// ClientNotReady marks the session unusable. A pending QR token, if any,
// stays visible so a login in progress is not hidden from /qr.
func (s *ConnectionState) ClientNotReady() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = false
}

// QRExpired drops a login token nobody can scan anymore. Readiness is
// unchanged.
func (s *ConnectionState) QRExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.qrPayload = ""
}

// IsReady reports whether the client can send messages.
func (s *ConnectionState) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Snapshot returns a consistent view of readiness and the pending QR payload
// (empty string means none).
func (s *ConnectionState) Snapshot() (ready bool, qrPayload string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready, s.qrPayload
}
