package whatsapp

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/mdp/qrterminal/v3"
	qrCode "github.com/skip2/go-qrcode"
	"golang.org/x/sync/singleflight"
	"google.golang.org/protobuf/proto"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waCompanionReg"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"

	"github.com/habari-dev/whatsapp-gateway/pkg/env"
	"github.com/habari-dev/whatsapp-gateway/pkg/log"
	"github.com/habari-dev/whatsapp-gateway/pkg/phone"
)

// State is the process-wide connection tracker read by the HTTP handlers
// and written only by the client event callbacks below.
var State = NewConnectionState()

var (
	clientMu  sync.Mutex
	client    *whatsmeow.Client
	Datastore *sqlstore.Container

	reconnector     *reconnectScheduler
	registeredGroup singleflight.Group

	ErrNotReady      = errors.New("WhatsApp client is not ready")
	ErrNotRegistered = errors.New("recipient is not registered on WhatsApp")
)

const (
	// ReconnectDelay is the fixed wait before reinitializing the client
	// after an unexpected disconnect.
	ReconnectDelay = 5 * time.Second

	sendRequestTimeout       = 30 * time.Second
	registrationCheckTimeout = 15 * time.Second

	// Must outlive a full QR code sequence (~160s), so the sequence
	// normally ends with an explicit timeout event instead of a bare
	// channel close.
	qrChannelWaitTimeout = 3 * time.Minute
)

func init() {
	reconnector = newReconnectScheduler(ReconnectDelay, reinitialize)
}

// InitDatastore opens the whatsmeow session store. The sqlite default keeps
// the gateway zero-config; postgres is selected through
// WHATSAPP_DATASTORE_TYPE / WHATSAPP_DATASTORE_URI.
func InitDatastore(ctx context.Context) error {
	driver := normalizeDatastoreDriver(env.GetEnvStringOrDefault("WHATSAPP_DATASTORE_TYPE", "sqlite"))
	dsn := env.GetEnvStringOrDefault("WHATSAPP_DATASTORE_URI", "storage/whatsapp.db")

	log.Session("datastore").Info("Initializing WhatsApp datastore with driver=" + driver)

	switch driver {
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return fmt.Errorf("failed to create datastore directory: %w", err)
		}
		db, err := sql.Open("sqlite", sqliteDSN(dsn))
		if err != nil {
			return fmt.Errorf("failed to open sqlite datastore: %w", err)
		}
		// Serialize access through one connection to avoid SQLITE_BUSY.
		db.SetMaxOpenConns(1)
		Datastore = sqlstore.NewWithDB(db, "sqlite", nil)
	case "pgx":
		datastore, err := sqlstore.New(ctx, driver, dsn, nil)
		if err != nil {
			return fmt.Errorf("failed to open postgres datastore: %w", err)
		}
		Datastore = datastore
	default:
		return fmt.Errorf("unsupported datastore driver %s", driver)
	}

	if err := Datastore.Upgrade(ctx); err != nil {
		return fmt.Errorf("failed to upgrade datastore schema: %w", err)
	}
	return nil
}

func normalizeDatastoreDriver(driver string) string {
	switch strings.ToLower(driver) {
	case "postgresql", "postgres", "pgx":
		return "pgx"
	case "sqlite", "sqlite3":
		return "sqlite"
	default:
		return strings.ToLower(driver)
	}
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)"
}

// InitClient builds the whatsmeow client from the stored device (or a fresh
// one) and connects. A missing store ID triggers the QR login flow.
func InitClient(ctx context.Context) error {
	clientMu.Lock()
	defer clientMu.Unlock()

	if client == nil {
		if Datastore == nil {
			return errors.New("WhatsApp datastore is not initialized")
		}

		device, err := Datastore.GetFirstDevice(ctx)
		if err != nil {
			return fmt.Errorf("failed to load device from datastore: %w", err)
		}

		store.DeviceProps.Os = proto.String(runtime.GOOS)
		store.DeviceProps.PlatformType = waCompanionReg.DeviceProps_CHROME.Enum()
		store.DeviceProps.RequireFullSync = proto.Bool(false)

		client = whatsmeow.NewClient(device, nil)
		client.EnableAutoReconnect = false
		client.AutoTrustIdentity = true
		client.AddEventHandler(handleEvents)
	}

	return connectLocked()
}

// connectLocked starts the session; callers must hold clientMu.
func connectLocked() error {
	if client.Store.ID == nil {
		log.Session("login").Info("No existing session found, starting QR login")

		qrCtx, qrCancel := context.WithTimeout(context.Background(), qrChannelWaitTimeout)
		qrChan, err := client.GetQRChannel(qrCtx)
		if err != nil {
			qrCancel()
			return fmt.Errorf("failed to get QR channel: %w", err)
		}
		if err := client.Connect(); err != nil {
			qrCancel()
			return fmt.Errorf("failed to connect for QR login: %w", err)
		}

		go watchQRChannel(qrChan, qrCancel)
		return nil
	}

	log.Session("login").Info("Resuming existing session " + maskJID(client.Store.ID.User))
	return client.Connect()
}

// watchQRChannel publishes each issued login token into the state tracker
// and renders it to the terminal for out-of-band scanning.
func watchQRChannel(qrChan <-chan whatsmeow.QRChannelItem, cancel context.CancelFunc) {
	defer cancel()

	for evt := range qrChan {
		switch evt.Event {
		case "code":
			State.QRIssued(evt.Code)
			qrterminal.GenerateHalfBlock(evt.Code, qrterminal.L, os.Stdout)
			log.Session("qr").WithField("timeout_s", int(evt.Timeout.Seconds())).Info("QR code issued, waiting for scan")
		case whatsmeow.QRChannelSuccess.Event:
			log.Session("qr").Info("QR scan accepted, pairing complete")
			return
		case whatsmeow.QRChannelTimeout.Event:
			log.Session("qr").Warn("QR login timed out, scheduling reinitialization")
			State.ClientNotReady()
			State.QRExpired()
			reconnector.Schedule()
			return
		default:
			if evt.Error != nil {
				log.Session("qr").WithError(evt.Error).Error("QR login failed")
			} else {
				log.Session("qr").Error("QR login failed: " + evt.Event)
			}
			State.ClientNotReady()
			State.QRExpired()
			return
		}
	}

	// The wait context expiring closes the channel with no terminal event,
	// and the intentional disconnect that follows fires no Disconnected
	// event, so recovery has to be scheduled here.
	log.Session("qr").Warn("QR channel closed before pairing, scheduling reinitialization")
	State.ClientNotReady()
	State.QRExpired()
	reconnector.Schedule()
}

// handleEvents is the single writer of the connection state tracker.
func handleEvents(evt interface{}) {
	switch e := evt.(type) {
	case *events.Connected:
		State.ClientReady()
		log.Session("ready").Info("WhatsApp client is ready")
	case *events.PairSuccess:
		// Readiness flips on the Connected event that follows.
		log.Session("authenticated").Info("WhatsApp client authenticated as " + maskJID(e.ID.User))
	case *events.LoggedOut:
		State.ClientNotReady()
		log.Session("auth").Error(fmt.Sprintf("WhatsApp authentication lost, reason=%v", e.Reason))
	case *events.StreamReplaced:
		State.ClientNotReady()
		log.Session("auth").Error("WhatsApp stream replaced by another session")
	case *events.Disconnected:
		State.ClientNotReady()
		log.Session("disconnected").Warn("WhatsApp client disconnected, reinitializing in " + ReconnectDelay.String())
		reconnector.Schedule()
	case *events.ConnectFailure:
		log.Session("connect").Error(fmt.Sprintf("WhatsApp connection failure, reason=%s message=%s", e.Reason, e.Message))
	case *events.KeepAliveTimeout:
		log.Session("keepalive").Warn(fmt.Sprintf("WhatsApp keepalive timeout, errors=%d", e.ErrorCount))
	}
}

// reinitialize tears the connection down and runs the connect flow again.
// A failure here has no further recovery; the process must be restarted.
func reinitialize() {
	clientMu.Lock()
	defer clientMu.Unlock()

	if client == nil {
		return
	}

	log.Session("reconnect").Info("Reinitializing WhatsApp client")
	client.Disconnect()

	if err := connectLocked(); err != nil {
		log.Session("reconnect").WithError(err).Error("WhatsApp reinitialization failed, external restart required")
	}
}

// ScheduleReconnect queues a reinitialization after the fixed delay,
// coalescing with any already-pending attempt.
func ScheduleReconnect() {
	reconnector.Schedule()
}

// Disconnect stops the client and cancels any pending reinitialization.
// Used during graceful shutdown.
func Disconnect() {
	reconnector.Cancel()

	clientMu.Lock()
	defer clientMu.Unlock()
	if client != nil {
		client.Disconnect()
	}
}

func currentClient() (*whatsmeow.Client, error) {
	clientMu.Lock()
	defer clientMu.Unlock()
	if client == nil {
		return nil, ErrNotReady
	}
	return client, nil
}

// IsClientOK reports nil when the client is connected and logged in.
func IsClientOK() error {
	cli, err := currentClient()
	if err != nil {
		return err
	}
	if !cli.IsConnected() || !cli.IsLoggedIn() {
		return ErrNotReady
	}
	return nil
}

// SyncState reconciles the tracker with the client's actual connection
// state. Run periodically; event delivery is the primary update path.
func SyncState() {
	err := IsClientOK()
	ready := State.IsReady()
	switch {
	case err == nil && !ready:
		log.Session("health").Warn("Tracker out of sync: client healthy but marked not ready, repairing")
		State.ClientReady()
	case err != nil && ready:
		log.Session("health").Warn("Tracker out of sync: client unhealthy but marked ready, repairing")
		State.ClientNotReady()
	case err == nil:
		log.Session("health").Info("WhatsApp client healthy")
	default:
		log.Session("health").Warn("WhatsApp client not ready")
	}
}

// ComposeJID maps a canonical gateway address onto the server whatsmeow
// routes personal chats through. The legacy "c.us" suffix is kept for API
// responses only; the send path rejects it.
func ComposeJID(address string) types.JID {
	digits := strings.TrimSuffix(address, phone.UserServer)
	digits = strings.TrimPrefix(digits, "+")
	return types.NewJID(digits, types.DefaultUserServer)
}

// ResolveRecipient verifies the canonical address has a WhatsApp account and
// returns the JID the server knows it under. Returns ErrNotRegistered for
// numbers without an account. Concurrent lookups for the same number are
// collapsed into one server query.
func ResolveRecipient(ctx context.Context, address string) (types.JID, error) {
	cli, err := currentClient()
	if err != nil {
		return types.EmptyJID, err
	}
	if err := IsClientOK(); err != nil {
		return types.EmptyJID, err
	}

	digits := strings.TrimSuffix(address, phone.UserServer)
	return resolveShared(ctx, digits, func(lookupCtx context.Context) (types.JID, error) {
		infos, err := cli.IsOnWhatsApp(lookupCtx, []string{"+" + digits})
		if err != nil {
			return types.EmptyJID, err
		}
		if len(infos) == 0 || !infos[0].IsIn {
			return types.EmptyJID, ErrNotRegistered
		}
		if infos[0].JID.IsEmpty() {
			return ComposeJID(address), nil
		}
		return infos[0].JID, nil
	})
}

// resolveShared coalesces concurrent lookups for the same key. The shared
// call runs on its own deadline, detached from any single request context,
// so one caller hanging up cannot fail the lookup for everyone coalesced
// onto it.
func resolveShared(ctx context.Context, key string, lookup func(context.Context) (types.JID, error)) (types.JID, error) {
	ch := registeredGroup.DoChan(key, func() (interface{}, error) {
		lookupCtx, cancel := context.WithTimeout(context.Background(), registrationCheckTimeout)
		defer cancel()
		return lookup(lookupCtx)
	})

	select {
	case <-ctx.Done():
		return types.EmptyJID, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return types.EmptyJID, res.Err
		}
		return res.Val.(types.JID), nil
	}
}

// SendText delivers a plain text message to the resolved recipient and
// returns the generated message ID with the server timestamp.
func SendText(ctx context.Context, to types.JID, text string) (string, time.Time, error) {
	cli, err := currentClient()
	if err != nil {
		return "", time.Time{}, err
	}
	if err := IsClientOK(); err != nil {
		return "", time.Time{}, err
	}

	// Unresolved legacy addresses are not deliverable as-is.
	if to.Server == types.LegacyUserServer {
		to = types.NewJID(to.User, types.DefaultUserServer)
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendRequestTimeout)
	defer cancel()

	msgExtra := whatsmeow.SendRequestExtra{ID: cli.GenerateMessageID()}
	msgContent := &waE2E.Message{
		Conversation: proto.String(text),
	}

	resp, err := cli.SendMessage(sendCtx, to, msgContent, msgExtra)
	if err != nil {
		return "", time.Time{}, err
	}
	return msgExtra.ID, resp.Timestamp, nil
}

// QRImageDataURI renders a QR payload as an embeddable base64 PNG data URI.
func QRImageDataURI(payload string) (string, error) {
	png, err := qrCode.Encode(payload, qrCode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

func maskJID(jid string) string {
	if len(jid) < 4 {
		return jid
	}
	return jid[0:len(jid)-4] + "xxxx"
}
