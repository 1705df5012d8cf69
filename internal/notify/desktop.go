package notify

import (
	"fmt"
	"strings"
	"sync"

	"github.com/bryanchriswhite/tortor/internal/logger"
	"github.com/godbus/dbus/v5"
)

// Notification D-Bus constants
const (
	notificationsService = "org.freedesktop.Notifications"
	notificationsPath    = "/org/freedesktop/Notifications"
	notifyMethod         = notificationsService + ".Notify"
)

// busObject is the subset of dbus.BusObject used here
type busObject interface {
	Call(method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// Desktop shows status and summary events as desktop notifications
type Desktop struct {
	conn    *dbus.Conn
	obj     busObject
	appName string
	timeout int32

	mu     sync.Mutex
	lastID uint32
}

// NewDesktop connects to the session bus
func NewDesktop(appName string) (*Desktop, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}

	return &Desktop{
		conn:    conn,
		obj:     conn.Object(notificationsService, dbus.ObjectPath(notificationsPath)),
		appName: appName,
		timeout: 4000,
	}, nil
}

// Notify sends ev as a notification, replacing the previous one.
// Capture events are skipped; they arrive every few seconds.
func (d *Desktop) Notify(ev Event) error {
	if ev.Kind == KindCapture {
		return nil
	}

	summary, body := splitText(ev.Text)

	d.mu.Lock()
	defer d.mu.Unlock()

	call := d.obj.Call(notifyMethod, 0,
		d.appName,
		d.lastID,
		"camera-photo",
		summary,
		body,
		[]string{},
		map[string]dbus.Variant{},
		d.timeout,
	)
	if call.Err != nil {
		return fmt.Errorf("notification failed: %w", call.Err)
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		logger.WithComponent("notify").Debug().Err(err).Msg("Notification returned no id")
		return nil
	}
	d.lastID = id
	return nil
}

// Close closes the session bus connection
func (d *Desktop) Close() error {
	if d.conn == nil {
		return nil
	}
	return d.conn.Close()
}

// splitText uses the first non-empty line as the summary and the rest as body
func splitText(text string) (string, string) {
	text = strings.TrimSpace(text)
	summary, body, _ := strings.Cut(text, "\n")
	return strings.TrimSpace(summary), strings.TrimSpace(body)
}
