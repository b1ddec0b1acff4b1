//go:build linux

package notify

import (
	"github.com/godbus/dbus/v5"
)

const (
	dbusNotifyDest      = "org.freedesktop.Notifications"
	dbusNotifyPath      = "/org/freedesktop/Notifications"
	dbusNotifyInterface = "org.freedesktop.Notifications"
)

type dbusSender struct {
	obj dbus.BusObject
}

// NewSender returns a D-Bus backed sender, or a no-op one when there is no
// session bus.
func NewSender() Sender {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nopSender{}
	}
	return &dbusSender{obj: conn.Object(dbusNotifyDest, dbusNotifyPath)}
}

// Send calls Notify(app_name, replaces_id, icon, summary, body, actions,
// hints, timeout) -> id.
func (s *dbusSender) Send(n Notification) (uint32, error) {
	hints := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(0)),
		"desktop-entry": dbus.MakeVariant("bluewaves"),
	}
	call := s.obj.Call(
		dbusNotifyInterface+".Notify",
		0,
		"Bluewaves",
		n.ReplacesID,
		n.Icon,
		n.Summary,
		n.Body,
		[]string{},
		hints,
		n.Timeout,
	)
	if call.Err != nil {
		return 0, call.Err
	}
	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, err
	}
	return id, nil
}

type nopSender struct{}

func (nopSender) Send(Notification) (uint32, error) { return 0, nil }
