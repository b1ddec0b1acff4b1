//go:build !linux

package notify

// NewSender returns a no-op sender; notifications need D-Bus.
func NewSender() Sender {
	return nopSender{}
}

type nopSender struct{}

func (nopSender) Send(Notification) (uint32, error) { return 0, nil }
