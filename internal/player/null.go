package player

import (
	"log/slog"
	"sync"
)

// Null is a backend that produces no sound. It keeps the state machine and
// logs every request, which is enough to drive the engine headless.
type Null struct {
	mu    sync.Mutex
	log   *slog.Logger
	state State
	path  string
}

// NewNull returns a silent backend. A nil logger discards output.
func NewNull(log *slog.Logger) *Null {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Null{log: log}
}

func (n *Null) Play(req Request) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.state = Playing
	n.path = req.Path
	n.log.Info("play", "path", req.Path, "gain", req.Gain)
	return nil
}

func (n *Null) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.state != Stopped {
		n.log.Info("stop", "path", n.path)
	}
	n.state = Stopped
}

func (n *Null) Toggle() {
	n.mu.Lock()
	defer n.mu.Unlock()
	switch n.state {
	case Playing:
		n.state = Paused
	case Paused:
		n.state = Playing
	case Stopped:
		return
	}
	n.log.Info("toggle", "path", n.path, "state", n.state)
}

func (n *Null) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

var _ Interface = (*Null)(nil)
