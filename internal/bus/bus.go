// Package bus is the typed publish/subscribe hub connecting the player's
// components.
//
// All handlers run on the control goroutine: either inside Publish, called
// from that goroutine, or inside Run, which executes work posted by other
// goroutines through Post and Do. Workers must never touch component state
// directly.
package bus

import (
	"context"
	"log/slog"
	"slices"
)

const inboxSize = 64

// Handler receives one event.
type Handler func(Event)

// Bus fans events out to subscribers in registration order.
type Bus struct {
	log      *slog.Logger
	known    map[Kind]bool
	handlers map[Kind][]Handler

	pending     []Event
	dispatching bool

	inbox  chan func()
	closed chan struct{}
}

// New creates a bus accepting the registered signal set.
func New(log *slog.Logger) *Bus {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	b := &Bus{
		log:      log,
		known:    make(map[Kind]bool, len(Kinds)),
		handlers: make(map[Kind][]Handler),
		inbox:    make(chan func(), inboxSize),
		closed:   make(chan struct{}),
	}
	for _, k := range Kinds {
		b.known[k] = true
	}
	return b
}

// Subscribe registers h for kind. Unknown kinds are logged and ignored.
func (b *Bus) Subscribe(kind Kind, h Handler) {
	if !b.known[kind] {
		b.log.Warn("subscribe to unknown signal ignored", "kind", kind)
		return
	}
	b.handlers[kind] = append(b.handlers[kind], h)
}

// On subscribes a handler typed on the concrete event.
func On[T Event](b *Bus, fn func(T)) {
	var zero T
	b.Subscribe(zero.Kind(), func(e Event) {
		if ev, ok := e.(T); ok {
			fn(ev)
		}
	})
}

// Publish delivers e to every subscriber of its kind, in registration order.
//
// Publish is not reentrant: an event published by a handler is queued and
// delivered once the current event has reached all its subscribers. If a
// handler panics, events still queued behind it are dropped.
// Must be called from the control goroutine.
func (b *Bus) Publish(e Event) {
	kind := e.Kind()
	if !b.known[kind] {
		b.log.Warn("publish of unknown signal ignored", "kind", kind)
		return
	}
	b.pending = append(b.pending, e)
	if b.dispatching {
		return
	}

	b.dispatching = true
	defer func() {
		b.dispatching = false
		b.pending = nil
	}()

	for len(b.pending) > 0 {
		ev := b.pending[0]
		b.pending = slices.Delete(b.pending, 0, 1)
		b.log.Debug("dispatch", "kind", ev.Kind())
		for _, h := range b.handlers[ev.Kind()] {
			h(ev)
		}
	}
}

// Post hands e to the control goroutine. Safe from any goroutine.
func (b *Bus) Post(e Event) {
	b.Do(func() { b.Publish(e) })
}

// Do runs fn on the control goroutine. Safe from any goroutine. It blocks
// while the inbox is full and returns without running fn once the bus is
// closed.
func (b *Bus) Do(fn func()) {
	select {
	case <-b.closed:
		return
	default:
	}
	select {
	case b.inbox <- fn:
	case <-b.closed:
	}
}

// Run executes posted work until ctx is done, then closes the bus.
func (b *Bus) Run(ctx context.Context) error {
	defer close(b.closed)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-b.inbox:
			fn()
		}
	}
}

// Drain runs every piece of posted work already waiting, on the caller's
// goroutine, and reports how many ran. Meant for tests and for flushing
// before shutdown.
func (b *Bus) Drain() int {
	n := 0
	for {
		select {
		case fn := <-b.inbox:
			fn()
			n++
		default:
			return n
		}
	}
}
