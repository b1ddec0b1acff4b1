// Package playback translates bus commands into backend calls and reports
// what the backend is doing.
package playback

import (
	"log/slog"
	"sync"

	"github.com/llehouerou/bluewaves/internal/bus"
	"github.com/llehouerou/bluewaves/internal/library"
	"github.com/llehouerou/bluewaves/internal/player"
)

// Emitter publishes outbound signals.
type Emitter interface {
	Publish(e bus.Event)
}

// Status is a snapshot of the controller, safe to read from any goroutine.
type Status struct {
	State      player.State
	Song       *library.Song
	AlbumIndex int // -1 outside an album walk
}

type albumWalk struct {
	album library.Album
	index int
}

// Controller drives a player.Interface from bus signals.
//
// Handlers run on the control goroutine. Status and Subscribe may be called
// from anywhere.
type Controller struct {
	player player.Interface
	emit   Emitter
	log    *slog.Logger

	// walk is only touched on the control goroutine.
	walk *albumWalk

	mu      sync.RWMutex
	current *library.Song
	index   int

	subs   []*Subscription
	subsMu sync.RWMutex
}

// New creates a controller for p.
func New(p player.Interface, emit Emitter, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Controller{player: p, emit: emit, log: log, index: -1}
}

// Attach subscribes the controller to its inbound signals.
func (c *Controller) Attach(b *bus.Bus) {
	bus.On(b, func(ev bus.PlayNewSong) { c.PlaySong(ev.Song, ev.Gain) })
	bus.On(b, func(ev bus.PlayNewAlbum) { c.PlayAlbum(ev.Album) })
	bus.On(b, func(bus.AbortPlayback) { c.Stop() })
	bus.On(b, func(bus.StopPressed) { c.Stop() })
	bus.On(b, func(bus.PlayPressed) { c.PlayPause() })
	bus.On(b, func(bus.NextPressed) { c.Next() })
	bus.On(b, func(bus.PreviousPressed) { c.Previous() })
}

// PlaySong starts one song and leaves any album walk.
func (c *Controller) PlaySong(s library.Song, gain player.GainMode) {
	c.walk = nil
	c.start(s, gain, -1)
}

// PlayAlbum starts the first track of a and walks the album on Next and
// Previous until either end.
func (c *Controller) PlayAlbum(a library.Album) {
	if !a.Loaded() || a.Len() == 0 {
		c.log.Error("refusing to play an album that is not loaded")
		return
	}
	c.walk = &albumWalk{album: a}
	c.start(a.Track(0), player.GainAlbum, 0)
}

// Stop stops the backend and leaves any album walk.
func (c *Controller) Stop() {
	c.walk = nil
	prev := c.player.State()
	c.player.Stop()

	c.mu.Lock()
	c.current = nil
	c.index = -1
	c.mu.Unlock()

	c.notifyState(prev)
}

// PlayPause toggles pause. From Stopped it asks the playlist for a song.
func (c *Controller) PlayPause() {
	prev := c.player.State()
	if prev == player.Stopped {
		c.emit.Publish(bus.AskNextSong{})
		return
	}
	c.player.Toggle()
	c.notifyState(prev)
}

// Next moves forward inside an album walk, or asks the playlist.
func (c *Controller) Next() {
	c.move(1)
}

// Previous moves backward inside an album walk, or asks the playlist.
func (c *Controller) Previous() {
	c.move(-1)
}

// TrackFinished is the backend's end-of-track notification. It must run on
// the control goroutine.
func (c *Controller) TrackFinished() {
	c.move(1)
}

func (c *Controller) move(step int) {
	if c.walk != nil {
		i := c.walk.index + step
		if i < 0 || i >= c.walk.album.Len() {
			c.log.Debug("album walk ended", "album", c.walk.album.Name())
			c.Stop()
			return
		}
		c.walk.index = i
		c.start(c.walk.album.Track(i), player.GainAlbum, i)
		return
	}

	current := c.Status().Song
	if step > 0 {
		c.emit.Publish(bus.AskNextSong{Current: current})
	} else {
		c.emit.Publish(bus.AskPreviousSong{Current: current})
	}
}

func (c *Controller) start(s library.Song, gain player.GainMode, index int) {
	prev := c.player.State()
	if err := c.player.Play(player.Request{Path: s.Filename, Gain: gain}); err != nil {
		c.log.Error("backend refused song", "filename", s.Filename, "err", err)
		c.broadcast(func(sub *Subscription) {
			sub.sendError(ErrorEvent{Operation: "play", Path: s.Filename, Err: err})
		})
		return
	}

	c.mu.Lock()
	c.current = &s
	c.index = index
	c.mu.Unlock()

	c.notifyState(prev)
	c.broadcast(func(sub *Subscription) {
		sub.sendTrack(TrackChange{Song: s, Gain: gain, AlbumIndex: index})
	})
	c.emit.Publish(bus.HasStartedSong{Song: s})
}

// Status returns the current backend state and song.
func (c *Controller) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	st := Status{State: c.player.State(), AlbumIndex: c.index}
	if c.current != nil {
		s := *c.current
		st.Song = &s
	}
	return st
}

// Subscribe registers an observer. Call Close to release every subscriber.
func (c *Controller) Subscribe() *Subscription {
	sub := newSubscription()
	c.subsMu.Lock()
	c.subs = append(c.subs, sub)
	c.subsMu.Unlock()
	return sub
}

// Close signals every subscriber to stop.
func (c *Controller) Close() {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	for _, sub := range c.subs {
		sub.close()
	}
	c.subs = nil
}

func (c *Controller) notifyState(prev player.State) {
	cur := c.player.State()
	if cur == prev {
		return
	}
	c.broadcast(func(sub *Subscription) {
		sub.sendState(StateChange{Previous: prev, Current: cur})
	})
}

func (c *Controller) broadcast(fn func(*Subscription)) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		fn(sub)
	}
}
