// Package collection is the control-goroutine view of the music library. It
// answers random-song requests and keeps statistics in step with rescans.
package collection

import (
	"log/slog"
	"math/rand/v2"

	"github.com/llehouerou/bluewaves/internal/bus"
	"github.com/llehouerou/bluewaves/internal/library"
	"github.com/llehouerou/bluewaves/internal/player"
)

// Pruner drops statistics for keys missing from a snapshot.
type Pruner interface {
	Prune(snap *library.Snapshot) (int64, error)
}

// Browser holds the current snapshot.
type Browser struct {
	emit   interface{ Publish(bus.Event) }
	pruner Pruner
	rng    *rand.Rand
	log    *slog.Logger

	snap  *library.Snapshot
	songs []library.Song
}

// New creates a browser over snap. pruner may be nil.
func New(snap *library.Snapshot, emit interface{ Publish(bus.Event) }, pruner Pruner, rng *rand.Rand, log *slog.Logger) *Browser {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	b := &Browser{emit: emit, pruner: pruner, rng: rng, log: log}
	b.setSnapshot(snap)
	return b
}

// Attach subscribes the browser to rescans and shuffle requests.
func (b *Browser) Attach(bs *bus.Bus) {
	bus.On(bs, func(ev bus.SongsTreeCreated) { b.Reload(ev.Snapshot) })
	bus.On(bs, func(bus.AskShuffleSong) { b.Shuffle() })
}

// Reload swaps in a new snapshot and prunes stale statistics.
func (b *Browser) Reload(snap *library.Snapshot) {
	b.setSnapshot(snap)
	b.log.Info("collection reloaded", "songs", snap.Len(), "artists", len(snap.Artists()))
	if b.pruner == nil {
		return
	}
	n, err := b.pruner.Prune(snap)
	if err != nil {
		b.log.Error("statistics prune failed", "err", err)
		return
	}
	if n > 0 {
		b.log.Info("statistics pruned", "rows", n)
	}
}

// Shuffle plays a random song from the collection. An empty collection
// stops playback.
func (b *Browser) Shuffle() {
	if len(b.songs) == 0 {
		b.log.Warn("shuffle requested on an empty collection")
		b.emit.Publish(bus.AbortPlayback{})
		return
	}
	s := b.songs[b.rng.IntN(len(b.songs))]
	b.emit.Publish(bus.PlayNewSong{Song: s, Gain: player.GainTrack})
}

// PlayAlbum hands a whole album to the playback controller. Returns
// library.ErrNotLoaded when the album is not in the collection.
func (b *Browser) PlayAlbum(artist, name string) error {
	a := b.snap.Album(artist, name)
	if !a.Loaded() {
		return library.ErrNotLoaded
	}
	b.emit.Publish(bus.PlayNewAlbum{Album: a})
	return nil
}

// QueueAlbum asks the playlist to append an album.
func (b *Browser) QueueAlbum(artist, name string) error {
	a := b.snap.Album(artist, name)
	if !a.Loaded() {
		return library.ErrNotLoaded
	}
	b.emit.Publish(bus.AlbumQueued{Album: a})
	return nil
}

// Snapshot returns the current snapshot.
func (b *Browser) Snapshot() *library.Snapshot {
	return b.snap
}

func (b *Browser) setSnapshot(snap *library.Snapshot) {
	if snap == nil {
		snap = library.NewSnapshot(nil)
	}
	b.snap = snap
	b.songs = snap.Songs()
}
