// Package similar keeps the pool of library artists related to the one
// currently playing, used by the similar shuffle mode.
package similar

import (
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/llehouerou/bluewaves/internal/bus"
	"github.com/llehouerou/bluewaves/internal/lastfm"
)

// Fetcher asks a web service for related artists.
type Fetcher interface {
	GetSimilarArtists(artist string, limit int) ([]lastfm.SimilarArtist, error)
}

// ArtistIndex lists the artists present in the local collection.
type ArtistIndex interface {
	Artists() ([]string, error)
}

// Store caches fetcher answers. *Cache implements it.
type Store interface {
	Get(artist string) ([]lastfm.SimilarArtist, error)
	Set(artist string, similar []lastfm.SimilarArtist) error
}

// Poster hands results back to the control goroutine.
type Poster interface {
	Post(e bus.Event)
}

// Config groups the helper's collaborators.
type Config struct {
	Fetcher Fetcher
	Cache   Store // optional
	Library ArtistIndex
	Poster  Poster
	Limit   int
	Log     *slog.Logger
}

// Helper runs at most one similar-artist lookup at a time and owns the pool.
type Helper struct {
	cfg     Config
	log     *slog.Logger
	running atomic.Bool
	wg      sync.WaitGroup

	// pool is only touched on the control goroutine.
	pool []string
}

// New creates a helper. A zero Limit uses lastfm.DefaultSimilarLimit.
func New(cfg Config) *Helper {
	if cfg.Limit <= 0 {
		cfg.Limit = lastfm.DefaultSimilarLimit
	}
	log := cfg.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Helper{cfg: cfg, log: log}
}

// Attach applies lookup results to the pool on the control goroutine.
func (h *Helper) Attach(b *bus.Bus) {
	bus.On(b, func(ev bus.SimilarArtistsFound) {
		h.pool = ev.Artists
		h.log.Debug("similar pool replaced", "lookup", ev.LookupID, "artist", ev.Artist, "size", len(ev.Artists))
	})
}

// Pool returns a copy of the current pool.
func (h *Helper) Pool() []string {
	return slices.Clone(h.pool)
}

// Refresh starts a background lookup for artist unless one is in flight.
func (h *Helper) Refresh(artist string) {
	if !h.running.CompareAndSwap(false, true) {
		h.log.Debug("similar lookup already running", "artist", artist)
		return
	}
	id := uuid.NewString()
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer h.running.Store(false)
		h.lookup(id, artist)
	}()
}

// Running reports whether a lookup is in flight.
func (h *Helper) Running() bool {
	return h.running.Load()
}

// Wait blocks until the in-flight lookup, if any, has posted its result.
func (h *Helper) Wait() {
	h.wg.Wait()
}

func (h *Helper) lookup(id, artist string) {
	log := h.log.With("lookup", id, "artist", artist)

	similar, err := h.fetch(artist)
	if err != nil {
		log.Warn("similar artists fetch failed", "err", err)
		h.cfg.Poster.Post(bus.SimilarArtistsFound{LookupID: id, Artist: artist})
		return
	}

	known, err := h.cfg.Library.Artists()
	if err != nil {
		log.Warn("library artists lookup failed", "err", err)
		h.cfg.Poster.Post(bus.SimilarArtistsFound{LookupID: id, Artist: artist})
		return
	}

	pool := InLibrary(similar, known)
	log.Debug("similar artists found", "fetched", len(similar), "in_library", len(pool))
	h.cfg.Poster.Post(bus.SimilarArtistsFound{LookupID: id, Artist: artist, Artists: pool})
}

func (h *Helper) fetch(artist string) ([]lastfm.SimilarArtist, error) {
	if h.cfg.Cache != nil {
		cached, err := h.cfg.Cache.Get(artist)
		if err != nil {
			h.log.Warn("similar cache read failed", "artist", artist, "err", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	similar, err := h.cfg.Fetcher.GetSimilarArtists(artist, h.cfg.Limit)
	if err != nil {
		return nil, err
	}
	if h.cfg.Cache != nil {
		if err := h.cfg.Cache.Set(artist, similar); err != nil {
			h.log.Warn("similar cache write failed", "artist", artist, "err", err)
		}
	}
	return similar, nil
}

// InLibrary keeps the similar artists present in the collection, matched
// case-insensitively and returned with the collection's spelling.
func InLibrary(similar []lastfm.SimilarArtist, library []string) []string {
	byLower := lo.SliceToMap(library, func(a string) (string, string) {
		return strings.ToLower(a), a
	})
	return lo.Uniq(lo.FilterMap(similar, func(s lastfm.SimilarArtist, _ int) (string, bool) {
		name, ok := byLower[strings.ToLower(s.Name)]
		return name, ok
	}))
}
