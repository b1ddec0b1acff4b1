// Package library is the read-side view over the persisted song metadata.
package library

import (
	"cmp"
	"errors"
	"slices"
	"time"
)

var (
	// ErrNotFound is returned when no song matches a filename.
	ErrNotFound = errors.New("song not found")

	// ErrNotLoaded is the panic value raised when a not-loaded Album is used.
	ErrNotLoaded = errors.New("album not loaded")
)

// Song is one indexed track. The filename is its identity.
type Song struct {
	Filename string `db:"filename"`
	Title    string `db:"title"`
	Artist   string `db:"artist"`
	Album    string `db:"album"`
	Comment  string `db:"comment"`
	Genre    string `db:"genre"`
	Year     string `db:"year"`
	Track    int    `db:"track"`
	Length   int    `db:"length"` // seconds

	// PlayCount is read from the statistics table when the song is loaded.
	PlayCount int `db:"play_count"`
}

// Duration returns the song length as a time.Duration.
func (s Song) Duration() time.Duration {
	return time.Duration(s.Length) * time.Second
}

// Album is the aggregate of all songs sharing an (artist, name) pair in a
// collection snapshot.
//
// The zero Album is not loaded. Every accessor except Loaded panics with
// ErrNotLoaded on a not-loaded Album: callers must check Loaded first.
type Album struct {
	artist    string
	name      string
	tracks    []Song
	playCount int
	loaded    bool
}

// NewAlbum builds a loaded album, ordering tracks by track number.
func NewAlbum(artist, name string, tracks []Song) Album {
	sorted := slices.Clone(tracks)
	slices.SortStableFunc(sorted, func(a, b Song) int {
		return cmp.Compare(a.Track, b.Track)
	})
	return Album{
		artist: artist,
		name:   name,
		tracks: sorted,
		loaded: true,
	}
}

// WithPlayCount returns a copy of the album carrying the given play count.
func (a Album) WithPlayCount(n int) Album {
	a.mustBeLoaded()
	a.playCount = n
	return a
}

// Loaded reports whether the album resolved against the collection.
func (a Album) Loaded() bool { return a.loaded }

func (a Album) Artist() string {
	a.mustBeLoaded()
	return a.artist
}

func (a Album) Name() string {
	a.mustBeLoaded()
	return a.name
}

func (a Album) PlayCount() int {
	a.mustBeLoaded()
	return a.playCount
}

// Len returns the number of tracks.
func (a Album) Len() int {
	a.mustBeLoaded()
	return len(a.tracks)
}

// Track returns the track at index i.
func (a Album) Track(i int) Song {
	a.mustBeLoaded()
	return a.tracks[i]
}

// Tracks returns a copy of the ordered track list.
func (a Album) Tracks() []Song {
	a.mustBeLoaded()
	return slices.Clone(a.tracks)
}

func (a Album) mustBeLoaded() {
	if !a.loaded {
		panic(ErrNotLoaded)
	}
}
