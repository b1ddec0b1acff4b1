// Package playlist owns the play queue and decides what plays next.
//
// The Engine is not safe for concurrent use. Every method runs on the bus
// control goroutine; background work reaches it only through bus events.
package playlist

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/samber/lo"

	"github.com/llehouerou/bluewaves/internal/bus"
	"github.com/llehouerou/bluewaves/internal/library"
	"github.com/llehouerou/bluewaves/internal/player"
	"github.com/llehouerou/bluewaves/internal/stats"
)

// Auto playlist sizes.
const (
	TopSongsLimit  = 50
	TopAlbumsLimit = 10
)

// ErrUnknownEntry is returned for an ID absent from the queue.
var ErrUnknownEntry = errors.New("unknown queue entry")

// Emitter publishes outbound signals.
type Emitter interface {
	Publish(e bus.Event)
}

// Library is the repository view the engine resolves songs and albums from.
type Library interface {
	SongByFilename(filename string) (library.Song, error)
	Album(artist, name string) (library.Album, error)
	ArtistSongs(artist string) ([]library.Song, error)
}

// Stats records plays and feeds the auto playlists.
type Stats interface {
	IncrementSong(filename string) error
	IncrementAlbum(artist, album string) error
	IncrementArtist(artist string) error
	TopSongs(limit int) ([]library.Song, error)
	TopAlbums(limit int) ([]stats.AlbumCount, error)
}

// Similar supplies the similar-artist pool.
type Similar interface {
	Refresh(artist string)
	Pool() []string
}

// Deps groups the engine's collaborators.
type Deps struct {
	Emitter Emitter
	Library Library
	Stats   Stats
	Similar Similar
	Rand    *rand.Rand // nil uses a randomly seeded source
	Log     *slog.Logger
}

// Row is one displayed queue line.
type Row struct {
	ID      ID
	Entry   Entry
	Playing bool
}

// Engine is the playlist sequencing state machine.
type Engine struct {
	emit     Emitter
	lib      Library
	stats    Stats
	similar  Similar
	rng      *rand.Rand
	log      *slog.Logger
	settings Settings

	queue  *Queue
	cursor *Cursor
	marked *ID
}

// New creates an engine with an empty queue.
func New(deps Deps, settings Settings) *Engine {
	rng := deps.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	log := deps.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		emit:     deps.Emitter,
		lib:      deps.Library,
		stats:    deps.Stats,
		similar:  deps.Similar,
		rng:      rng,
		log:      log,
		settings: settings,
		queue:    NewQueue(),
	}
}

// Attach subscribes the engine to its inbound signals.
func (e *Engine) Attach(b *bus.Bus) {
	bus.On(b, func(ev bus.SongQueued) { e.EnqueueSong(ev.Song) })
	bus.On(b, func(ev bus.AlbumQueued) {
		if _, err := e.EnqueueAlbum(ev.Album); err != nil {
			e.log.Error("album not queued", "err", err)
		}
	})
	bus.On(b, func(bus.AskNextSong) { e.Advance(Next) })
	bus.On(b, func(bus.AskPreviousSong) { e.Advance(Previous) })
	bus.On(b, func(ev bus.HasStartedSong) { e.RecordSongStarted(ev.Song) })
}

// EnqueueSong appends a song. Playback is unaffected.
func (e *Engine) EnqueueSong(s library.Song) ID {
	id := e.queue.Append(SongEntry{Song: s})
	e.queueChanged()
	return id
}

// EnqueueAlbum appends an album. Playback is unaffected. A not-loaded or
// empty album is refused with library.ErrNotLoaded.
func (e *Engine) EnqueueAlbum(a library.Album) (ID, error) {
	if !a.Loaded() || a.Len() == 0 {
		return 0, fmt.Errorf("enqueue album: %w", library.ErrNotLoaded)
	}
	id := e.queue.Append(AlbumEntry{Album: a})
	e.queueChanged()
	return id, nil
}

// Remove deletes an entry. Removing the playing entry resets the cursor but
// never stops the backend.
func (e *Engine) Remove(id ID) error {
	if !e.queue.Remove(id) {
		return fmt.Errorf("remove %d: %w", id, ErrUnknownEntry)
	}
	if e.cursor != nil && e.cursor.ID == id {
		e.cursor = nil
	}
	if e.marked != nil && *e.marked == id {
		e.marked = nil
	}
	e.queueChanged()
	return nil
}

// Clear empties the queue and resets the cursor without stopping playback.
func (e *Engine) Clear() {
	e.queue.Clear()
	e.cursor = nil
	e.marked = nil
	e.queueChanged()
}

// Move reorders an entry to position to.
func (e *Engine) Move(id ID, to int) error {
	if !e.queue.Move(id, to) {
		return fmt.Errorf("move %d to %d: %w", id, to, ErrUnknownEntry)
	}
	e.queueChanged()
	return nil
}

// PlayActivated makes id current and starts it: the song itself, or the
// first track of an album.
func (e *Engine) PlayActivated(id ID) error {
	pos := e.queue.IndexOf(id)
	if pos < 0 {
		return fmt.Errorf("play %d: %w", id, ErrUnknownEntry)
	}
	e.playAt(pos)
	return nil
}

// Advance picks and starts the next or previous track.
//
// Inside an album the cursor moves track by track; past either album end it
// continues at queue level. At the queue ends it wraps when repeat is on and
// aborts otherwise. With an empty queue it falls back to shuffle, or aborts
// when shuffle is off.
func (e *Engine) Advance(dir Direction) {
	if e.cursor != nil && e.cursor.InAlbum() {
		if entry, ok := e.queue.Get(e.cursor.ID); ok {
			if a, ok := entry.(AlbumEntry); ok {
				next := e.cursor.Track + dir.step()
				if next >= 0 && next < a.Album.Len() {
					e.cursor.Track = next
					e.play(a.Album.Track(next), player.GainAlbum)
					return
				}
			}
		}
	}

	if e.queue.Len() > 0 {
		e.advanceInQueue(dir)
		return
	}
	e.shuffle()
}

func (e *Engine) advanceInQueue(dir Direction) {
	n := e.queue.Len()

	var pos int
	switch {
	case e.cursor != nil:
		pos = e.queue.IndexOf(e.cursor.ID)
	case dir == Next:
		pos = -1
	default:
		pos = n
	}
	pos += dir.step()

	if pos < 0 || pos >= n {
		if !e.settings.Repeat {
			e.log.Debug("end of queue reached", "direction", dir)
			e.abort()
			return
		}
		if pos < 0 {
			pos = n - 1
		} else {
			pos = 0
		}
	}
	e.playAt(pos)
}

func (e *Engine) playAt(pos int) {
	id, entry := e.queue.At(pos)
	switch it := entry.(type) {
	case SongEntry:
		e.cursor = &Cursor{ID: id, Track: -1}
		e.play(it.Song, player.GainTrack)
	case AlbumEntry:
		e.cursor = &Cursor{ID: id, Track: 0}
		e.play(it.Album.Track(0), player.GainAlbum)
	}
}

func (e *Engine) shuffle() {
	if !e.settings.Shuffle {
		e.abort()
		return
	}
	if e.settings.ShuffleMode == ShuffleSimilar {
		if s, ok := e.pickSimilar(); ok {
			e.play(s, player.GainTrack)
			return
		}
	}
	e.emit.Publish(bus.AskShuffleSong{})
}

// pickSimilar draws a song by a random pool artist. It needs at least two
// songs by that artist.
func (e *Engine) pickSimilar() (library.Song, bool) {
	if e.similar == nil {
		return library.Song{}, false
	}
	pool := e.similar.Pool()
	if len(pool) == 0 {
		e.log.Debug("similar pool empty, falling back to random")
		return library.Song{}, false
	}

	artist := pool[e.rng.IntN(len(pool))]
	songs, err := e.lib.ArtistSongs(artist)
	if err != nil {
		e.log.Warn("similar artist songs lookup failed", "artist", artist, "err", err)
		return library.Song{}, false
	}
	if len(songs) < 2 {
		e.log.Debug("too few songs for similar artist", "artist", artist, "songs", len(songs))
		return library.Song{}, false
	}
	return songs[e.rng.IntN(len(songs))], true
}

func (e *Engine) play(s library.Song, gain player.GainMode) {
	e.emit.Publish(bus.PlayNewSong{Song: s, Gain: gain})
}

func (e *Engine) abort() {
	e.cursor = nil
	e.emit.Publish(bus.AbortPlayback{})
}

// RecordSongStarted counts a confirmed play, refreshes the similar pool in
// similar mode and moves the playing marker to the cursor's row.
func (e *Engine) RecordSongStarted(s library.Song) {
	if e.stats != nil {
		if err := e.stats.IncrementSong(s.Filename); err != nil {
			e.log.Error("song stats update failed", "filename", s.Filename, "err", err)
		}
		if err := e.stats.IncrementAlbum(s.Artist, s.Album); err != nil {
			e.log.Error("album stats update failed", "artist", s.Artist, "album", s.Album, "err", err)
		}
		if err := e.stats.IncrementArtist(s.Artist); err != nil {
			e.log.Error("artist stats update failed", "artist", s.Artist, "err", err)
		}
	}

	if e.settings.ShuffleMode == ShuffleSimilar && e.similar != nil {
		e.similar.Refresh(s.Artist)
	}

	if e.cursor != nil {
		id := e.cursor.ID
		e.marked = &id
	} else {
		e.marked = nil
	}
}

// LoadSongs replaces the queue with the given files, in order. Files missing
// from the library are skipped. Returns the number queued.
func (e *Engine) LoadSongs(filenames []string) int {
	e.Clear()
	n := 0
	for _, f := range filenames {
		s, err := e.lib.SongByFilename(f)
		if err != nil {
			e.log.Warn("playlist entry skipped", "filename", f, "err", err)
			continue
		}
		e.queue.Append(SongEntry{Song: s})
		n++
	}
	e.queueChanged()
	return n
}

// PopulateTopSongs replaces the queue with the most played songs.
func (e *Engine) PopulateTopSongs(limit int) (int, error) {
	songs, err := e.stats.TopSongs(limit)
	if err != nil {
		return 0, fmt.Errorf("top songs: %w", err)
	}
	e.Clear()
	for _, s := range songs {
		e.queue.Append(SongEntry{Song: s})
	}
	e.queueChanged()
	return len(songs), nil
}

// PopulateTopAlbums replaces the queue with the most played albums still in
// the library.
func (e *Engine) PopulateTopAlbums(limit int) (int, error) {
	top, err := e.stats.TopAlbums(limit)
	if err != nil {
		return 0, fmt.Errorf("top albums: %w", err)
	}
	e.Clear()
	n := 0
	for _, t := range top {
		a, err := e.lib.Album(t.Artist, t.Album)
		if err != nil {
			return n, fmt.Errorf("load album %s - %s: %w", t.Artist, t.Album, err)
		}
		if !a.Loaded() {
			continue
		}
		e.queue.Append(AlbumEntry{Album: a})
		n++
	}
	e.queueChanged()
	return n, nil
}

// Rows returns the display lines. At most one row is marked as playing.
func (e *Engine) Rows() []Row {
	rows := make([]Row, 0, e.queue.Len())
	for i := range e.queue.Len() {
		id, entry := e.queue.At(i)
		rows = append(rows, Row{
			ID:      id,
			Entry:   entry,
			Playing: e.marked != nil && *e.marked == id,
		})
	}
	return rows
}

// Entries returns the queued items in display order.
func (e *Engine) Entries() []Entry {
	return lo.Map(e.queue.IDs(), func(id ID, _ int) Entry {
		entry, _ := e.queue.Get(id)
		return entry
	})
}

// Filenames returns the queued songs' filenames in order. Albums are skipped.
func (e *Engine) Filenames() []string {
	return SongFilenames(e.Entries())
}

// SongFilenames keeps the song entries' filenames, in order.
func SongFilenames(entries []Entry) []string {
	return lo.FilterMap(entries, func(en Entry, _ int) (string, bool) {
		s, ok := en.(SongEntry)
		return s.Song.Filename, ok
	})
}

// Cursor returns the current cursor, or false when nothing from the queue is
// playing.
func (e *Engine) Cursor() (Cursor, bool) {
	if e.cursor == nil {
		return Cursor{}, false
	}
	return *e.cursor, true
}

// Len returns the number of queued entries.
func (e *Engine) Len() int {
	return e.queue.Len()
}

// Settings returns the current sequencing switches.
func (e *Engine) Settings() Settings {
	return e.settings
}

// ToggleRepeat flips repeat and returns the new value.
func (e *Engine) ToggleRepeat() bool {
	e.settings.Repeat = !e.settings.Repeat
	return e.settings.Repeat
}

// ToggleShuffle flips shuffle and returns the new value.
func (e *Engine) ToggleShuffle() bool {
	e.settings.Shuffle = !e.settings.Shuffle
	return e.settings.Shuffle
}

// SetShuffleMode selects the strategy used once the queue is exhausted.
func (e *Engine) SetShuffleMode(m ShuffleMode) {
	e.settings.ShuffleMode = m
}

func (e *Engine) queueChanged() {
	e.emit.Publish(bus.QueueChanged{Len: e.queue.Len()})
}
