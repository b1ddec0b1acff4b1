package bus

import (
	"github.com/llehouerou/bluewaves/internal/library"
	"github.com/llehouerou/bluewaves/internal/player"
)

// Kind names a signal.
type Kind string

const (
	KindSongsTreeCreated    Kind = "songs-tree-created"
	KindSongQueued          Kind = "song-queued"
	KindAlbumQueued         Kind = "album-queued"
	KindAskNextSong         Kind = "ask-next-song"
	KindAskPreviousSong     Kind = "ask-previous-song"
	KindAskShuffleSong      Kind = "ask-shuffle-song"
	KindPlayNewSong         Kind = "play-new-song"
	KindPlayNewAlbum        Kind = "play-new-album"
	KindAbortPlayback       Kind = "abort-playback"
	KindHasStartedSong      Kind = "has-started-song"
	KindPlayPressed         Kind = "play-pressed"
	KindStopPressed         Kind = "stop-pressed"
	KindNextPressed         Kind = "next-pressed"
	KindPreviousPressed     Kind = "previous-pressed"
	KindSimilarArtistsFound Kind = "similar-artists-found"
	KindQueueChanged        Kind = "queue-changed"
)

// Kinds lists every registered signal.
var Kinds = []Kind{
	KindSongsTreeCreated,
	KindSongQueued,
	KindAlbumQueued,
	KindAskNextSong,
	KindAskPreviousSong,
	KindAskShuffleSong,
	KindPlayNewSong,
	KindPlayNewAlbum,
	KindAbortPlayback,
	KindHasStartedSong,
	KindPlayPressed,
	KindStopPressed,
	KindNextPressed,
	KindPreviousPressed,
	KindSimilarArtistsFound,
	KindQueueChanged,
}

// Event is a typed signal payload.
type Event interface {
	Kind() Kind
}

// SongsTreeCreated is posted after a library rescan with the new collection.
type SongsTreeCreated struct {
	Snapshot *library.Snapshot
}

// SongQueued asks the playlist to append a song.
type SongQueued struct {
	Song library.Song
}

// AlbumQueued asks the playlist to append an album.
type AlbumQueued struct {
	Album library.Album
}

// AskNextSong asks the playlist for the track after Current.
type AskNextSong struct {
	Current *library.Song
}

// AskPreviousSong asks the playlist for the track before Current.
type AskPreviousSong struct {
	Current *library.Song
}

// AskShuffleSong asks the collection for a random song. The answer is a
// PlayNewSong.
type AskShuffleSong struct{}

// PlayNewSong instructs the backend to play one song.
type PlayNewSong struct {
	Song library.Song
	Gain player.GainMode
}

// PlayNewAlbum hands a whole album to the playback controller, which walks
// it on its own and stops at either end.
type PlayNewAlbum struct {
	Album library.Album
}

// AbortPlayback stops the backend.
type AbortPlayback struct{}

// HasStartedSong confirms the backend started Song.
type HasStartedSong struct {
	Song library.Song
}

type PlayPressed struct{}

type StopPressed struct{}

type NextPressed struct{}

type PreviousPressed struct{}

// SimilarArtistsFound carries the result of one similar-artist lookup.
// Artists only holds names present in the local collection.
type SimilarArtistsFound struct {
	LookupID string
	Artist   string
	Artists  []string
}

// QueueChanged reports the queue length after a mutation.
type QueueChanged struct {
	Len int
}

func (SongsTreeCreated) Kind() Kind    { return KindSongsTreeCreated }
func (SongQueued) Kind() Kind          { return KindSongQueued }
func (AlbumQueued) Kind() Kind         { return KindAlbumQueued }
func (AskNextSong) Kind() Kind         { return KindAskNextSong }
func (AskPreviousSong) Kind() Kind     { return KindAskPreviousSong }
func (AskShuffleSong) Kind() Kind      { return KindAskShuffleSong }
func (PlayNewSong) Kind() Kind         { return KindPlayNewSong }
func (PlayNewAlbum) Kind() Kind        { return KindPlayNewAlbum }
func (AbortPlayback) Kind() Kind       { return KindAbortPlayback }
func (HasStartedSong) Kind() Kind      { return KindHasStartedSong }
func (PlayPressed) Kind() Kind         { return KindPlayPressed }
func (StopPressed) Kind() Kind         { return KindStopPressed }
func (NextPressed) Kind() Kind         { return KindNextPressed }
func (PreviousPressed) Kind() Kind     { return KindPreviousPressed }
func (SimilarArtistsFound) Kind() Kind { return KindSimilarArtistsFound }
func (QueueChanged) Kind() Kind        { return KindQueueChanged }
