package playback

import (
	"github.com/llehouerou/bluewaves/internal/library"
	"github.com/llehouerou/bluewaves/internal/player"
)

// StateChange is emitted when the backend state changes.
type StateChange struct {
	Previous player.State
	Current  player.State
}

// TrackChange is emitted when the backend starts a new song.
//
// AlbumIndex is the position inside an album handed over with PlayNewAlbum,
// or -1 for a single song.
type TrackChange struct {
	Song       library.Song
	Gain       player.GainMode
	AlbumIndex int
}

// ErrorEvent is emitted when the backend refuses a request.
type ErrorEvent struct {
	Operation string // e.g., "play"
	Path      string
	Err       error
}
