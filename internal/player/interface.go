// Package player defines the playback backend contract.
package player

// GainMode is the replay-gain normalisation hint for one play request.
type GainMode string

const (
	GainTrack GainMode = "track"
	GainAlbum GainMode = "album"
)

// Request asks the backend to start one file. The gain hint lives here
// rather than on the song so songs stay immutable.
type Request struct {
	Path string
	Gain GainMode
}

// Interface defines the player contract for dependency injection and testing.
type Interface interface {
	Play(req Request) error
	Stop()
	Toggle()
	State() State
}
