package playlist

import "strings"

// ShuffleMode selects how a song is picked once the queue is exhausted.
type ShuffleMode string

const (
	ShuffleRandom  ShuffleMode = "random"
	ShuffleSimilar ShuffleMode = "similar"
)

// ParseShuffleMode maps a config value to a mode. Unknown values map to
// ShuffleRandom.
func ParseShuffleMode(s string) ShuffleMode {
	if strings.EqualFold(strings.TrimSpace(s), string(ShuffleSimilar)) {
		return ShuffleSimilar
	}
	return ShuffleRandom
}

// Settings holds the process-wide sequencing switches.
type Settings struct {
	Repeat      bool
	Shuffle     bool
	ShuffleMode ShuffleMode
}

// DefaultSettings returns repeat and shuffle on, in random mode.
func DefaultSettings() Settings {
	return Settings{Repeat: true, Shuffle: true, ShuffleMode: ShuffleRandom}
}

// Direction is the way Advance moves.
type Direction int

const (
	Next Direction = iota
	Previous
)

func (d Direction) step() int {
	if d == Previous {
		return -1
	}
	return 1
}

func (d Direction) String() string {
	if d == Previous {
		return "previous"
	}
	return "next"
}

// Cursor points at the playing queue entry. Track is the index inside an
// album entry, or -1 for a song entry.
type Cursor struct {
	ID    ID
	Track int
}

// InAlbum reports whether the cursor is inside an album entry.
func (c Cursor) InAlbum() bool {
	return c.Track >= 0
}
