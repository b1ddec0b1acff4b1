package player

// State is the backend's playback state.
//
// Valid transitions:
//   - Stopped → Playing (Play)
//   - Playing ↔ Paused  (Toggle)
//   - Playing, Paused → Stopped (Stop)
//
// Toggle is a no-op while Stopped.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

// String returns the state name, matching the MPRIS PlaybackStatus values.
func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if a track is loaded (Playing or Paused).
func (s State) IsActive() bool {
	return s == Playing || s == Paused
}
