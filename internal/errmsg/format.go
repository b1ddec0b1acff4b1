// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Library operations
	OpLibraryScan Op = "scan library"
	OpLibraryLoad Op = "load library"

	// Statistics
	OpStatsLoad  Op = "load statistics"
	OpStatsPrune Op = "prune statistics"

	// Playlist operations
	OpPlaylistList   Op = "list playlists"
	OpPlaylistCreate Op = "create playlist"
	OpPlaylistDelete Op = "delete playlist"
	OpPlaylistLoad   Op = "load playlist"
	OpPlaylistSave   Op = "save playlist"

	// Queue operations
	OpQueueAdd      Op = "add to queue"
	OpQueuePopulate Op = "fill queue"

	// Playback operations
	OpPlaybackStart Op = "start playback"

	// Similar artists
	OpSimilarLookup Op = "look up similar artists"

	// Media keys
	OpMediaControl Op = "register media controls"

	// Initialization
	OpConfigLoad Op = "load configuration"
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}

// Wrap returns err with the same message as Format, keeping it matchable
// with errors.Is. Returns nil for a nil err.
func Wrap(op Op, err error) error {
	return WrapWith(op, "", err)
}

// WrapWith is Wrap with additional context.
func WrapWith(op Op, context string, err error) error {
	if err == nil {
		return nil
	}
	return &opError{msg: FormatWith(op, context, err), err: err}
}

type opError struct {
	msg string
	err error
}

func (e *opError) Error() string { return e.msg }
func (e *opError) Unwrap() error { return e.err }
