// Package notify announces track changes as desktop notifications.
package notify

import (
	"context"
	"log/slog"

	"github.com/llehouerou/bluewaves/internal/library"
	"github.com/llehouerou/bluewaves/internal/playback"
)

// Notification is one freedesktop notification.
type Notification struct {
	Summary    string
	Body       string
	Icon       string // image path or icon name
	Timeout    int32  // ms, -1 = server default
	ReplacesID uint32 // 0 = new notification
}

// Sender delivers notifications. Send returns the server-assigned id, or 0
// when notifications are unavailable.
type Sender interface {
	Send(n Notification) (uint32, error)
}

// CoverFinder locates cover art for a song.
type CoverFinder interface {
	Find(s library.Song) string
}

const defaultTimeout = 5000

// Announcer keeps a single "now playing" notification up to date.
type Announcer struct {
	sender Sender
	covers CoverFinder
	log    *slog.Logger
	last   uint32
}

// NewAnnouncer creates an announcer. covers may be nil.
func NewAnnouncer(sender Sender, covers CoverFinder, log *slog.Logger) *Announcer {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Announcer{sender: sender, covers: covers, log: log}
}

// Message builds the notification for s.
func Message(s library.Song) Notification {
	body := s.Artist
	if s.Album != "" {
		body += " - " + s.Album
	}
	return Notification{Summary: s.Title, Body: body, Timeout: defaultTimeout}
}

// Announce shows s, replacing the previous announcement.
func (a *Announcer) Announce(s library.Song) {
	n := Message(s)
	n.ReplacesID = a.last
	if a.covers != nil {
		n.Icon = a.covers.Find(s)
	}
	id, err := a.sender.Send(n)
	if err != nil {
		a.log.Debug("notification failed", "err", err)
		return
	}
	a.last = id
}

// Run announces every track change on sub until ctx is done or the
// subscription closes.
func (a *Announcer) Run(ctx context.Context, sub *playback.Subscription) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done:
			return
		case tc := <-sub.TrackChanged:
			a.Announce(tc.Song)
		}
	}
}
