package notify

import (
	"context"
	"errors"
	"testing"
	"testing/synctest"

	"github.com/llehouerou/bluewaves/internal/bus"
	"github.com/llehouerou/bluewaves/internal/library"
	"github.com/llehouerou/bluewaves/internal/playback"
	"github.com/llehouerou/bluewaves/internal/player"
)

type fakeSender struct {
	sent []Notification
	next uint32
	err  error
}

func (f *fakeSender) Send(n Notification) (uint32, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.sent = append(f.sent, n)
	f.next++
	return f.next, nil
}

type fixedCover string

func (c fixedCover) Find(library.Song) string { return string(c) }

func TestMessage(t *testing.T) {
	tests := []struct {
		song library.Song
		want Notification
	}{
		{
			library.Song{Title: "T", Artist: "A", Album: "L"},
			Notification{Summary: "T", Body: "A - L", Timeout: defaultTimeout},
		},
		{
			library.Song{Title: "T", Artist: "A"},
			Notification{Summary: "T", Body: "A", Timeout: defaultTimeout},
		},
	}
	for _, tt := range tests {
		if got := Message(tt.song); got != tt.want {
			t.Errorf("Message(%+v) = %+v, want %+v", tt.song, got, tt.want)
		}
	}
}

func TestAnnounce_ReplacesPrevious(t *testing.T) {
	s := &fakeSender{}
	a := NewAnnouncer(s, fixedCover("/covers/x.jpg"), nil)

	a.Announce(library.Song{Title: "One"})
	a.Announce(library.Song{Title: "Two"})

	if len(s.sent) != 2 {
		t.Fatalf("sent %d notifications, want 2", len(s.sent))
	}
	if s.sent[0].ReplacesID != 0 {
		t.Errorf("first ReplacesID = %d, want 0", s.sent[0].ReplacesID)
	}
	if s.sent[1].ReplacesID != 1 {
		t.Errorf("second ReplacesID = %d, want 1", s.sent[1].ReplacesID)
	}
	if s.sent[1].Icon != "/covers/x.jpg" {
		t.Errorf("Icon = %q", s.sent[1].Icon)
	}
}

func TestAnnounce_ErrorKeepsLastID(t *testing.T) {
	s := &fakeSender{}
	a := NewAnnouncer(s, nil, nil)
	a.Announce(library.Song{Title: "One"})

	s.err = errors.New("no server")
	a.Announce(library.Song{Title: "Two"})

	s.err = nil
	a.Announce(library.Song{Title: "Three"})
	if got := s.sent[len(s.sent)-1].ReplacesID; got != 1 {
		t.Errorf("ReplacesID after failure = %d, want 1", got)
	}
}

func TestRun_AnnouncesTrackChanges(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := playback.New(player.NewMock(), bus.New(nil), nil)
		s := &fakeSender{}
		a := NewAnnouncer(s, nil, nil)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go a.Run(ctx, ctrl.Subscribe())

		ctrl.PlaySong(library.Song{Filename: "/a.mp3", Title: "A"}, player.GainTrack)
		synctest.Wait()

		if len(s.sent) != 1 || s.sent[0].Summary != "A" {
			t.Errorf("sent = %+v, want one notification for A", s.sent)
		}

		ctrl.Close()
		synctest.Wait()
	})
}
