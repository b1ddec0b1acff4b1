//go:build linux

package mpris

import (
	"fmt"
	"hash/fnv"
	"log/slog"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/bluewaves/internal/bus"
	"github.com/llehouerou/bluewaves/internal/player"
)

// Surface exposes the player on the session bus as
// org.mpris.MediaPlayer2.bluewaves.
type Surface struct {
	server *server.Server
}

// New creates and starts the MPRIS surface. Media keys become intents
// posted on the bus; properties are read from the status source.
func New(status StatusSource, poster Poster, covers Covers, log *slog.Logger) (*Surface, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &Surface{
		server: server.NewServer("bluewaves", &rootAdapter{}, &playerAdapter{
			status: status,
			poster: poster,
			covers: covers,
		}),
	}

	go func() {
		if err := s.server.Listen(); err != nil {
			log.Warn("mpris server stopped", "err", err)
		}
	}()

	return s, nil
}

// Close stops the surface and releases D-Bus resources.
func (s *Surface) Close() error {
	return s.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil
}

func (r *rootAdapter) Quit() error {
	return nil
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "Bluewaves", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/flac", "audio/ogg", "audio/mpeg"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter.
type playerAdapter struct {
	status StatusSource
	poster Poster
	covers Covers
}

func (p *playerAdapter) Next() error {
	p.poster.Post(bus.NextPressed{})
	return nil
}

func (p *playerAdapter) Previous() error {
	p.poster.Post(bus.PreviousPressed{})
	return nil
}

func (p *playerAdapter) Pause() error {
	if p.status.Status().State == player.Playing {
		p.poster.Post(bus.PlayPressed{})
	}
	return nil
}

func (p *playerAdapter) PlayPause() error {
	p.poster.Post(bus.PlayPressed{})
	return nil
}

func (p *playerAdapter) Stop() error {
	p.poster.Post(bus.StopPressed{})
	return nil
}

func (p *playerAdapter) Play() error {
	if p.status.Status().State != player.Playing {
		p.poster.Post(bus.PlayPressed{})
	}
	return nil
}

func (p *playerAdapter) Seek(_ types.Microseconds) error {
	return nil
}

func (p *playerAdapter) SetPosition(_ string, _ types.Microseconds) error {
	return nil
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	switch p.status.Status().State {
	case player.Playing:
		return types.PlaybackStatusPlaying, nil
	case player.Paused:
		return types.PlaybackStatusPaused, nil
	case player.Stopped:
		return types.PlaybackStatusStopped, nil
	}
	return types.PlaybackStatusStopped, nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	song := p.status.Status().Song
	if song == nil {
		return types.Metadata{}, nil
	}

	meta := types.Metadata{
		TrackId:     dbus.ObjectPath(formatTrackID(song.Filename)),
		Length:      types.Microseconds(song.Duration().Microseconds()),
		Title:       song.Title,
		Artist:      []string{song.Artist},
		Album:       song.Album,
		TrackNumber: song.Track,
		UseCount:    song.PlayCount,
	}
	if song.Genre != "" {
		meta.Genre = []string{song.Genre}
	}
	if art := p.covers.Find(*song); art != "" {
		meta.ArtUrl = "file://" + art
	}
	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetVolume(_ float64) error {
	return nil
}

func (p *playerAdapter) Position() (int64, error) {
	return 0, nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

func formatTrackID(path string) string {
	h := fnv.New64a()
	h.Write([]byte(path))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
