package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"

	"github.com/llehouerou/bluewaves/internal/library"
	"github.com/llehouerou/bluewaves/internal/playback"
	"github.com/llehouerou/bluewaves/internal/player"
	"github.com/llehouerou/bluewaves/internal/playlist"
	"github.com/llehouerou/bluewaves/internal/stats"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{59 * time.Second, "0:59"},
		{3*time.Minute + 5*time.Second, "3:05"},
		{72 * time.Minute, "72:00"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"pads", "abc", 5, "abc  "},
		{"exact", "abcde", 5, "abcde"},
		{"truncates", "abcdefgh", 5, "ab..."},
		{"zero width", "abc", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fit(tt.in, tt.width))
		})
	}

	assert.Equal(t, 6, runewidth.StringWidth(fit("日本語の歌", 6)))
}

func TestNowPlaying_Idle(t *testing.T) {
	out := nowPlaying(playback.Status{State: player.Stopped, AlbumIndex: -1}, 60)
	assert.Contains(t, out, "nothing playing")
}

func TestNowPlaying_Song(t *testing.T) {
	song := library.Song{Artist: "Artist", Album: "Album", Title: "Song", Track: 3, Length: 185}
	st := playback.Status{State: player.Playing, Song: &song, AlbumIndex: 0}

	out := nowPlaying(st, defaultWidth)

	assert.Contains(t, out, "03 - Song")
	assert.Contains(t, out, "Artist - Album [album]")
	assert.Contains(t, out, "3:05")
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), defaultWidth)
	}
}

func TestNowPlaying_NarrowKeepsTitle(t *testing.T) {
	song := library.Song{Artist: "A Very Long Artist Name", Album: "An Even Longer Album Name", Title: "Tune", Track: 1, Length: 60}
	st := playback.Status{State: player.Paused, Song: &song, AlbumIndex: -1}

	out := nowPlaying(st, 30)

	assert.Contains(t, out, "01 - Tune")
	assert.NotContains(t, out, "Album Name")
}

func TestQueueLines(t *testing.T) {
	album := library.NewAlbum("B", "LP", []library.Song{
		{Filename: "/b/2.flac", Track: 2},
		{Filename: "/b/1.flac", Track: 1},
	})
	rows := []playlist.Row{
		{ID: 1, Entry: playlist.SongEntry{Song: library.Song{Artist: "A", Title: "One"}}},
		{ID: 2, Entry: playlist.AlbumEntry{Album: album}, Playing: true},
	}

	lines := queueLines(rows, 40)

	assert.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "    1. A - One"))
	assert.True(t, strings.HasPrefix(lines[1], "▶   2. B - LP (2 tracks)"))
}

func TestTables(t *testing.T) {
	songs := songTable([]library.Song{{Artist: "A", Title: "One", PlayCount: 1234}}, defaultWidth)
	assert.Contains(t, songs, "1,234")
	assert.Contains(t, songs, "A - One")

	albums := albumTable([]stats.AlbumCount{{Artist: "B", Album: "LP", Tracks: 12}}, defaultWidth)
	assert.Contains(t, albums, "B - LP")
	assert.Contains(t, albums, "12")
}
