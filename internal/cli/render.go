package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/llehouerou/bluewaves/internal/library"
	"github.com/llehouerou/bluewaves/internal/playback"
	"github.com/llehouerou/bluewaves/internal/player"
	"github.com/llehouerou/bluewaves/internal/playlist"
	"github.com/llehouerou/bluewaves/internal/stats"
)

const defaultWidth = 80

var (
	playerBarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))

	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

func formatDuration(d time.Duration) string {
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}

// fit truncates or pads s to exactly width terminal cells.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.FillRight(runewidth.Truncate(s, width, "..."), width)
}

func stateIcon(s player.State) string {
	switch s {
	case player.Playing:
		return "▶"
	case player.Paused:
		return "⏸"
	case player.Stopped:
		return "■"
	}
	return "■"
}

// nowPlaying renders the bordered status bar for st.
func nowPlaying(st playback.Status, width int) string {
	innerWidth := max(width-2, 0)
	statusPart := " " + stateIcon(st.State) + "  "

	if st.Song == nil {
		return playerBarStyle.Width(innerWidth).Render(statusPart + dimStyle.Render("nothing playing"))
	}
	s := st.Song

	right := " " + formatDuration(s.Duration()) + " "
	trackInfo := s.Title
	if s.Track > 0 {
		trackInfo = fmt.Sprintf("%02d - %s", s.Track, s.Title)
	}
	artistAlbum := s.Artist
	if s.Album != "" {
		artistAlbum = fmt.Sprintf("%s - %s", s.Artist, s.Album)
	}
	if st.AlbumIndex >= 0 {
		artistAlbum += " [album]"
	}

	const minGap = 2
	available := innerWidth - lipgloss.Width(statusPart) - lipgloss.Width(right) - minGap

	// priority: track, then artist and album
	left := trackInfo
	if lipgloss.Width(artistAlbum)+minGap+lipgloss.Width(trackInfo) <= available {
		left = artistAlbum + strings.Repeat(" ", minGap) + trackInfo
	}
	left = statusPart + runewidth.Truncate(left, max(available, 0), "...")

	padding := max(innerWidth-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return playerBarStyle.Width(innerWidth).Render(left + strings.Repeat(" ", padding) + right)
}

// queueLines renders the queue, marking the playing row.
func queueLines(rows []playlist.Row, width int) []string {
	lines := make([]string, 0, len(rows))
	for i, r := range rows {
		marker := "  "
		if r.Playing {
			marker = "▶ "
		}
		var label string
		switch e := r.Entry.(type) {
		case playlist.SongEntry:
			label = fmt.Sprintf("%s - %s", e.Song.Artist, e.Song.Title)
		case playlist.AlbumEntry:
			label = fmt.Sprintf("%s - %s (%d tracks)", e.Album.Artist(), e.Album.Name(), e.Album.Len())
		}
		lines = append(lines, fmt.Sprintf("%s%3d. %s", marker, i+1, fit(label, width-7)))
	}
	return lines
}

// songTable renders ranked songs with their play counts.
func songTable(songs []library.Song, width int) string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render(fmt.Sprintf("%4s  %8s  %s", "#", "plays", "song")))
	sb.WriteByte('\n')
	for i, s := range songs {
		label := fmt.Sprintf("%s - %s", s.Artist, s.Title)
		fmt.Fprintf(&sb, "%4d  %8s  %s\n", i+1, humanize.Comma(int64(s.PlayCount)), fit(label, width-16))
	}
	return sb.String()
}

// albumTable renders ranked albums with their play counts.
func albumTable(rows []stats.AlbumCount, width int) string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render(fmt.Sprintf("%4s  %8s  %s", "#", "plays", "album")))
	sb.WriteByte('\n')
	for i, r := range rows {
		label := fmt.Sprintf("%s - %s", r.Artist, r.Album)
		fmt.Fprintf(&sb, "%4d  %8s  %s\n", i+1, humanize.Comma(int64(r.Tracks)), fit(label, width-16))
	}
	return sb.String()
}
