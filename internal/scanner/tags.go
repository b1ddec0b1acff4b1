package scanner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"go.senan.xyz/taglib"

	"github.com/llehouerou/bluewaves/internal/library"
)

// Supported file extensions, lower case.
const (
	ExtFLAC = ".flac"
	ExtOGG  = ".ogg"
	ExtOGA  = ".oga"
	ExtMP3  = ".mp3"
)

// ErrMissingTags is returned for files lacking a title, artist, album or
// track number.
var ErrMissingTags = errors.New("missing required tags")

// IsMusicFile reports whether path has a supported extension.
func IsMusicFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtFLAC, ExtOGG, ExtOGA, ExtMP3:
		return true
	}
	return false
}

// ReadSong reads the tags of one file into a Song.
func ReadSong(path string) (library.Song, error) {
	s, err := readWithTag(path)
	if err != nil {
		// dhowden/tag fails on some Ogg and FLAC layouts
		s, err = readWithTaglib(path)
		if err != nil {
			return library.Song{}, err
		}
	}

	if props, err := taglib.ReadProperties(path); err == nil {
		s.Length = int(props.Length.Round(time.Second) / time.Second)
	}

	if s.Title == "" || s.Artist == "" || s.Album == "" || s.Track == 0 {
		return library.Song{}, fmt.Errorf("%s: %w", path, ErrMissingTags)
	}
	return s, nil
}

func readWithTag(path string) (library.Song, error) {
	f, err := os.Open(path)
	if err != nil {
		return library.Song{}, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return library.Song{}, err
	}
	track, _ := m.Track()
	return library.Song{
		Filename: path,
		Title:    m.Title(),
		Artist:   m.Artist(),
		Album:    m.Album(),
		Comment:  m.Comment(),
		Genre:    m.Genre(),
		Year:     yearString(m.Year()),
		Track:    track,
	}, nil
}

type taglibTags map[string][]string

func (t taglibTags) get(key string) string {
	if values := t[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

func readWithTaglib(path string) (library.Song, error) {
	raw, err := taglib.ReadTags(path)
	if err != nil {
		return library.Song{}, err
	}
	t := taglibTags(raw)
	return library.Song{
		Filename: path,
		Title:    t.get(taglib.Title),
		Artist:   t.get(taglib.Artist),
		Album:    t.get(taglib.Album),
		Comment:  t.get("COMMENT"),
		Genre:    t.get(taglib.Genre),
		Year:     yearFromDate(t.get(taglib.Date)),
		Track:    parseTrack(t.get(taglib.TrackNumber)),
	}, nil
}

// parseTrack reads "3" or "3/12".
func parseTrack(s string) int {
	if i := strings.Index(s, "/"); i >= 0 {
		s = s[:i]
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func yearString(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year)
}

// yearFromDate keeps the year of "2004-05-01" style dates.
func yearFromDate(date string) string {
	if len(date) > 4 {
		return date[:4]
	}
	return date
}
