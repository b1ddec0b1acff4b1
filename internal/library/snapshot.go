package library

import (
	"slices"
	"strings"
)

// Snapshot is an immutable artist -> album -> songs tree built from one read
// of the songs table.
type Snapshot struct {
	tree      map[string]map[string][]Song
	filenames map[string]struct{}
	songs     []Song
}

// NewSnapshot groups songs by artist and album.
func NewSnapshot(songs []Song) *Snapshot {
	s := &Snapshot{
		tree:      make(map[string]map[string][]Song),
		filenames: make(map[string]struct{}, len(songs)),
		songs:     slices.Clone(songs),
	}
	for _, song := range songs {
		albums, ok := s.tree[song.Artist]
		if !ok {
			albums = make(map[string][]Song)
			s.tree[song.Artist] = albums
		}
		albums[song.Album] = append(albums[song.Album], song)
		s.filenames[song.Filename] = struct{}{}
	}
	return s
}

// Album resolves an album in this snapshot. The result is not loaded when
// the pair is absent.
func (s *Snapshot) Album(artist, name string) Album {
	tracks, ok := s.tree[artist][name]
	if !ok || len(tracks) == 0 {
		return Album{}
	}
	return NewAlbum(artist, name, tracks)
}

// Artists returns all artist names, sorted case-insensitively.
func (s *Snapshot) Artists() []string {
	artists := make([]string, 0, len(s.tree))
	for a := range s.tree {
		artists = append(artists, a)
	}
	slices.SortFunc(artists, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	return artists
}

func (s *Snapshot) HasArtist(artist string) bool {
	_, ok := s.tree[artist]
	return ok
}

func (s *Snapshot) HasAlbum(artist, album string) bool {
	_, ok := s.tree[artist][album]
	return ok
}

func (s *Snapshot) HasSong(filename string) bool {
	_, ok := s.filenames[filename]
	return ok
}

// Songs returns every song in the order the snapshot was built from.
func (s *Snapshot) Songs() []Song {
	return slices.Clone(s.songs)
}

// Len returns the number of songs.
func (s *Snapshot) Len() int {
	return len(s.songs)
}
