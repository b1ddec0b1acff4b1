package library

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/llehouerou/bluewaves/internal/db"
)

const songColumns = `
	s.filename, s.title, s.artist, s.album, s.comment, s.genre, s.year, s.track, s.length,
	COALESCE(st.tracks, 0) AS play_count`

const songsFrom = `
	FROM songs s
	LEFT JOIN stats_songs st ON st.filename = s.filename`

// Repository answers song and album lookups against the songs table.
type Repository struct {
	db *db.DB
}

func New(d *db.DB) *Repository {
	return &Repository{db: d}
}

// SongByFilename loads one song. Returns ErrNotFound when absent.
func (r *Repository) SongByFilename(filename string) (Song, error) {
	var s Song
	err := r.db.Shared(func(q *sqlx.DB) error {
		return q.Get(&s, `SELECT `+songColumns+songsFrom+` WHERE s.filename = ?`, filename)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return Song{}, fmt.Errorf("%s: %w", filename, ErrNotFound)
	}
	if err != nil {
		return Song{}, err
	}
	return s, nil
}

// Songs returns every song ordered by artist, album and title.
func (r *Repository) Songs() ([]Song, error) {
	var songs []Song
	err := r.db.Shared(func(q *sqlx.DB) error {
		return q.Select(&songs, `SELECT `+songColumns+songsFrom+`
			ORDER BY s.artist COLLATE NOCASE, s.album COLLATE NOCASE, s.title COLLATE NOCASE`)
	})
	return songs, err
}

// Snapshot reads the whole collection into an artist/album tree.
func (r *Repository) Snapshot() (*Snapshot, error) {
	songs, err := r.Songs()
	if err != nil {
		return nil, err
	}
	return NewSnapshot(songs), nil
}

// Album resolves an album by artist and name. The returned album is not
// loaded when no song matches the pair.
func (r *Repository) Album(artist, name string) (Album, error) {
	var (
		songs     []Song
		playCount int
	)
	err := r.db.Shared(func(q *sqlx.DB) error {
		if err := q.Select(&songs, `SELECT `+songColumns+songsFrom+`
			WHERE s.artist = ? AND s.album = ?
			ORDER BY s.track, s.title COLLATE NOCASE`, artist, name); err != nil {
			return err
		}
		err := q.Get(&playCount, `SELECT tracks FROM stats_albums WHERE artist = ? AND album = ?`, artist, name)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	})
	if err != nil {
		return Album{}, err
	}
	if len(songs) == 0 {
		return Album{}, nil
	}
	return NewAlbum(artist, name, songs).WithPlayCount(playCount), nil
}

// ArtistSongs returns all songs by an artist ordered by album then title.
func (r *Repository) ArtistSongs(artist string) ([]Song, error) {
	var songs []Song
	err := r.db.Shared(func(q *sqlx.DB) error {
		return q.Select(&songs, `SELECT `+songColumns+songsFrom+`
			WHERE s.artist = ?
			ORDER BY s.album COLLATE NOCASE, s.title COLLATE NOCASE`, artist)
	})
	return songs, err
}

// ArtistExists reports whether at least one song has the given artist.
func (r *Repository) ArtistExists(artist string) (bool, error) {
	var count int
	err := r.db.Shared(func(q *sqlx.DB) error {
		return q.Get(&count, `SELECT COUNT(*) FROM songs WHERE artist = ?`, artist)
	})
	return count > 0, err
}

// Artists returns all distinct artists sorted case-insensitively.
func (r *Repository) Artists() ([]string, error) {
	var artists []string
	err := r.db.Shared(func(q *sqlx.DB) error {
		return q.Select(&artists, `SELECT DISTINCT artist FROM songs ORDER BY artist COLLATE NOCASE`)
	})
	return artists, err
}

// Count returns the number of indexed songs.
func (r *Repository) Count() (int, error) {
	var count int
	err := r.db.Shared(func(q *sqlx.DB) error {
		return q.Get(&count, `SELECT COUNT(*) FROM songs`)
	})
	return count, err
}

// Replace deletes every song and writes the given set inside tx.
// It is meant to run under db.DB.Exclusive.
func Replace(tx *sqlx.Tx, songs []Song) error {
	if _, err := tx.Exec(`DELETE FROM songs`); err != nil {
		return err
	}

	stmt, err := tx.PrepareNamed(`
		INSERT OR REPLACE INTO songs (filename, title, artist, album, comment, genre, year, track, length)
		VALUES (:filename, :title, :artist, :album, :comment, :genre, :year, :track, :length)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range songs {
		if _, err := stmt.Exec(songs[i]); err != nil {
			return fmt.Errorf("insert %s: %w", songs[i].Filename, err)
		}
	}
	return nil
}
