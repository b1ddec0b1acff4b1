// Package stats persists play counts per song, per album and per artist.
package stats

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/llehouerou/bluewaves/internal/db"
	"github.com/llehouerou/bluewaves/internal/library"
)

// Store reads and writes the three statistics tables.
type Store struct {
	db *db.DB
}

func New(d *db.DB) *Store {
	return &Store{db: d}
}

// AlbumCount is one row of the album statistics.
type AlbumCount struct {
	Artist string `db:"artist"`
	Album  string `db:"album"`
	Tracks int    `db:"tracks"`
}

// IncrementSong inserts the song with a count of 1 or bumps its count.
func (s *Store) IncrementSong(filename string) error {
	return s.exec(`
		INSERT INTO stats_songs (filename, tracks) VALUES (?, 1)
		ON CONFLICT(filename) DO UPDATE SET tracks = tracks + 1
	`, filename)
}

// IncrementAlbum inserts the (artist, album) pair with a count of 1 or bumps it.
func (s *Store) IncrementAlbum(artist, album string) error {
	return s.exec(`
		INSERT INTO stats_albums (artist, album, tracks) VALUES (?, ?, 1)
		ON CONFLICT(artist, album) DO UPDATE SET tracks = tracks + 1
	`, artist, album)
}

// IncrementArtist inserts the artist with a count of 1 or bumps it.
func (s *Store) IncrementArtist(artist string) error {
	return s.exec(`
		INSERT INTO stats_artists (artist, tracks) VALUES (?, 1)
		ON CONFLICT(artist) DO UPDATE SET tracks = tracks + 1
	`, artist)
}

func (s *Store) SongCount(filename string) (int, error) {
	return s.count(`SELECT tracks FROM stats_songs WHERE filename = ?`, filename)
}

func (s *Store) AlbumCount(artist, album string) (int, error) {
	return s.count(`SELECT tracks FROM stats_albums WHERE artist = ? AND album = ?`, artist, album)
}

func (s *Store) ArtistCount(artist string) (int, error) {
	return s.count(`SELECT tracks FROM stats_artists WHERE artist = ?`, artist)
}

// TopSongs returns the most played songs still present in the library,
// highest count first.
func (s *Store) TopSongs(limit int) ([]library.Song, error) {
	var songs []library.Song
	err := s.db.Shared(func(q *sqlx.DB) error {
		return q.Select(&songs, `
			SELECT s.filename, s.title, s.artist, s.album, s.comment, s.genre, s.year,
				s.track, s.length, st.tracks AS play_count
			FROM stats_songs st
			JOIN songs s ON s.filename = st.filename
			ORDER BY st.tracks DESC, s.filename
			LIMIT ?
		`, limit)
	})
	return songs, err
}

// TopAlbums returns the most played albums, highest count first.
func (s *Store) TopAlbums(limit int) ([]AlbumCount, error) {
	var albums []AlbumCount
	err := s.db.Shared(func(q *sqlx.DB) error {
		return q.Select(&albums, `
			SELECT artist, album, tracks FROM stats_albums
			ORDER BY tracks DESC, artist, album
			LIMIT ?
		`, limit)
	})
	return albums, err
}

// Prune deletes every statistics row whose key is absent from the snapshot.
// Songs, albums and artists are pruned independently.
func (s *Store) Prune(snap *library.Snapshot) (int64, error) {
	var removed int64
	err := s.db.Shared(func(q *sqlx.DB) error {
		return db.WithTx(q, func(tx *sqlx.Tx) error {
			var n int64
			var err error

			if n, err = pruneKeys(tx, `SELECT filename FROM stats_songs`,
				`DELETE FROM stats_songs WHERE filename = ?`,
				func(k string) bool { return snap.HasSong(k) }); err != nil {
				return err
			}
			removed += n

			if n, err = pruneKeys(tx, `SELECT artist FROM stats_artists`,
				`DELETE FROM stats_artists WHERE artist = ?`,
				func(k string) bool { return snap.HasArtist(k) }); err != nil {
				return err
			}
			removed += n

			var albums []AlbumCount
			if err := tx.Select(&albums, `SELECT artist, album, tracks FROM stats_albums`); err != nil {
				return err
			}
			for _, a := range albums {
				if snap.HasAlbum(a.Artist, a.Album) {
					continue
				}
				if _, err := tx.Exec(`DELETE FROM stats_albums WHERE artist = ? AND album = ?`, a.Artist, a.Album); err != nil {
					return err
				}
				removed++
			}
			return nil
		})
	})
	return removed, err
}

func pruneKeys(tx *sqlx.Tx, selectQuery, deleteQuery string, keep func(string) bool) (int64, error) {
	var keys []string
	if err := tx.Select(&keys, selectQuery); err != nil {
		return 0, err
	}
	var removed int64
	for _, k := range keys {
		if keep(k) {
			continue
		}
		if _, err := tx.Exec(deleteQuery, k); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func (s *Store) exec(query string, args ...any) error {
	return s.db.Shared(func(q *sqlx.DB) error {
		_, err := q.Exec(query, args...)
		return err
	})
}

func (s *Store) count(query string, args ...any) (int, error) {
	var n int
	err := s.db.Shared(func(q *sqlx.DB) error {
		return q.Get(&n, query, args...)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return n, err
}
