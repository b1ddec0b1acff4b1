package db

import (
	"github.com/jmoiron/sqlx"
)

const currentSchemaVersion = 1

func initSchema(db *sqlx.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS songs (
			filename TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			artist TEXT NOT NULL,
			album TEXT NOT NULL,
			comment TEXT NOT NULL DEFAULT '',
			genre TEXT NOT NULL DEFAULT '',
			year TEXT NOT NULL DEFAULT '',
			track INTEGER NOT NULL DEFAULT 0,
			length INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_songs_artist ON songs(artist);
		CREATE INDEX IF NOT EXISTS idx_songs_artist_album ON songs(artist, album);

		CREATE TABLE IF NOT EXISTS stats_songs (
			filename TEXT PRIMARY KEY,
			tracks INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS stats_albums (
			artist TEXT NOT NULL,
			album TEXT NOT NULL,
			tracks INTEGER NOT NULL,
			PRIMARY KEY (artist, album)
		);

		CREATE TABLE IF NOT EXISTS stats_artists (
			artist TEXT PRIMARY KEY,
			tracks INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS lastfm_similar_artists (
			artist TEXT NOT NULL,
			similar_artist TEXT NOT NULL,
			match_score REAL NOT NULL,
			fetched_at INTEGER NOT NULL,
			PRIMARY KEY (artist, similar_artist)
		);
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO schema_version (version) VALUES (?)`, currentSchemaVersion)
	return err
}
