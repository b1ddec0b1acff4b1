package similar

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/llehouerou/bluewaves/internal/db"
	"github.com/llehouerou/bluewaves/internal/lastfm"
)

// Cache stores Last.fm similar-artist answers in SQLite.
type Cache struct {
	db      *db.DB
	ttlDays int
	now     func() time.Time
}

// NewCache creates a new Cache instance.
func NewCache(d *db.DB, ttlDays int) *Cache {
	return &Cache{
		db:      d,
		ttlDays: ttlDays,
		now:     time.Now,
	}
}

func (c *Cache) expiry() int64 {
	return c.now().AddDate(0, 0, -c.ttlDays).Unix()
}

// noSimilar marks an artist for which the service knew no similar artists,
// so the empty answer is cached like any other.
const noSimilar = ""

type cachedRow struct {
	Name       string  `db:"similar_artist"`
	MatchScore float64 `db:"match_score"`
	FetchedAt  int64   `db:"fetched_at"`
}

// Get returns cached similar artists. A missing or expired entry yields nil;
// a cached empty answer yields an empty, non-nil slice.
func (c *Cache) Get(artist string) ([]lastfm.SimilarArtist, error) {
	var rows []cachedRow
	err := c.db.Shared(func(q *sqlx.DB) error {
		return q.Select(&rows, `
			SELECT similar_artist, match_score, fetched_at
			FROM lastfm_similar_artists
			WHERE artist = ?
			ORDER BY match_score DESC
		`, artist)
	})
	if err != nil || len(rows) == 0 {
		return nil, err
	}

	expiry := c.expiry()
	result := make([]lastfm.SimilarArtist, 0, len(rows))
	for _, r := range rows {
		// All rows of one artist share a timestamp.
		if r.FetchedAt < expiry {
			return nil, nil
		}
		if r.Name == noSimilar {
			continue
		}
		result = append(result, lastfm.SimilarArtist{Name: r.Name, MatchScore: r.MatchScore})
	}
	return result, nil
}

// Set replaces the cached similar artists for an artist.
func (c *Cache) Set(artist string, similar []lastfm.SimilarArtist) error {
	now := c.now().Unix()
	return c.db.Shared(func(q *sqlx.DB) error {
		return db.WithTx(q, func(tx *sqlx.Tx) error {
			if _, err := tx.Exec(`DELETE FROM lastfm_similar_artists WHERE artist = ?`, artist); err != nil {
				return err
			}

			stmt, err := tx.Preparex(`
				INSERT OR REPLACE INTO lastfm_similar_artists (artist, similar_artist, match_score, fetched_at)
				VALUES (?, ?, ?, ?)
			`)
			if err != nil {
				return err
			}
			defer stmt.Close()

			if len(similar) == 0 {
				_, err := stmt.Exec(artist, noSimilar, 0, now)
				return err
			}
			for _, s := range similar {
				if _, err := stmt.Exec(artist, s.Name, s.MatchScore, now); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

// CleanExpired removes all expired cache entries.
func (c *Cache) CleanExpired() (int64, error) {
	var n int64
	err := c.db.Shared(func(q *sqlx.DB) error {
		res, err := q.Exec(`DELETE FROM lastfm_similar_artists WHERE fetched_at < ?`, c.expiry())
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	return n, err
}
