// Package lastfm fetches related artists from the Last.fm web service.
package lastfm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shkh/lastfm-go/lastfm"
)

// DefaultSimilarLimit is the number of related artists asked for.
const DefaultSimilarLimit = 50

// ErrNoAPIKey is returned when the client has no API key configured.
var ErrNoAPIKey = errors.New("lastfm api key not configured")

// SimilarArtist represents a similar artist from Last.fm.
type SimilarArtist struct {
	Name       string
	MatchScore float64 // 0.0-1.0 similarity score
}

// Client wraps the Last.fm API for artist lookups.
type Client struct {
	api    *lastfm.Api
	apiKey string
}

// New creates a new Last.fm client with the given API credentials.
// The secret is only needed for authenticated calls and may be empty.
func New(apiKey, apiSecret string) *Client {
	return &Client{
		api:    lastfm.New(apiKey, apiSecret),
		apiKey: apiKey,
	}
}

// GetSimilarArtists fetches similar artists from Last.fm.
func (c *Client) GetSimilarArtists(artist string, limit int) ([]SimilarArtist, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}

	result, err := c.api.Artist.GetSimilar(lastfm.P{
		"artist":      artist,
		"limit":       limit,
		"autocorrect": 1,
	})
	if err != nil {
		return nil, fmt.Errorf("get similar artists for %q: %w", artist, err)
	}

	artists := make([]SimilarArtist, 0, len(result.Similars))
	for _, a := range result.Similars {
		artists = append(artists, SimilarArtist{
			Name:       a.Name,
			MatchScore: ParseMatch(a.Match),
		})
	}
	return artists, nil
}

// ParseMatch reads a Last.fm match score. Anything unparsable scores 0.
func ParseMatch(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}
