package mpris

import (
	"crypto/md5" //nolint:gosec // cache key, not a security boundary
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/llehouerou/bluewaves/internal/library"
)

// coverNames lists common album art filenames in priority order.
var coverNames = []string{
	"cover.jpg", "cover.png", "cover.jpeg",
	"folder.jpg", "folder.png", "folder.jpeg",
	"front.jpg", "front.png", "front.jpeg",
}

// CoverKey names the cached cover of an album inside the covers directory.
func CoverKey(album, artist string) string {
	h := md5.New() //nolint:gosec // see import
	h.Write([]byte(album))
	h.Write([]byte(artist))
	return hex.EncodeToString(h.Sum(nil))
}

// Covers resolves album art for songs.
type Covers struct {
	// Dir holds covers named by CoverKey. Empty disables the lookup.
	Dir string
}

// Find returns the cached cover for the song's album, else an image next to
// the file. Returns empty string if none exists.
func (c Covers) Find(s library.Song) string {
	if c.Dir != "" {
		path := filepath.Join(c.Dir, CoverKey(s.Album, s.Artist))
		if isFile(path) {
			return path
		}
	}
	dir := filepath.Dir(s.Filename)
	for _, name := range coverNames {
		path := filepath.Join(dir, name)
		if isFile(path) {
			return path
		}
	}
	return ""
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
