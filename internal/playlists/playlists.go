// Package playlists stores named playlists as m3u8 files, one filename per
// line.
package playlists

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/llehouerou/bluewaves/internal/playlist"
)

// Extension is the suffix of every playlist file.
const Extension = ".m3u8"

var (
	ErrExists      = errors.New("playlist already exists")
	ErrNotFound    = errors.New("playlist not found")
	ErrInvalidName = errors.New("invalid playlist name")
)

// Store manages the playlists directory.
type Store struct {
	dir string
}

// New returns a store rooted at dir, creating it if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create playlists dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the playlists directory.
func (s *Store) Dir() string {
	return s.dir
}

// SanitizeName replaces path separators and shell-unfriendly characters
// with dashes.
func SanitizeName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`\/*|`, r) {
			return '-'
		}
		return r
	}, name)
	return strings.TrimSpace(name)
}

// List returns the playlist names, sorted case-insensitively.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read playlists dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Extension) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), Extension))
	}
	slices.SortFunc(names, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	return names, nil
}

// Create writes an empty playlist.
func (s *Store) Create(name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%s: %w", name, ErrExists)
	}
	if err != nil {
		return fmt.Errorf("create playlist: %w", err)
	}
	return f.Close()
}

// Delete removes a playlist.
func (s *Store) Delete(name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	return nil
}

// Load returns the filenames stored in a playlist, in order. Blank lines
// and m3u comment lines are skipped.
func (s *Store) Load(name string) ([]string, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("open playlist: %w", err)
	}
	defer f.Close()

	var filenames []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		filenames = append(filenames, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read playlist: %w", err)
	}
	return filenames, nil
}

// Save overwrites a playlist with the song entries of a queue. Albums are
// not stored.
func (s *Store) Save(name string, entries []playlist.Entry) error {
	return s.SaveFilenames(name, playlist.SongFilenames(entries))
}

// SaveFilenames overwrites a playlist with filenames, each line
// newline-terminated.
func (s *Store) SaveFilenames(name string, filenames []string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	var sb strings.Builder
	for _, f := range filenames {
		sb.WriteString(f)
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write playlist: %w", err)
	}
	return nil
}

func (s *Store) path(name string) (string, error) {
	clean := SanitizeName(name)
	if clean == "" || clean == "." || clean == ".." {
		return "", fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	return filepath.Join(s.dir, clean+Extension), nil
}
