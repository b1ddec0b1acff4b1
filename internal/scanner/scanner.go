// Package scanner rebuilds the songs table from the music folder.
package scanner

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/jmoiron/sqlx"

	"github.com/llehouerou/bluewaves/internal/bus"
	"github.com/llehouerou/bluewaves/internal/db"
	"github.com/llehouerou/bluewaves/internal/library"
)

const numWorkers = 8

// ReadFunc extracts one song from a file.
type ReadFunc func(path string) (library.Song, error)

// Poster hands events to the control goroutine.
type Poster interface {
	Post(e bus.Event)
}

// Result summarises a scan.
type Result struct {
	Found   int // supported files discovered
	Indexed int // songs written
	Skipped int // unreadable or incompletely tagged
}

// Scanner walks a folder and replaces the songs table.
type Scanner struct {
	db     *db.DB
	repo   *library.Repository
	read   ReadFunc
	poster Poster
	log    *slog.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithReader replaces the tag reader.
func WithReader(fn ReadFunc) Option {
	return func(s *Scanner) { s.read = fn }
}

// WithPoster makes Scan post SongsTreeCreated when it commits.
func WithPoster(p Poster) Option {
	return func(s *Scanner) { s.poster = p }
}

// New creates a scanner writing to d.
func New(d *db.DB, log *slog.Logger, opts ...Option) *Scanner {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &Scanner{
		db:   d,
		repo: library.New(d),
		read: ReadSong,
		log:  log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan indexes every supported file under root. The songs table is
// replaced in one exclusive transaction, so readers never see a partial
// library.
func (s *Scanner) Scan(ctx context.Context, root string) (Result, error) {
	files, err := discoverFiles(ctx, root)
	if err != nil {
		return Result{}, err
	}
	s.log.Info("scan discovered files", "root", root, "count", len(files))

	songs, skipped := s.processFiles(ctx, files)
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	slices.SortFunc(songs, func(a, b library.Song) int {
		return cmp.Compare(a.Filename, b.Filename)
	})

	err = s.db.Exclusive(func(tx *sqlx.Tx) error {
		return library.Replace(tx, songs)
	})
	if err != nil {
		return Result{}, fmt.Errorf("replace songs: %w", err)
	}

	res := Result{Found: len(files), Indexed: len(songs), Skipped: int(skipped)}
	s.log.Info("scan finished", "indexed", res.Indexed, "skipped", res.Skipped)

	if s.poster != nil {
		snap, err := s.repo.Snapshot()
		if err != nil {
			return res, fmt.Errorf("rebuild snapshot: %w", err)
		}
		s.poster.Post(bus.SongsTreeCreated{Snapshot: snap})
	}
	return res, nil
}

// discoverFiles walks root and returns every music file. Unreadable
// directories are skipped.
func discoverFiles(ctx context.Context, root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			return nil //nolint:nilerr // keep scanning siblings
		}
		if d.IsDir() || !IsMusicFile(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}

func (s *Scanner) processFiles(ctx context.Context, files []string) ([]library.Song, int64) {
	workCh := make(chan string)
	resultCh := make(chan library.Song, numWorkers)
	var skipped atomic.Int64

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Go(func() {
			for path := range workCh {
				song, err := s.read(path)
				if err != nil {
					if !errors.Is(err, ErrMissingTags) {
						s.log.Debug("unreadable file", "filename", path, "err", err)
					}
					skipped.Add(1)
					continue
				}
				resultCh <- song
			}
		})
	}

	go func() {
		defer close(workCh)
		for _, f := range files {
			select {
			case workCh <- f:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	songs := make([]library.Song, 0, len(files))
	for song := range resultCh {
		songs = append(songs, song)
	}
	return songs, skipped.Load()
}
