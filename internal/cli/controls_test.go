package cli

import (
	"bytes"
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/bluewaves/internal/bus"
	"github.com/llehouerou/bluewaves/internal/library"
	"github.com/llehouerou/bluewaves/internal/playlist"
	"github.com/llehouerou/bluewaves/internal/playlists"
	"github.com/llehouerou/bluewaves/internal/scanner"
)

// syncBus records posts and runs Do inline.
type syncBus struct {
	posted []bus.Event
}

func (b *syncBus) Post(e bus.Event) { b.posted = append(b.posted, e) }
func (b *syncBus) Do(fn func())     { fn() }

type nopEmitter struct{}

func (nopEmitter) Publish(bus.Event) {}

type songLibrary map[string]library.Song

func (l songLibrary) SongByFilename(name string) (library.Song, error) {
	s, ok := l[name]
	if !ok {
		return library.Song{}, library.ErrNotFound
	}
	return s, nil
}

func (l songLibrary) Album(artist, name string) (library.Album, error) {
	return library.Album{}, library.ErrNotFound
}

func (l songLibrary) ArtistSongs(string) ([]library.Song, error) { return nil, nil }

func newControls(t *testing.T) (*controls, *syncBus, *bytes.Buffer) {
	t.Helper()
	lib := songLibrary{
		"/m/a.flac": {Filename: "/m/a.flac", Artist: "A", Title: "First"},
		"/m/b.flac": {Filename: "/m/b.flac", Artist: "B", Title: "Second"},
	}
	eng := playlist.New(playlist.Deps{Emitter: nopEmitter{}, Library: lib}, playlist.DefaultSettings())
	store, err := playlists.New(t.TempDir())
	require.NoError(t, err)

	b := &syncBus{}
	out := &bytes.Buffer{}
	return &controls{bus: b, eng: eng, store: store, out: out, width: defaultWidth}, b, out
}

func TestControls_PostsIntents(t *testing.T) {
	c, b, _ := newControls(t)

	err := c.run(context.Background(), strings.NewReader("p\nn\n\nb\ns\n"))
	require.NoError(t, err)

	assert.Equal(t, []bus.Event{
		bus.PlayPressed{},
		bus.NextPressed{},
		bus.PreviousPressed{},
		bus.StopPressed{},
	}, b.posted)
}

func TestControls_QuitStopsReading(t *testing.T) {
	c, b, _ := newControls(t)

	err := c.run(context.Background(), strings.NewReader("n\nq\nn\n"))
	require.NoError(t, err)

	assert.Len(t, b.posted, 1)
}

func TestControls_Toggles(t *testing.T) {
	c, _, out := newControls(t)

	c.handle("r")
	c.handle("z")
	c.handle("m")
	c.handle("m random")

	assert.Equal(t, "repeat off\nshuffle off\nshuffle mode similar\nshuffle mode random\n", out.String())
	s := c.eng.Settings()
	assert.False(t, s.Repeat)
	assert.False(t, s.Shuffle)
	assert.Equal(t, playlist.ShuffleRandom, s.ShuffleMode)
}

func TestControls_SaveAndOpen(t *testing.T) {
	c, _, out := newControls(t)
	c.eng.EnqueueSong(library.Song{Filename: "/m/b.flac", Artist: "B", Title: "Second"})
	c.eng.EnqueueSong(library.Song{Filename: "/m/a.flac", Artist: "A", Title: "First"})

	c.handle("w road trip")
	assert.Contains(t, out.String(), "saved road trip")

	got, err := c.store.Load("road trip")
	require.NoError(t, err)
	assert.Equal(t, []string{"/m/b.flac", "/m/a.flac"}, got)

	c.eng.Clear()
	out.Reset()
	c.handle("o road trip")
	assert.Equal(t, "queued 2 of 2 songs from road trip\n", out.String())
	assert.Equal(t, []string{"/m/b.flac", "/m/a.flac"}, c.eng.Filenames())
}

func TestControls_OpenMissing(t *testing.T) {
	c, _, out := newControls(t)

	c.handle("o nope")

	assert.Contains(t, out.String(), "Failed to load playlist 'nope'")
	assert.Equal(t, 0, c.eng.Len())
}

func TestControls_ListQueue(t *testing.T) {
	c, _, out := newControls(t)

	c.handle("l")
	assert.Equal(t, "queue is empty\n", out.String())

	out.Reset()
	c.eng.EnqueueSong(library.Song{Filename: "/m/a.flac", Artist: "A", Title: "First"})
	c.handle("l")
	assert.Contains(t, out.String(), "1. A - First")
}

func TestControls_Unknown(t *testing.T) {
	c, b, out := newControls(t)

	assert.False(t, c.handle("xyzzy"))
	assert.Contains(t, out.String(), `unknown command "xyzzy"`)
	assert.Empty(t, b.posted)
}

type fakeAlbums struct {
	played, queued []string
}

func (f *fakeAlbums) PlayAlbum(artist, name string) error {
	f.played = append(f.played, artist+"/"+name)
	return nil
}

func (f *fakeAlbums) QueueAlbum(artist, name string) error {
	if artist == "Nobody" {
		return library.ErrNotLoaded
	}
	f.queued = append(f.queued, artist+"/"+name)
	return nil
}

func TestControls_Albums(t *testing.T) {
	c, _, out := newControls(t)
	albums := &fakeAlbums{}
	c.albums = albums

	c.handle("a Band / Live at Home")
	c.handle("A Band/LP")
	c.handle("a Nobody / Nothing")
	c.handle("a just an artist")

	assert.Equal(t, []string{"Band/Live at Home"}, albums.queued)
	assert.Equal(t, []string{"Band/LP"}, albums.played)
	assert.Contains(t, out.String(), "Nobody / Nothing")
	assert.Contains(t, out.String(), "usage: a <artist> / <album>")
}

func TestControls_Rescan(t *testing.T) {
	c, _, out := newControls(t)

	c.handle("u")
	assert.Contains(t, out.String(), "no music folder configured")

	out.Reset()
	c.rescan = func() (scanner.Result, error) {
		return scanner.Result{Found: 3, Indexed: 2, Skipped: 1}, nil
	}
	c.handle("u")
	assert.Equal(t, "scanning...\nindexed 2 songs, skipped 1\n", out.String())
}

// queued fills the engine with songs A, B and C, in that order.
func queued(t *testing.T, c *controls) {
	t.Helper()
	for _, name := range []string{"a", "b", "c"} {
		c.eng.EnqueueSong(library.Song{Filename: "/m/" + name + ".flac", Artist: strings.ToUpper(name), Title: name})
	}
}

func TestControls_QueueEditing(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		want    []string
		playing string
	}{
		{"remove", []string{"x 2"}, []string{"/m/a.flac", "/m/c.flac"}, ""},
		{"clear", []string{"c"}, nil, ""},
		{"clear long form", []string{"clear"}, nil, ""},
		{"move to front", []string{"mv 3 1"}, []string{"/m/c.flac", "/m/a.flac", "/m/b.flac"}, ""},
		{"move past end clamps", []string{"mv 1 9"}, []string{"/m/b.flac", "/m/c.flac", "/m/a.flac"}, ""},
		{"play entry", []string{"g 2"}, []string{"/m/a.flac", "/m/b.flac", "/m/c.flac"}, "/m/b.flac"},
		{"remove playing entry keeps others", []string{"g 1", "x 1"}, []string{"/m/b.flac", "/m/c.flac"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _ := newControls(t)
			queued(t, c)

			for _, line := range tt.lines {
				c.handle(line)
			}

			got := c.eng.Filenames()
			if tt.want == nil {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, tt.want, got)
			}

			cur, ok := c.eng.Cursor()
			if tt.playing == "" {
				assert.False(t, ok, "cursor should be reset")
				return
			}
			require.True(t, ok)
			i := slices.Index(got, tt.playing)
			require.GreaterOrEqual(t, i, 0)
			assert.Equal(t, c.eng.Rows()[i].ID, cur.ID)
		})
	}
}

func TestControls_QueueEditingBadRows(t *testing.T) {
	c, _, out := newControls(t)
	queued(t, c)

	for _, line := range []string{"x 0", "g 4", "x nope", "mv 0 1", "mv 1 zero", "g"} {
		c.handle(line)
	}

	assert.Equal(t, []string{"/m/a.flac", "/m/b.flac", "/m/c.flac"}, c.eng.Filenames())
	assert.NotContains(t, out.String(), "unknown command")
	assert.Contains(t, out.String(), `no queue entry "0"`)
	assert.Contains(t, out.String(), `no queue entry "4"`)
	assert.Contains(t, out.String(), `invalid position "zero"`)
	assert.Contains(t, out.String(), "usage: g <n>")
}
