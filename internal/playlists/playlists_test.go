package playlists

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/llehouerou/bluewaves/internal/library"
	"github.com/llehouerou/bluewaves/internal/playlist"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "playlists"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"road trip", "road trip"},
		{"AC/DC", "AC-DC"},
		{`a\b*c|d`, "a-b-c-d"},
		{"  padded  ", "padded"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := SanitizeName(tt.in); got != tt.want {
				t.Errorf("SanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCreate_ListsSorted(t *testing.T) {
	s := setupStore(t)
	for _, n := range []string{"zen", "Alpha", "mid"} {
		if err := s.Create(n); err != nil {
			t.Fatalf("Create(%q) error = %v", n, err)
		}
	}
	// foreign files are ignored
	if err := os.WriteFile(filepath.Join(s.Dir(), "notes.txt"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := s.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []string{"Alpha", "mid", "zen"}
	if !slices.Equal(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
}

func TestCreate_Exists(t *testing.T) {
	s := setupStore(t)
	if err := s.Create("mix"); err != nil {
		t.Fatal(err)
	}
	if err := s.Create("mix"); !errors.Is(err, ErrExists) {
		t.Errorf("second Create() error = %v, want ErrExists", err)
	}
}

func TestCreate_InvalidName(t *testing.T) {
	s := setupStore(t)
	for _, n := range []string{"", "   ", ".."} {
		if err := s.Create(n); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Create(%q) error = %v, want ErrInvalidName", n, err)
		}
	}
}

func TestDelete(t *testing.T) {
	s := setupStore(t)
	if err := s.Create("gone"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("gone"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := s.Delete("gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() twice error = %v, want ErrNotFound", err)
	}
	names, _ := s.List()
	if len(names) != 0 {
		t.Errorf("List() = %v, want empty", names)
	}
}

func TestSave_SkipsAlbumsAndTerminatesLines(t *testing.T) {
	s := setupStore(t)
	album := library.NewAlbum("Band", "LP", []library.Song{{Filename: "/lp/1.flac", Track: 1}})
	entries := []playlist.Entry{
		playlist.SongEntry{Song: library.Song{Filename: "/a.mp3"}},
		playlist.AlbumEntry{Album: album},
		playlist.SongEntry{Song: library.Song{Filename: "/b.ogg"}},
	}

	if err := s.Save("mix", entries); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(s.Dir(), "mix.m3u8"))
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "/a.mp3\n/b.ogg\n" {
		t.Errorf("file content = %q", raw)
	}
}

func TestLoad_RoundTripsAndSkipsComments(t *testing.T) {
	s := setupStore(t)
	content := "#EXTM3U\n/a.mp3\r\n\n/b.ogg\n"
	if err := os.WriteFile(filepath.Join(s.Dir(), "mix.m3u8"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := s.Load("mix")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if want := []string{"/a.mp3", "/b.ogg"}; !slices.Equal(got, want) {
		t.Errorf("Load() = %v, want %v", got, want)
	}
}

func TestLoad_Missing(t *testing.T) {
	s := setupStore(t)
	if _, err := s.Load("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() error = %v, want ErrNotFound", err)
	}
}

func TestSave_SanitizesName(t *testing.T) {
	s := setupStore(t)
	if err := s.SaveFilenames("AC/DC", []string{"/x.flac"}); err != nil {
		t.Fatal(err)
	}
	got, err := s.Load("AC-DC")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !slices.Equal(got, []string{"/x.flac"}) {
		t.Errorf("Load() = %v", got)
	}
}
