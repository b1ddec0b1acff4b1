package mpris

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/llehouerou/bluewaves/internal/library"
)

func writeFake(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("fake"), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestCoverKey_Stable(t *testing.T) {
	a := CoverKey("LP", "Band")
	if a != CoverKey("LP", "Band") {
		t.Error("CoverKey() is not deterministic")
	}
	if a == CoverKey("Band", "LP") {
		t.Error("CoverKey() ignores argument order")
	}
	if len(a) != 32 {
		t.Errorf("len(CoverKey()) = %d, want 32 hex chars", len(a))
	}
}

func TestFind_SiblingCover(t *testing.T) {
	dir := t.TempDir()
	coverPath := filepath.Join(dir, "cover.jpg")
	writeFake(t, coverPath)

	got := Covers{}.Find(library.Song{Filename: filepath.Join(dir, "track.mp3")})
	if got != coverPath {
		t.Errorf("Find() = %q, want %q", got, coverPath)
	}
}

func TestFind_NotFound(t *testing.T) {
	dir := t.TempDir()
	got := Covers{Dir: t.TempDir()}.Find(library.Song{Filename: filepath.Join(dir, "track.mp3")})
	if got != "" {
		t.Errorf("Find() = %q, want empty string", got)
	}
}

func TestFind_Priority(t *testing.T) {
	dir := t.TempDir()
	writeFake(t, filepath.Join(dir, "folder.jpg"))
	coverPath := filepath.Join(dir, "cover.jpg")
	writeFake(t, coverPath)

	got := Covers{}.Find(library.Song{Filename: filepath.Join(dir, "track.mp3")})
	if got != coverPath {
		t.Errorf("Find() = %q, want %q (higher priority)", got, coverPath)
	}
}

func TestFind_CacheWins(t *testing.T) {
	music := t.TempDir()
	writeFake(t, filepath.Join(music, "cover.jpg"))
	cache := t.TempDir()
	cached := filepath.Join(cache, CoverKey("LP", "Band"))
	writeFake(t, cached)

	s := library.Song{Filename: filepath.Join(music, "1.flac"), Artist: "Band", Album: "LP"}
	if got := (Covers{Dir: cache}).Find(s); got != cached {
		t.Errorf("Find() = %q, want cached %q", got, cached)
	}
}
