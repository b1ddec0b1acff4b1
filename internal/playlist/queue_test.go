package playlist

import (
	"math/rand/v2"
	"testing"

	"github.com/llehouerou/bluewaves/internal/library"
)

func songEntry(name string) SongEntry {
	return SongEntry{Song: library.Song{Filename: "/" + name + ".mp3", Title: name}}
}

func TestNewQueue(t *testing.T) {
	q := NewQueue()

	if q.Len() != 0 {
		t.Errorf("Len() = %d, want 0", q.Len())
	}
	if len(q.IDs()) != 0 {
		t.Errorf("IDs() = %v, want empty", q.IDs())
	}
}

func TestQueue_Append_FreshIDs(t *testing.T) {
	q := NewQueue()

	a := q.Append(songEntry("a"))
	b := q.Append(songEntry("b"))
	if a == b {
		t.Fatalf("Append returned the same id twice: %d", a)
	}

	q.Remove(b)
	c := q.Append(songEntry("c"))
	if c == a || c == b {
		t.Errorf("id %d reused after removal", c)
	}

	q.Clear()
	d := q.Append(songEntry("d"))
	if d <= c {
		t.Errorf("id %d reused after clear (last was %d)", d, c)
	}
}

func TestQueue_Remove(t *testing.T) {
	tests := []struct {
		name      string
		remove    int // index into ids
		wantOrder []string
	}{
		{"first", 0, []string{"b", "c"}},
		{"middle", 1, []string{"a", "c"}},
		{"last", 2, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQueue()
			ids := []ID{q.Append(songEntry("a")), q.Append(songEntry("b")), q.Append(songEntry("c"))}

			if !q.Remove(ids[tt.remove]) {
				t.Fatal("Remove returned false")
			}
			if q.Len() != len(tt.wantOrder) {
				t.Fatalf("Len() = %d, want %d", q.Len(), len(tt.wantOrder))
			}
			for i, want := range tt.wantOrder {
				_, e := q.At(i)
				if got := e.(SongEntry).Song.Title; got != want {
					t.Errorf("At(%d) = %q, want %q", i, got, want)
				}
			}
			if _, ok := q.Get(ids[tt.remove]); ok {
				t.Error("removed id still resolvable")
			}
		})
	}
}

func TestQueue_Remove_Unknown(t *testing.T) {
	q := NewQueue()
	q.Append(songEntry("a"))

	if q.Remove(42) {
		t.Error("Remove of unknown id should return false")
	}
	if q.Len() != 1 {
		t.Errorf("Len() = %d, want 1", q.Len())
	}
}

func TestQueue_Move(t *testing.T) {
	tests := []struct {
		name string
		from int
		to   int
		want []string
	}{
		{"forward", 0, 2, []string{"b", "c", "a"}},
		{"backward", 2, 0, []string{"c", "a", "b"}},
		{"same", 1, 1, []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQueue()
			ids := []ID{q.Append(songEntry("a")), q.Append(songEntry("b")), q.Append(songEntry("c"))}

			if !q.Move(ids[tt.from], tt.to) {
				t.Fatal("Move returned false")
			}
			for i, want := range tt.want {
				_, e := q.At(i)
				if got := e.(SongEntry).Song.Title; got != want {
					t.Errorf("At(%d) = %q, want %q", i, got, want)
				}
			}
		})
	}
}

func TestQueue_Move_Invalid(t *testing.T) {
	q := NewQueue()
	id := q.Append(songEntry("a"))

	if q.Move(id, 1) {
		t.Error("Move past the end should fail")
	}
	if q.Move(id, -1) {
		t.Error("Move before the start should fail")
	}
	if q.Move(id+1, 0) {
		t.Error("Move of unknown id should fail")
	}
}

// Random enqueue/remove sequences keep order and content in lock-step.
func TestQueue_OrderAndContentLockStep(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	q := NewQueue()
	var live []ID

	for step := range 2000 {
		if len(live) == 0 || rng.IntN(3) > 0 {
			live = append(live, q.Append(songEntry("s")))
		} else {
			i := rng.IntN(len(live))
			if !q.Remove(live[i]) {
				t.Fatalf("step %d: Remove(%d) failed", step, live[i])
			}
			live = append(live[:i], live[i+1:]...)
		}

		ids := q.IDs()
		if len(ids) != len(q.content) {
			t.Fatalf("step %d: %d ids but %d content entries", step, len(ids), len(q.content))
		}
		for _, id := range ids {
			if _, ok := q.content[id]; !ok {
				t.Fatalf("step %d: id %d has no content", step, id)
			}
		}
		for id := range q.content {
			if q.IndexOf(id) < 0 {
				t.Fatalf("step %d: content %d missing from order", step, id)
			}
		}
	}
}

func TestParseShuffleMode(t *testing.T) {
	tests := []struct {
		in   string
		want ShuffleMode
	}{
		{"random", ShuffleRandom},
		{"similar", ShuffleSimilar},
		{"Similar", ShuffleSimilar},
		{"", ShuffleRandom},
		{"bogus", ShuffleRandom},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseShuffleMode(tt.in); got != tt.want {
				t.Errorf("ParseShuffleMode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
