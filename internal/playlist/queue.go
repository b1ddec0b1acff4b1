package playlist

import (
	"slices"

	"github.com/llehouerou/bluewaves/internal/library"
)

// ID identifies a queue entry. IDs are never reused within one Queue.
type ID int64

// Entry is a queued item: a SongEntry or an AlbumEntry.
type Entry interface {
	isEntry()
}

// SongEntry is a single queued track.
type SongEntry struct {
	Song library.Song
}

// AlbumEntry is a whole queued album. Its album is always loaded.
type AlbumEntry struct {
	Album library.Album
}

func (SongEntry) isEntry()  {}
func (AlbumEntry) isEntry() {}

// Queue is the ordered list of entries. The display order and the content
// lookup only change together.
type Queue struct {
	order   []ID
	content map[ID]Entry
	nextID  ID
}

// NewQueue creates a new empty queue.
func NewQueue() *Queue {
	return &Queue{content: make(map[ID]Entry)}
}

// Append adds e at the end and returns its fresh ID.
func (q *Queue) Append(e Entry) ID {
	id := q.nextID
	q.nextID++
	q.order = append(q.order, id)
	q.content[id] = e
	return id
}

// Remove deletes the entry. Returns false if id is unknown.
func (q *Queue) Remove(id ID) bool {
	i := q.IndexOf(id)
	if i < 0 {
		return false
	}
	q.order = slices.Delete(q.order, i, i+1)
	delete(q.content, id)
	return true
}

// Clear removes every entry. IDs keep increasing afterwards.
func (q *Queue) Clear() {
	q.order = q.order[:0]
	clear(q.content)
}

// Get returns the entry for id.
func (q *Queue) Get(id ID) (Entry, bool) {
	e, ok := q.content[id]
	return e, ok
}

// IndexOf returns the position of id, or -1.
func (q *Queue) IndexOf(id ID) int {
	return slices.Index(q.order, id)
}

// At returns the entry at position i. i must be in [0, Len()).
func (q *Queue) At(i int) (ID, Entry) {
	id := q.order[i]
	return id, q.content[id]
}

// IDs returns a copy of the display order.
func (q *Queue) IDs() []ID {
	return slices.Clone(q.order)
}

// Len returns the number of entries.
func (q *Queue) Len() int {
	return len(q.order)
}

// Move moves the entry id to position to.
// Returns false if id is unknown or to is out of bounds.
func (q *Queue) Move(id ID, to int) bool {
	from := q.IndexOf(id)
	if from < 0 || to < 0 || to >= len(q.order) {
		return false
	}
	if from == to {
		return true
	}
	q.order = slices.Delete(q.order, from, from+1)
	q.order = slices.Insert(q.order, to, id)
	return true
}
