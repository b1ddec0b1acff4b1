package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/llehouerou/bluewaves/internal/bus"
	"github.com/llehouerou/bluewaves/internal/errmsg"
	"github.com/llehouerou/bluewaves/internal/playlist"
	"github.com/llehouerou/bluewaves/internal/playlists"
	"github.com/llehouerou/bluewaves/internal/scanner"
)

const controlsHelp = `p play/pause   n next   b previous   s stop
r repeat       z shuffle   m [random|similar] shuffle mode
l list queue   t top songs   o <name> open playlist   w <name> save queue
g <n> play entry n   x <n> remove entry n   mv <n> <pos> move entry n   c clear
a <artist> / <album> queue album   A <artist> / <album> play album
u rescan the music folder   q quit`

// commandBus is what the keyboard loop needs from the bus.
type commandBus interface {
	Post(e bus.Event)
	Do(fn func())
}

// albumBrowser resolves albums from the current collection.
type albumBrowser interface {
	PlayAlbum(artist, name string) error
	QueueAlbum(artist, name string) error
}

// controls turns typed commands into intents. Engine and browser access
// always goes through Do so it runs on the control goroutine.
type controls struct {
	bus    commandBus
	eng    *playlist.Engine
	albums albumBrowser
	store  *playlists.Store
	rescan func() (scanner.Result, error) // nil disables u
	out    io.Writer
	width  int
}

// run reads one command per line until quit, EOF or ctx is done.
func (c *controls) run(ctx context.Context, r io.Reader) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		if quit := c.handle(sc.Text()); quit {
			return nil
		}
	}
	return sc.Err()
}

func (c *controls) handle(line string) (quit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	arg := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))

	switch fields[0] {
	case "p", "play", "pause":
		c.bus.Post(bus.PlayPressed{})
	case "n", "next":
		c.bus.Post(bus.NextPressed{})
	case "b", "prev", "previous":
		c.bus.Post(bus.PreviousPressed{})
	case "s", "stop":
		c.bus.Post(bus.StopPressed{})
	case "r", "repeat":
		c.bus.Do(func() {
			fmt.Fprintf(c.out, "repeat %s\n", onOff(c.eng.ToggleRepeat()))
		})
	case "z", "shuffle":
		c.bus.Do(func() {
			fmt.Fprintf(c.out, "shuffle %s\n", onOff(c.eng.ToggleShuffle()))
		})
	case "m", "mode":
		c.bus.Do(func() {
			mode := playlist.ParseShuffleMode(arg)
			if arg == "" {
				mode = playlist.ShuffleSimilar
				if c.eng.Settings().ShuffleMode == playlist.ShuffleSimilar {
					mode = playlist.ShuffleRandom
				}
			}
			c.eng.SetShuffleMode(mode)
			fmt.Fprintf(c.out, "shuffle mode %s\n", mode)
		})
	case "l", "list":
		c.bus.Do(func() {
			lines := queueLines(c.eng.Rows(), c.width)
			if len(lines) == 0 {
				fmt.Fprintln(c.out, "queue is empty")
				return
			}
			fmt.Fprintln(c.out, strings.Join(lines, "\n"))
		})
	case "g", "goto":
		c.onRow(fields, "play", func(id playlist.ID) error { return c.eng.PlayActivated(id) })
	case "x", "remove":
		c.onRow(fields, "remove", func(id playlist.ID) error { return c.eng.Remove(id) })
	case "mv", "move":
		c.move(fields)
	case "c", "clear":
		c.bus.Do(func() {
			c.eng.Clear()
			fmt.Fprintln(c.out, "queue cleared")
		})
	case "t", "top":
		c.bus.Do(func() {
			n, err := c.eng.PopulateTopSongs(playlist.TopSongsLimit)
			if err != nil {
				fmt.Fprintln(c.out, errmsg.Format(errmsg.OpQueuePopulate, err))
				return
			}
			fmt.Fprintf(c.out, "queued %d songs\n", n)
		})
	case "o", "open":
		c.open(arg)
	case "w", "save":
		c.save(arg)
	case "a", "album":
		c.album(arg, false)
	case "A":
		c.album(arg, true)
	case "u", "update":
		c.update()
	case "q", "quit":
		return true
	case "?", "h", "help":
		fmt.Fprintln(c.out, controlsHelp)
	default:
		fmt.Fprintf(c.out, "unknown command %q (? for help)\n", fields[0])
	}
	return false
}

func (c *controls) open(name string) {
	filenames, err := c.store.Load(name)
	if err != nil {
		fmt.Fprintln(c.out, errmsg.FormatWith(errmsg.OpPlaylistLoad, name, err))
		return
	}
	c.bus.Do(func() {
		n := c.eng.LoadSongs(filenames)
		fmt.Fprintf(c.out, "queued %d of %d songs from %s\n", n, len(filenames), name)
	})
}

func (c *controls) save(name string) {
	c.bus.Do(func() {
		if err := c.store.SaveFilenames(name, c.eng.Filenames()); err != nil {
			fmt.Fprintln(c.out, errmsg.FormatWith(errmsg.OpPlaylistSave, name, err))
			return
		}
		fmt.Fprintf(c.out, "saved %s\n", name)
	})
}

// onRow resolves the 1-based row number shown by l to a queue id and
// applies fn to it.
func (c *controls) onRow(fields []string, verb string, fn func(playlist.ID) error) {
	if len(fields) != 2 {
		fmt.Fprintf(c.out, "usage: %s <n>\n", fields[0])
		return
	}
	c.bus.Do(func() {
		id, ok := c.rowID(fields[1])
		if !ok {
			return
		}
		if err := fn(id); err != nil {
			fmt.Fprintf(c.out, "cannot %s entry %s: %v\n", verb, fields[1], err)
		}
	})
}

func (c *controls) move(fields []string) {
	if len(fields) != 3 {
		fmt.Fprintln(c.out, "usage: mv <n> <pos>")
		return
	}
	to, err := strconv.Atoi(fields[2])
	if err != nil || to < 1 {
		fmt.Fprintf(c.out, "invalid position %q\n", fields[2])
		return
	}
	c.bus.Do(func() {
		id, ok := c.rowID(fields[1])
		if !ok {
			return
		}
		to = min(to, c.eng.Len())
		if err := c.eng.Move(id, to-1); err != nil {
			fmt.Fprintf(c.out, "cannot move entry %s: %v\n", fields[1], err)
		}
	})
}

// rowID must run on the control goroutine.
func (c *controls) rowID(arg string) (playlist.ID, bool) {
	n, err := strconv.Atoi(arg)
	rows := c.eng.Rows()
	if err != nil || n < 1 || n > len(rows) {
		fmt.Fprintf(c.out, "no queue entry %q (l lists the queue)\n", arg)
		return 0, false
	}
	return rows[n-1].ID, true
}

// album takes "artist / album".
func (c *controls) album(arg string, play bool) {
	artist, name, ok := strings.Cut(arg, "/")
	artist, name = strings.TrimSpace(artist), strings.TrimSpace(name)
	if !ok || artist == "" || name == "" {
		fmt.Fprintln(c.out, "usage: a <artist> / <album>")
		return
	}
	c.bus.Do(func() {
		op := c.albums.QueueAlbum
		if play {
			op = c.albums.PlayAlbum
		}
		if err := op(artist, name); err != nil {
			fmt.Fprintln(c.out, errmsg.FormatWith(errmsg.OpQueueAdd, artist+" / "+name, err))
		}
	})
}

// update runs on the reading goroutine; the scanner posts the new
// collection to the bus when it commits.
func (c *controls) update() {
	if c.rescan == nil {
		fmt.Fprintln(c.out, "no music folder configured")
		return
	}
	fmt.Fprintln(c.out, "scanning...")
	res, err := c.rescan()
	if err != nil {
		fmt.Fprintln(c.out, errmsg.Format(errmsg.OpLibraryScan, err))
		return
	}
	fmt.Fprintf(c.out, "indexed %d songs, skipped %d\n", res.Indexed, res.Skipped)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
