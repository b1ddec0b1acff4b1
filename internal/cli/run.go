package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"

	"github.com/llehouerou/bluewaves/internal/bus"
	"github.com/llehouerou/bluewaves/internal/collection"
	"github.com/llehouerou/bluewaves/internal/errmsg"
	"github.com/llehouerou/bluewaves/internal/lastfm"
	"github.com/llehouerou/bluewaves/internal/logger"
	"github.com/llehouerou/bluewaves/internal/mpris"
	"github.com/llehouerou/bluewaves/internal/notify"
	"github.com/llehouerou/bluewaves/internal/playback"
	"github.com/llehouerou/bluewaves/internal/player"
	"github.com/llehouerou/bluewaves/internal/playlist"
	"github.com/llehouerou/bluewaves/internal/scanner"
	"github.com/llehouerou/bluewaves/internal/similar"
)

var (
	runPlaylist    string
	runTop         string
	runShuffleMode string
	runNoInput     bool
	runNotify      bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the player",
	Long: `Start the control loop. Media keys work through MPRIS; commands can also
be typed on stdin (? for help).

Examples:
  bluewaves run
  bluewaves run --playlist road-trip
  bluewaves run --top albums --shuffle-mode similar`,
	Args: cobra.NoArgs,
	RunE: runPlayer,
}

func init() {
	runCmd.Flags().StringVarP(&runPlaylist, "playlist", "p", "", "saved playlist to queue")
	runCmd.Flags().StringVar(&runTop, "top", "", `queue the most played "songs" or "albums"`)
	runCmd.Flags().StringVar(&runShuffleMode, "shuffle-mode", "", `override the shuffle mode: "random" or "similar"`)
	runCmd.Flags().BoolVar(&runNoInput, "no-input", false, "ignore stdin")
	runCmd.Flags().BoolVar(&runNotify, "notify", false, "desktop notification on track change (default from config)")
	rootCmd.AddCommand(runCmd)
}

func runPlayer(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	log := a.log

	snap, err := a.repo.Snapshot()
	if err != nil {
		return errmsg.Wrap(errmsg.OpLibraryLoad, err)
	}
	if snap.Len() == 0 {
		log.Warn("library is empty, run `bluewaves scan` first")
	}

	settings := cfg.PlaylistSettings()
	if runShuffleMode != "" {
		settings.ShuffleMode = playlist.ParseShuffleMode(runShuffleMode)
	}

	b := bus.New(log.WithComponent("bus").Logger)
	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))

	var pool playlist.Similar
	var helper *similar.Helper
	if cfg.HasLastfmConfig() {
		lf := cfg.LastfmSettings()
		cache := similar.NewCache(a.db, lf.CacheTTLDays)
		if n, err := cache.CleanExpired(); err != nil {
			log.Warn("similar cache cleanup failed", "err", err)
		} else if n > 0 {
			log.Debug("similar cache cleaned", "rows", n)
		}
		helper = similar.New(similar.Config{
			Fetcher: lastfm.New(lf.APIKey, lf.APISecret),
			Cache:   cache,
			Library: a.repo,
			Poster:  b,
			Limit:   lf.SimilarLimit,
			Log:     log.WithComponent("similar").Logger,
		})
		helper.Attach(b)
		pool = helper
	} else if settings.ShuffleMode == playlist.ShuffleSimilar {
		log.Warn("similar shuffle needs a Last.fm api_key, falling back to random picks")
	}

	ctrl := playback.New(player.NewNull(log.WithComponent("backend").Logger), b, log.WithComponent("playback").Logger)
	eng := playlist.New(playlist.Deps{
		Emitter: b,
		Library: a.repo,
		Stats:   a.stats,
		Similar: pool,
		Rand:    rng,
		Log:     log.WithComponent("playlist").Logger,
	}, settings)
	browser := collection.New(snap, b, a.stats, rng, log.WithComponent("collection").Logger)

	eng.Attach(b)
	ctrl.Attach(b)
	browser.Attach(b)

	if err := preload(eng, a); err != nil {
		return err
	}

	covers := mpris.Covers{Dir: cfg.CoversDir()}
	surface, err := mpris.New(ctrl, b, covers, log.WithComponent("mpris").Logger)
	if err != nil {
		log.Warn(errmsg.Format(errmsg.OpMediaControl, err))
	} else {
		defer surface.Close()
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	out := cmd.OutOrStdout()
	go playback.NewClock(ctrl, b.Do).Run(ctx)
	go watchNowPlaying(ctx, ctrl, out, log)
	if runNotify || cfg.Notifications {
		ann := notify.NewAnnouncer(notify.NewSender(), covers, log.WithComponent("notify").Logger)
		go ann.Run(ctx, ctrl.Subscribe())
	}
	if !runNoInput {
		c := &controls{bus: b, eng: eng, albums: browser, store: a.playlists, out: out, width: defaultWidth}
		if cfg.MusicFolder != "" {
			sc := scanner.New(a.db, log.WithComponent("scanner").Logger, scanner.WithPoster(b))
			c.rescan = func() (scanner.Result, error) { return sc.Scan(ctx, cfg.MusicFolder) }
		}
		go func() {
			if err := c.run(ctx, os.Stdin); err != nil {
				log.Warn("reading commands", "err", err)
			}
			cancel()
		}()
	}

	b.Post(bus.PlayPressed{})
	err = b.Run(ctx)

	ctrl.Close()
	if helper != nil {
		helper.Wait()
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// preload fills the queue from the command line flags, before the loop
// starts.
func preload(eng *playlist.Engine, a *app) error {
	if runPlaylist != "" {
		filenames, err := a.playlists.Load(runPlaylist)
		if err != nil {
			return errmsg.WrapWith(errmsg.OpPlaylistLoad, runPlaylist, err)
		}
		n := eng.LoadSongs(filenames)
		a.log.Info("playlist queued", "name", runPlaylist, "songs", n, "missing", len(filenames)-n)
		return nil
	}

	var err error
	switch runTop {
	case "":
		return nil
	case "songs":
		_, err = eng.PopulateTopSongs(playlist.TopSongsLimit)
	case "albums":
		_, err = eng.PopulateTopAlbums(playlist.TopAlbumsLimit)
	default:
		return fmt.Errorf("--top: want songs or albums, got %q", runTop)
	}
	return errmsg.Wrap(errmsg.OpQueuePopulate, err)
}

// watchNowPlaying prints the status bar on every track or state change.
func watchNowPlaying(ctx context.Context, ctrl *playback.Controller, out io.Writer, log *logger.Logger) {
	sub := ctrl.Subscribe()
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done:
			return
		case tc := <-sub.TrackChanged:
			log.WithSong(tc.Song.Filename, tc.Song.Title).Debug("now playing", "album_index", tc.AlbumIndex)
		case <-sub.StateChanged:
		case e := <-sub.Error:
			fmt.Fprintln(out, errmsg.FormatWith(errmsg.OpPlaybackStart, e.Path, e.Err))
			continue
		}
		fmt.Fprintln(out, nowPlaying(ctrl.Status(), defaultWidth))
	}
}
