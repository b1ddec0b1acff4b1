package cli

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/llehouerou/bluewaves/internal/errmsg"
	"github.com/llehouerou/bluewaves/internal/library"
	"github.com/llehouerou/bluewaves/internal/playlist"
)

var (
	statsSongsLimit  int
	statsAlbumsLimit int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show play statistics",
	Long:  `Show the size of the library and the most played songs.`,
	RunE:  runStatsSummary,
}

var statsSongsCmd = &cobra.Command{
	Use:   "songs",
	Short: "List the most played songs",
	RunE:  runStatsSongs,
}

var statsAlbumsCmd = &cobra.Command{
	Use:   "albums",
	Short: "List the most played albums",
	RunE:  runStatsAlbums,
}

var statsArtistCmd = &cobra.Command{
	Use:   "artist <name>",
	Short: "Show plays for one artist",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatsArtist,
}

func init() {
	statsSongsCmd.Flags().IntVarP(&statsSongsLimit, "limit", "l", playlist.TopSongsLimit, "Maximum number of songs to show")
	statsAlbumsCmd.Flags().IntVarP(&statsAlbumsLimit, "limit", "l", playlist.TopAlbumsLimit, "Maximum number of albums to show")

	statsCmd.AddCommand(statsSongsCmd)
	statsCmd.AddCommand(statsAlbumsCmd)
	statsCmd.AddCommand(statsArtistCmd)
	rootCmd.AddCommand(statsCmd)
}

func runStatsSummary(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	count, err := a.repo.Count()
	if err != nil {
		return errmsg.Wrap(errmsg.OpLibraryLoad, err)
	}
	artists, err := a.repo.Artists()
	if err != nil {
		return errmsg.Wrap(errmsg.OpLibraryLoad, err)
	}
	top, err := a.stats.TopSongs(5)
	if err != nil {
		return errmsg.Wrap(errmsg.OpStatsLoad, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s songs by %s artists\n\n",
		humanize.Comma(int64(count)), humanize.Comma(int64(len(artists))))
	if len(top) == 0 {
		fmt.Fprintln(out, dimStyle.Render("Nothing played yet"))
		return nil
	}
	fmt.Fprint(out, songTable(top, defaultWidth))
	return nil
}

func runStatsSongs(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	songs, err := a.stats.TopSongs(statsSongsLimit)
	if err != nil {
		return errmsg.Wrap(errmsg.OpStatsLoad, err)
	}
	fmt.Fprint(cmd.OutOrStdout(), songTable(songs, defaultWidth))
	return nil
}

func runStatsAlbums(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	albums, err := a.stats.TopAlbums(statsAlbumsLimit)
	if err != nil {
		return errmsg.Wrap(errmsg.OpStatsLoad, err)
	}
	fmt.Fprint(cmd.OutOrStdout(), albumTable(albums, defaultWidth))
	return nil
}

func runStatsArtist(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	artist := args[0]
	ok, err := a.repo.ArtistExists(artist)
	if err != nil {
		return errmsg.WrapWith(errmsg.OpLibraryLoad, artist, err)
	}
	if !ok {
		return errmsg.WrapWith(errmsg.OpLibraryLoad, artist, library.ErrNotFound)
	}
	songs, err := a.repo.ArtistSongs(artist)
	if err != nil {
		return errmsg.WrapWith(errmsg.OpLibraryLoad, artist, err)
	}
	plays, err := a.stats.ArtistCount(artist)
	if err != nil {
		return errmsg.WrapWith(errmsg.OpStatsLoad, artist, err)
	}
	slices.SortStableFunc(songs, func(x, y library.Song) int {
		return cmp.Compare(y.PlayCount, x.PlayCount)
	})

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %s plays over %s songs\n\n",
		artist, humanize.Comma(int64(plays)), humanize.Comma(int64(len(songs))))
	fmt.Fprint(out, songTable(songs, defaultWidth))
	return nil
}
