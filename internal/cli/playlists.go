package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/llehouerou/bluewaves/internal/bus"
	"github.com/llehouerou/bluewaves/internal/errmsg"
	"github.com/llehouerou/bluewaves/internal/playlist"
)

var playlistTopLimit int

var playlistsCmd = &cobra.Command{
	Use:   "playlists",
	Short: "Manage saved playlists",
	Long:  `List, create, delete and inspect the m3u8 playlists in the data directory.`,
	RunE:  runPlaylistsList,
}

var playlistsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved playlists",
	RunE:  runPlaylistsList,
}

var playlistsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an empty playlist",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlaylistsCreate,
}

var playlistsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a playlist",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlaylistsDelete,
}

var playlistsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show the songs of a playlist",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlaylistsShow,
}

var playlistsTopCmd = &cobra.Command{
	Use:   "top <name>",
	Short: "Save the most played songs as a playlist",
	Long: `Build a playlist from the most played songs, most played first.

Examples:
  bluewaves playlists top favourites
  bluewaves playlists top best-of --limit 20`,
	Args: cobra.ExactArgs(1),
	RunE: runPlaylistsTop,
}

func init() {
	playlistsTopCmd.Flags().IntVarP(&playlistTopLimit, "limit", "l", playlist.TopSongsLimit, "Number of songs")

	playlistsCmd.AddCommand(playlistsListCmd)
	playlistsCmd.AddCommand(playlistsCreateCmd)
	playlistsCmd.AddCommand(playlistsDeleteCmd)
	playlistsCmd.AddCommand(playlistsShowCmd)
	playlistsCmd.AddCommand(playlistsTopCmd)
	rootCmd.AddCommand(playlistsCmd)
}

func runPlaylistsList(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	names, err := a.playlists.List()
	if err != nil {
		return errmsg.Wrap(errmsg.OpPlaylistList, err)
	}
	out := cmd.OutOrStdout()
	if len(names) == 0 {
		fmt.Fprintln(out, "No playlists")
		return nil
	}
	for _, n := range names {
		fmt.Fprintln(out, n)
	}
	return nil
}

func runPlaylistsCreate(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.playlists.Create(args[0]); err != nil {
		return errmsg.WrapWith(errmsg.OpPlaylistCreate, args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", args[0])
	return nil
}

func runPlaylistsDelete(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.playlists.Delete(args[0]); err != nil {
		return errmsg.WrapWith(errmsg.OpPlaylistDelete, args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
	return nil
}

func runPlaylistsShow(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	filenames, err := a.playlists.Load(args[0])
	if err != nil {
		return errmsg.WrapWith(errmsg.OpPlaylistLoad, args[0], err)
	}

	out := cmd.OutOrStdout()
	for i, f := range filenames {
		s, err := a.repo.SongByFilename(f)
		if err != nil {
			fmt.Fprintf(out, "%4d. %s\n", i+1, dimStyle.Render(fit("(missing) "+f, defaultWidth-6)))
			continue
		}
		fmt.Fprintf(out, "%4d. %s\n", i+1, fit(fmt.Sprintf("%s - %s", s.Artist, s.Title), defaultWidth-6))
	}
	return nil
}

func runPlaylistsTop(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	eng := playlist.New(playlist.Deps{
		Emitter: bus.New(a.log.Logger),
		Library: a.repo,
		Stats:   a.stats,
		Log:     a.log.WithComponent("playlist").Logger,
	}, cfg.PlaylistSettings())

	n, err := eng.PopulateTopSongs(playlistTopLimit)
	if err != nil {
		return errmsg.Wrap(errmsg.OpQueuePopulate, err)
	}
	if err := a.playlists.Save(args[0], eng.Entries()); err != nil {
		return errmsg.WrapWith(errmsg.OpPlaylistSave, args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %d songs to %s\n", n, args[0])
	return nil
}
