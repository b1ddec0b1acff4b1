package cli

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/llehouerou/bluewaves/internal/errmsg"
	"github.com/llehouerou/bluewaves/internal/scanner"
)

var scanCmd = &cobra.Command{
	Use:   "scan [folder]",
	Short: "Index the music folder",
	Long: `Walk the music folder for flac, ogg and mp3 files and rebuild the song
index. Statistics for songs, albums and artists that disappeared are
dropped.

Examples:
  bluewaves scan
  bluewaves scan ~/Music`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	folder := cfg.MusicFolder
	if len(args) == 1 {
		folder = args[0]
	}
	if folder == "" {
		return errors.New("no music folder: set music_folder in the config or pass one")
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	s := scanner.New(a.db, a.log.WithComponent("scanner").Logger)
	res, err := s.Scan(cmd.Context(), folder)
	if err != nil {
		return errmsg.WrapWith(errmsg.OpLibraryScan, folder, err)
	}

	snap, err := a.repo.Snapshot()
	if err != nil {
		return errmsg.Wrap(errmsg.OpLibraryLoad, err)
	}
	pruned, err := a.stats.Prune(snap)
	if err != nil {
		return errmsg.Wrap(errmsg.OpStatsPrune, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Indexed %s songs by %s artists\n",
		humanize.Comma(int64(res.Indexed)), humanize.Comma(int64(len(snap.Artists()))))
	if res.Skipped > 0 {
		fmt.Fprintf(out, "Skipped %s of %s files (unreadable or missing tags)\n",
			humanize.Comma(int64(res.Skipped)), humanize.Comma(int64(res.Found)))
	}
	if pruned > 0 {
		fmt.Fprintf(out, "Dropped %s stale statistics\n", humanize.Comma(pruned))
	}
	return nil
}
