package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/mgpai22/srtfix/internal/video"
	"github.com/spf13/cobra"
)

var sidecarCmd = &cobra.Command{
	Use:   "sidecar [media_file]",
	Short: "Clean up the subtitles downloaded next to a media file",
	Long: `Clean up the .srt files that a downloader (e.g. yt-dlp) wrote next to a
media file. Every .srt in the same directory whose name contains the media
file's base name is fixed; files whose fixed output already exists are left
alone. Suitable as a post-download hook.

Examples:
  srtfix sidecar "downloads/My Video [abc123].mp4"
  yt-dlp --write-auto-subs --convert-subs srt --exec "srtfix sidecar {}" URL`,
	Args: cobra.ExactArgs(1),
	RunE: runSidecar,
}

func init() {
	rootCmd.AddCommand(sidecarCmd)
}

func runSidecar(cmd *cobra.Command, args []string) error {
	mediaPath := args[0]

	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", mediaPath)
	}
	if !video.IsMediaFile(mediaPath) {
		logger.Warnw("Not a known media extension, continuing", "file", mediaPath)
	}

	results, err := newFixer(false).FixSidecars(context.Background(), mediaPath)

	fixed, skipped, failed := summarize(results)
	if len(results) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No subtitles found for %s\n", mediaPath)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Fixed %d sidecar subtitle(s), skipped %d, failed %d\n",
			fixed, skipped, failed)
	}

	if err != nil {
		return fmt.Errorf("sidecar fixing failed: %w", err)
	}
	return nil
}
