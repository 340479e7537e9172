package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/mgpai22/srtfix/internal/fixer"
	"github.com/mgpai22/srtfix/internal/video"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [media_file]",
	Short: "Extract an embedded subtitle track and clean it up",
	Long: `Extract a subtitle stream embedded in a media container, convert it to
SRT with ffmpeg and clean it up.

Without --stream the first text subtitle stream is used. Image based tracks
(PGS, DVB, VobSub) cannot be converted to SRT.

Examples:
  srtfix extract video.mkv --list
  srtfix extract video.mkv
  srtfix extract video.mkv --stream 1 -o video.de.srt`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("output", "o", "", "Output file path")
	extractCmd.Flags().IntP("stream", "s", -1, "Subtitle stream number as shown by --list")
	extractCmd.Flags().Bool("list", false, "List subtitle streams and exit")
}

func runExtract(cmd *cobra.Command, args []string) error {
	mediaPath := args[0]
	ctx := context.Background()

	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", mediaPath)
	}

	outputPath, _ := cmd.Flags().GetString("output")
	streamNum, _ := cmd.Flags().GetInt("stream")
	list, _ := cmd.Flags().GetBool("list")

	processor := video.NewProcessor()

	streams, err := processor.SubtitleStreams(ctx, mediaPath)
	if err != nil {
		return fmt.Errorf("failed to probe subtitle streams: %w", err)
	}

	if list {
		printStreams(cmd, streams)
		return nil
	}

	stream, err := pickStream(streams, streamNum)
	if err != nil {
		return err
	}

	if outputPath == "" {
		outputPath = fixer.OutputPath(rawTrackPath(mediaPath, stream), "", cfg.OutputSuffix)
	}

	logger.Infow("Extracting subtitles",
		"media", mediaPath,
		"stream", stream.SubIndex,
		"codec", stream.Codec,
		"language", stream.Language,
		"output", outputPath,
	)

	// the raw track goes to a scratch file next to the output
	rawPath := filepath.Join(filepath.Dir(outputPath), "."+uuid.NewString()+".srt")
	defer os.Remove(rawPath)

	if err := processor.ExtractSubtitle(ctx, mediaPath, rawPath, stream.SubIndex); err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	res, err := newFixer(false).FixFile(ctx, rawPath, outputPath)
	if err != nil {
		return err
	}

	logger.Infow("Subtitles fixed",
		"captions_in", res.Stats.Parsed,
		"captions_out", res.Stats.Emitted,
	)

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Subtitles extracted successfully: %s\n", absOutput)

	return nil
}

// chooses the requested stream, or the first text stream when num < 0
func pickStream(streams []video.Stream, num int) (video.Stream, error) {
	if len(streams) == 0 {
		return video.Stream{}, fmt.Errorf("no subtitle streams found")
	}

	if num >= 0 {
		if num >= len(streams) {
			return video.Stream{}, fmt.Errorf(
				"subtitle stream %d does not exist: file has %d subtitle stream(s)",
				num, len(streams),
			)
		}
		s := streams[num]
		if !s.IsText() {
			return video.Stream{}, fmt.Errorf(
				"subtitle stream %d is %s, which cannot be converted to SRT",
				num, s.Codec,
			)
		}
		return s, nil
	}

	for _, s := range streams {
		if s.IsText() {
			return s, nil
		}
	}
	return video.Stream{}, fmt.Errorf("no text subtitle streams found")
}

// "dir/movie.mkv" + stream -> "dir/movie.<lang>.srt"
func rawTrackPath(mediaPath string, s video.Stream) string {
	label := s.Language
	if label == "" || label == "und" {
		label = "s" + strconv.Itoa(s.SubIndex)
	}
	base := strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath))
	return base + "." + label + ".srt"
}

func printStreams(cmd *cobra.Command, streams []video.Stream) {
	if len(streams) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No subtitle streams found")
		return
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STREAM\tCODEC\tLANGUAGE\tTITLE\tTEXT")
	for _, s := range streams {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%v\n", s.SubIndex, s.Codec, s.Language, s.Title, s.IsText())
	}
	tw.Flush()
}
