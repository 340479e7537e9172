package cli

import (
	"fmt"
	"time"

	"github.com/mgpai22/srtfix/internal/config"
	"github.com/mgpai22/srtfix/internal/ffmpeg"
	"github.com/mgpai22/srtfix/internal/fixer"
	"github.com/mgpai22/srtfix/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	logger     *logging.Logger
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "srtfix",
	Short: "Clean up auto-generated SRT subtitles",
	Long: `srtfix removes the rolling-caption artifacts that auto-generated
subtitles (YouTube and similar) carry: lines repeated from the previous
cue, sub-second flicker cues, one-word fragments and overlapping windows.

Settings are read from srtfix.yaml in the working directory or from the
file given with --config. Flags override the file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger(verbose)

		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if err := applyDedupeFlags(cmd, loaded); err != nil {
			return err
		}
		cfg = loaded

		if cfg.Path() != "" {
			logger.Debugw("Loaded config", "path", cfg.Path())
		}

		ffmpeg.SetPaths(ffmpeg.BinaryPaths{
			FFmpeg:  cfg.FFmpegPath,
			FFprobe: cfg.FFprobePath,
		})
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Config file path (default ./srtfix.yaml)")
	rootCmd.PersistentFlags().
		Duration("flicker-threshold", 0, "Collapse repeated cues shorter than this (e.g. 150ms)")
	rootCmd.PersistentFlags().
		Duration("gap", 0, "Minimum gap kept between consecutive cues (e.g. 1ms)")
	rootCmd.PersistentFlags().
		Int("append-words", 0, "Append cues of at most this many words to the previous one (0 disables)")
	rootCmd.PersistentFlags().
		String("suffix", "", "Suffix for fixed files (default .fixed.srt)")
}

// copies explicitly set dedupe flags over the loaded config
func applyDedupeFlags(cmd *cobra.Command, c *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("flicker-threshold") {
		d, _ := flags.GetDuration("flicker-threshold")
		c.FlickerThresholdMs = int(d / time.Millisecond)
	}
	if flags.Changed("gap") {
		d, _ := flags.GetDuration("gap")
		c.OverlapGapMs = int(d / time.Millisecond)
	}
	if flags.Changed("append-words") {
		c.AppendMaxWords, _ = flags.GetInt("append-words")
	}
	if flags.Changed("suffix") {
		c.OutputSuffix, _ = flags.GetString("suffix")
	}

	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

func newFixer(skipExisting bool) *fixer.Fixer {
	return fixer.New(fixer.Options{
		Dedupe:       cfg.DedupeOptions(),
		Suffix:       cfg.OutputSuffix,
		SkipExisting: skipExisting,
	}, logger)
}
