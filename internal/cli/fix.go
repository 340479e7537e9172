package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mgpai22/srtfix/internal/fixer"
	"github.com/mgpai22/srtfix/internal/subtitle"
	"github.com/spf13/cobra"
)

var fixCmd = &cobra.Command{
	Use:   "fix [srt_file]",
	Short: "Clean up a single SRT file",
	Long: `Clean up one auto-generated SRT file.

The fixed file is written next to the source as NAME.fixed.srt unless
--output or --output-dir is given. Use - to read from stdin; the result is
then written to stdout unless --output is set.

Examples:
  srtfix fix video.en.srt
  srtfix fix video.en.srt -o clean.srt
  srtfix fix video.en.srt --output-dir fixed/
  cat video.en.srt | srtfix fix - > clean.srt`,
	Args: cobra.ExactArgs(1),
	RunE: runFix,
}

func init() {
	rootCmd.AddCommand(fixCmd)

	fixCmd.Flags().StringP("output", "o", "", "Output file path")
	fixCmd.Flags().String("output-dir", "", "Directory for the fixed file")
}

func runFix(cmd *cobra.Command, args []string) error {
	src := args[0]
	outputPath, _ := cmd.Flags().GetString("output")
	outputDir, _ := cmd.Flags().GetString("output-dir")

	if outputPath != "" && outputDir != "" {
		return fmt.Errorf("--output and --output-dir are mutually exclusive")
	}

	f := newFixer(cfg.SkipExisting)

	if src == "-" {
		return fixStdin(cmd, f, outputPath)
	}

	if outputPath == "" {
		outputPath = fixer.OutputPath(src, outputDir, cfg.OutputSuffix)
	}

	logger.Infow("Fixing subtitles",
		"input", src,
		"output", outputPath,
	)

	res, err := f.FixFile(context.Background(), src, outputPath)
	if err != nil {
		return err
	}
	if res.Skipped {
		fmt.Fprintf(cmd.OutOrStdout(), "Output already exists, skipped: %s\n", res.Output)
		return nil
	}

	logger.Infow("Subtitles fixed",
		"charset", res.Charset,
		"captions_in", res.Stats.Parsed,
		"captions_out", res.Stats.Emitted,
		"flickers", res.Stats.Flickers,
		"fused", res.Stats.Fused,
		"appended", res.Stats.Appended,
	)

	absOutput, _ := filepath.Abs(res.Output)
	fmt.Fprintf(cmd.OutOrStdout(), "Subtitles fixed successfully: %s\n", absOutput)

	return nil
}

func fixStdin(cmd *cobra.Command, f *fixer.Fixer, outputPath string) error {
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}

	out, stats, charset, err := f.FixBytes(data)
	if err != nil {
		return fmt.Errorf("failed to decode stdin: %w", err)
	}

	logger.Debugw("Fixed stdin",
		"charset", charset,
		"captions_in", stats.Parsed,
		"captions_out", stats.Emitted,
	)

	if outputPath == "" {
		_, err := io.WriteString(cmd.OutOrStdout(), out)
		return err
	}

	writer := &subtitle.SRTWriter{}
	if err := writer.Write(out, outputPath); err != nil {
		return err
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Fprintf(os.Stderr, "Subtitles fixed successfully: %s\n", absOutput)
	return nil
}
