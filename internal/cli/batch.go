package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/mgpai22/srtfix/internal/fixer"
	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch [directory]",
	Short: "Clean up every SRT file in a directory",
	Long: `Clean up every .srt file in a directory in parallel.

Files that are themselves fixed outputs (NAME.fixed.srt) are ignored, so
running batch twice over the same directory is safe. A failing file does
not stop the others; all failures are reported at the end.

Examples:
  srtfix batch subs/
  srtfix batch subs/ --output-dir fixed/ --concurrency 8
  srtfix batch subs/ --skip-existing`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().String("output-dir", "", "Directory for fixed files (default: alongside sources)")
	batchCmd.Flags().Int("concurrency", 0, "Number of parallel workers (default from config)")
	batchCmd.Flags().Bool("skip-existing", false, "Leave already fixed outputs untouched")
}

func runBatch(cmd *cobra.Command, args []string) error {
	inDir := args[0]
	outputDir, _ := cmd.Flags().GetString("output-dir")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	skipExisting, _ := cmd.Flags().GetBool("skip-existing")

	if concurrency <= 0 {
		concurrency = cfg.Concurrency
	}
	if !cmd.Flags().Changed("skip-existing") {
		skipExisting = cfg.SkipExisting
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := newFixer(skipExisting).FixDir(ctx, inDir, outputDir, concurrency)

	fixed, skipped, failed := summarize(results)
	fmt.Fprintf(cmd.OutOrStdout(), "Fixed %d file(s), skipped %d, failed %d\n",
		fixed, skipped, failed)

	if err != nil {
		return fmt.Errorf("batch finished with errors: %w", err)
	}
	return nil
}

func summarize(results []fixer.Result) (fixed, skipped, failed int) {
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
		case r.Skipped:
			skipped++
		default:
			fixed++
		}
	}
	return fixed, skipped, failed
}
