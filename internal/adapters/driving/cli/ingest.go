package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/courseqa/internal/core/ports/driving"
)

var (
	ingestWatch   bool
	ingestReindex bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [folder]",
	Short: "Index course transcripts from a folder",
	Long: `Parses, chunks and indexes every .txt transcript in the folder.

Files are processed in name order. A transcript whose course title is
already indexed is skipped, so re-running over the same folder is safe.
Malformed transcripts are skipped with a warning.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "keep watching the folder for new transcripts")
	ingestCmd.Flags().BoolVar(&ingestReindex, "reindex", false, "clear the index and re-ingest from scratch")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	folder := args[0]

	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := cmd.Context()

	if ingestWatch {
		cmd.Printf("Watching %s (Ctrl-C to stop)\n", folder)
		if err := ingestService.Watch(ctx, folder); err != nil {
			return fmt.Errorf("watch failed: %w", err)
		}
		return nil
	}

	var stats driving.IngestStats
	var err error
	if ingestReindex {
		stats, err = ingestService.Reindex(ctx, folder)
	} else {
		stats, err = ingestService.IngestFolder(ctx, folder)
	}
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Indexed %d courses (%d chunks), skipped %d files\n",
		stats.CoursesAdded, stats.ChunksAdded, stats.Skipped)
	return nil
}
