package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/askdoc-labs/askdoc/internal/core/domain"
	"github.com/askdoc-labs/askdoc/internal/core/ports/driving"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]...",
	Short: "Ingest documents into the index",
	Long: `Extracts text from PDF or PPTX files, chunks it, embeds the chunks,
and writes them to the vector index. Re-ingesting a file replaces its
previous chunks.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := context.Background()
	failed := 0

	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			cmd.Printf("  %s: %v\n", path, err)
			failed++
			continue
		}

		result, err := ingestService.Ingest(ctx, driving.IngestRequest{
			Filename: filepath.Base(path),
			Data:     data,
			Origin:   domain.OriginUpload,
		})
		if err != nil {
			cmd.Printf("  %s: %v\n", path, err)
			failed++
			continue
		}

		cmd.Printf("  %s -> %s (%d chunks)\n", path, result.DocumentID, result.ChunksIndexed)
		if result.PagesSkipped > 0 {
			cmd.Printf("    %d pages skipped\n", result.PagesSkipped)
		}
		for _, warning := range result.Warnings {
			cmd.Printf("    warning: %s\n", warning)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(args))
	}
	return nil
}
