package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index status",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := context.Background()

	status, err := ingestService.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to read status: %w", err)
	}

	health := "ok"
	if !status.IndexHealthy {
		health = "unhealthy"
	}

	cmd.Printf("Documents indexed: %d\n", status.DocumentsIndexed)
	cmd.Printf("Total chunks:      %d\n", status.TotalChunks)
	cmd.Printf("Index health:      %s\n", health)
	return nil
}
