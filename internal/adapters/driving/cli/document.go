package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/askdoc-labs/askdoc/internal/core/domain"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage indexed documents",
	Long:  `List or delete indexed documents.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Remove a document from the index",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

func init() {
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := context.Background()

	docs, err := ingestService.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents indexed.")
		return nil
	}

	cmd.Println("Indexed documents:")
	cmd.Println()
	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    Origin:   %s\n", docs[i].Origin)
		cmd.Printf("    Chunks:   %d\n", docs[i].ChunkCount)
		cmd.Printf("    Ingested: %s\n", docs[i].IngestedAt.Format("2006-01-02 15:04:05"))
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	docID := args[0]
	ctx := context.Background()

	if err := ingestService.Delete(ctx, docID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("document %s is not indexed", docID)
		}
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Document %s deleted.\n", docID)
	return nil
}
