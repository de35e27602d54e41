package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/askdoc-labs/askdoc/internal/core/domain"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the indexed documents",
	Long: `Embeds the question, retrieves the most relevant chunks from the
index, and generates an answer grounded in them. Sources are listed
after the answer.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	ctx := context.Background()

	answer, err := chatService.Answer(ctx, args[0])
	if errors.Is(err, domain.ErrNoDocumentsIndexed) {
		cmd.Println("No documents indexed yet. Run 'askdoc ingest' or 'askdoc sync' first.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("answer failed: %w", err)
	}

	cmd.Println(answer.Text)
	if len(answer.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for _, source := range answer.Sources {
			cmd.Printf("  - %s\n", source)
		}
	}

	return nil
}
