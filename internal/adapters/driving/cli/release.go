package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Release model client resources",
	Long: `Drops the embedding and generation clients and their pooled
connections. They are recreated on the next request. Useful for
long-running watch sessions.`,
	Args: cobra.NoArgs,
	RunE: runRelease,
}

func init() {
	rootCmd.AddCommand(releaseCmd)
}

func runRelease(cmd *cobra.Command, _ []string) error {
	if releaseFunc == nil {
		return errors.New("release not configured")
	}

	if err := releaseFunc(); err != nil {
		return fmt.Errorf("release failed: %w", err)
	}

	cmd.Println("Model clients released.")
	return nil
}
