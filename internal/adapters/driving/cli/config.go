package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// knownConfigKeys are the keys the show command prints, in order.
var knownConfigKeys = []string{
	"provider.embedding",
	"provider.generation",
	"openai.api_key",
	"openai.embedding_model",
	"openai.generation_model",
	"gemini.api_key",
	"gemini.embedding_model",
	"gemini.generation_model",
	"index.backend",
	"chunker.size",
	"chunker.overlap",
	"embedding.batch_size",
	"embedding.requests_per_minute",
	"chat.top_k",
	"chat.context_budget",
	"chat.temperature",
	"sync.source",
	"sync.dir",
	"sync.azure_blob.sas_url",
	"sync.azure_files.sas_url",
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View and edit the askdoc configuration file.`,
	RunE:  runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Printf("Configuration (%s)\n\n", configStore.Path())
	for _, key := range knownConfigKeys {
		val, ok := configStore.Get(key)
		if !ok {
			continue
		}
		cmd.Printf("  %s = %s\n", key, displayValue(key, val))
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key := args[0]
	val, ok := configStore.Get(key)
	if !ok {
		return fmt.Errorf("key %s is not set", key)
	}

	cmd.Printf("%s\n", displayValue(key, val))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key, raw := args[0], args[1]
	if err := configStore.Set(key, parseValue(raw)); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s.\n", key)
	return nil
}

// parseValue converts a CLI argument to the most specific TOML type.
func parseValue(raw string) any {
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseBool(raw); err == nil {
		return v
	}
	return raw
}

// displayValue renders a value for output, masking secrets.
func displayValue(key string, val any) string {
	rendered := fmt.Sprintf("%v", val)
	if strings.Contains(key, "api_key") || strings.Contains(key, "sas_url") {
		return maskSecret(rendered)
	}
	return rendered
}

func maskSecret(secret string) string {
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
