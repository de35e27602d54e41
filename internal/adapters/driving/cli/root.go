// Package cli implements the cobra command tree. Commands run against
// package-level service variables injected at startup via Configure,
// which keeps the commands testable with in-memory doubles.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/askdoc-labs/askdoc/internal/core/ports/driven"
	"github.com/askdoc-labs/askdoc/internal/core/ports/driving"
	"github.com/askdoc-labs/askdoc/internal/logger"
)

// version is the build version, overridable at link time.
var version = "0.1.0"

// Global flags.
var (
	verbose   bool
	configDir string
)

// SyncFactory builds the sync service for a named source
// (azure-blob, azure-files, dir).
type SyncFactory func(source string) (driving.SyncService, error)

// Injected services.
var (
	ingestService driving.IngestService
	chatService   driving.ChatService
	syncFactory   SyncFactory
	configStore   driven.ConfigStore
	releaseFunc   func() error
)

// initHook builds the real services once flags are parsed. Tests leave
// it nil and inject doubles directly.
var initHook func() error

var rootCmd = &cobra.Command{
	Use:   "askdoc",
	Short: "Ask questions about your documents",
	Long: `askdoc ingests PDF and PPTX documents into a local vector index
and answers questions about them using retrieval-augmented generation.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if initHook != nil {
			return initHook()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.askdoc)")
}

// Configure injects the services the commands run against.
func Configure(ingest driving.IngestService, chat driving.ChatService, sync SyncFactory, config driven.ConfigStore, release func() error) {
	ingestService = ingest
	chatService = chat
	syncFactory = sync
	configStore = config
	releaseFunc = release
}

// OnInit registers a hook that runs after flag parsing and before any
// command, typically to build and Configure the real services.
func OnInit(hook func() error) {
	initHook = hook
}

// ConfigDir returns the --config-dir flag value, empty for the default.
func ConfigDir() string {
	return configDir
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
