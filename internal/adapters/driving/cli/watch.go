package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/askdoc-labs/askdoc/internal/core/domain"
	"github.com/askdoc-labs/askdoc/internal/core/ports/driving"
	"github.com/askdoc-labs/askdoc/internal/logger"
)

// watchSettleDelay is how long a file must stay quiet before it is
// ingested. Editors and copies emit bursts of write events.
const watchSettleDelay = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a directory and ingest new documents",
	Long: `Watches a local directory and automatically ingests PDF and PPTX
files as they are created or modified. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("cannot watch %s: not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s (Ctrl-C to stop)\n", dir)
	watchLoop(ctx, cmd, watcher)
	return nil
}

// watchLoop processes watcher events until the context is cancelled.
// Each file gets a settle timer that is reset on every event, so a
// burst of writes results in a single ingestion.
func watchLoop(ctx context.Context, cmd *cobra.Command, watcher *fsnotify.Watcher) {
	timers := make(map[string]*time.Timer)
	defer func() {
		for _, timer := range timers {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if !watchable(event.Name) {
				continue
			}

			path := event.Name
			if timer, exists := timers[path]; exists {
				timer.Reset(watchSettleDelay)
				continue
			}
			timers[path] = time.AfterFunc(watchSettleDelay, func() {
				ingestPath(ctx, cmd, path)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// ingestPath reads a settled file and runs it through the pipeline.
func ingestPath(ctx context.Context, cmd *cobra.Command, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		cmd.Printf("  %s: %v\n", path, err)
		return
	}

	result, err := ingestService.Ingest(ctx, driving.IngestRequest{
		Filename: filepath.Base(path),
		Data:     data,
		Origin:   domain.OriginWatch,
	})
	if err != nil {
		cmd.Printf("  %s: %v\n", path, err)
		return
	}
	cmd.Printf("  %s -> %s (%d chunks)\n", path, result.DocumentID, result.ChunksIndexed)
}

// watchable reports whether a path looks like an ingestible document.
func watchable(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".pptx":
		return true
	}
	return false
}
