package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/documind-labs/documind-cli/internal/core/domain"
	"github.com/documind-labs/documind-cli/internal/logger"
)

var watchOwner string

// watchDebounce coalesces the burst of write events editors emit while
// saving a file.
const watchDebounce = 500 * time.Millisecond

// watchExtensions are the file types auto-ingested by watch mode.
var watchExtensions = map[string]bool{
	".txt": true,
	".md":  true,
}

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and auto-ingest new files",
	Long: `Watches a directory and ingests text files (.txt, .md) as they are
created or modified. Each file becomes one document keyed by its path,
so re-saving a file re-ingests it under a fresh document.

Runs until interrupted with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchOwner, "owner", "o", "", "owner namespace (default: configured default owner)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestionService == nil {
		return errors.New("ingestion service not configured")
	}

	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch %s: not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	owner := resolveOwner(watchOwner)
	cmd.Printf("Watching %s for owner %s. Press Ctrl-C to stop.\n", dir, owner)

	w := &dirWatcher{
		cmd:   cmd,
		owner: owner,
	}
	defer w.cancelPending()

	for {
		select {
		case <-ctx.Done():
			cmd.Println("\nStopping watch.")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

// dirWatcher ingests files after their write events settle.
type dirWatcher struct {
	cmd   *cobra.Command
	owner string

	mu      sync.Mutex
	pending map[string]*time.Timer
}

func (w *dirWatcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return
	}
	if !watchExtensions[strings.ToLower(filepath.Ext(event.Name))] {
		return
	}

	logger.Debug("watch event: %s %s", event.Op, event.Name)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending == nil {
		w.pending = make(map[string]*time.Timer)
	}
	if timer, ok := w.pending[event.Name]; ok {
		timer.Reset(watchDebounce)
		return
	}

	path := event.Name
	w.pending[path] = time.AfterFunc(watchDebounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		w.ingest(ctx, path)
	})
}

func (w *dirWatcher) ingest(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		w.cmd.PrintErrf("read %s: %v\n", path, err)
		return
	}

	result, err := ingestionService.Ingest(ctx, domain.IngestRequest{
		Text:     string(data),
		Owner:    w.owner,
		Filename: filepath.Base(path),
		FileSize: int64(len(data)),
	})
	if err != nil {
		w.cmd.PrintErrf("ingest %s: %v\n", path, err)
		return
	}

	w.cmd.Printf("Ingested %s: %d chunks (doc %s)\n", path, result.ChunksCreated, result.DocID)
}

// cancelPending stops timers still waiting when watch mode exits.
func (w *dirWatcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}
