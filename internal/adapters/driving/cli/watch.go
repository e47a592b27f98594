package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docproof/internal/logger"
)

// watchDebounce collapses the burst of events an editor save produces.
const watchDebounce = 200 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-fingerprint a document whenever it changes",
	Long: `Watch a document and print its fingerprint each time it is saved.

Useful while editing a document that will be recorded: the fingerprint
shown last is the one 'docproof upload' would record. Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if orchestrator == nil {
		return errors.New("orchestrator not configured")
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve %s: %w", args[0], err)
	}
	if _, err := selectDocument(cmd, path); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file on save, so watch its directory.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	cmd.Printf("Watching %s (Ctrl+C to stop)\n", path)

	return watchLoop(cmd.Context(), watcher.Events, watcher.Errors, path, func() {
		if _, err := selectDocument(cmd, path); err != nil {
			cmd.Println(formatError(err))
		}
	})
}

// watchLoop calls rehash after changes to path settle, until ctx is done
// or the watcher closes.
func watchLoop(
	ctx context.Context,
	events <-chan fsnotify.Event,
	errs <-chan error,
	path string,
	rehash func(),
) error {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !affects(ev, path) {
				continue
			}
			logger.Debug("watch: %s %s", ev.Op, ev.Name)
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			rehash()
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			logger.Warn("watch: %v", err)
		}
	}
}

// affects reports whether ev changed the content of path.
func affects(ev fsnotify.Event, path string) bool {
	if filepath.Clean(ev.Name) != filepath.Clean(path) {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)
}
