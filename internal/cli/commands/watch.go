package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/gridstack-labs/glmkit/internal/cli/config"
)

// watchDebounce coalesces bursts of filesystem events into one reload.
const watchDebounce = 200 * time.Millisecond

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <model.glm>",
		Short: "Re-parse a model on every change",
		Long: `Watch a model file and re-parse it whenever it changes, reporting the
statement count and any problems. Useful while hand-editing a model.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args[0])
		},
	}
}

func runWatch(cmd *cobra.Command, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory rather than the file: editors that replace the
	// file on save would otherwise drop the watch.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	reportModel(cmd, path)
	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s\n", path)

	logger := config.GetLogger(cmd.Context())
	var debounce *time.Timer
	reload := make(chan struct{}, 1)

	for {
		select {
		case <-cmd.Context().Done():
			return nil

		case <-reload:
			reportModel(cmd, path)

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || abs != target {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			logger.Debug("model changed", "op", event.Op.String())
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Watch error: %v\n", err)
		}
	}
}

// reportModel parses the model once and prints a one-line status.
func reportModel(cmd *cobra.Command, path string) {
	m, err := loadManager(cmd, path)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", time.Now().Format("15:04:05"), err)
		return
	}
	_, warnings := m.Render()
	status := "ok"
	if len(warnings) > 0 {
		status = fmt.Sprintf("%d warnings", len(warnings))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d statements, %s\n",
		time.Now().Format("15:04:05"), m.Len(), status)
}
