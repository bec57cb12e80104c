// Package commands implements the glmkit subcommands.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gridstack-labs/glmkit/internal/cli/config"
	"github.com/gridstack-labs/glmkit/internal/store"
	"github.com/gridstack-labs/glmkit/pkg/glm"
)

// clockTimeFormat is the datetime layout accepted by --start/--stop flags
// and the run.starttime/run.stoptime config keys.
const clockTimeFormat = "2006-01-02 15:04:05"

// loadManager reads the model at path and builds a manager over it, with
// the command's logger attached.
func loadManager(cmd *cobra.Command, path string) (*glm.Manager, error) {
	text, err := store.NewFileStore().Read(path)
	if err != nil {
		return nil, err
	}
	m, err := glm.NewManagerWithConfig(text, glm.Config{
		Logger: config.GetLogger(cmd.Context()),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return m, nil
}

// writeModel serializes the model and writes it to outPath, or to stdout
// when outPath is empty. Serialization warnings go to stderr either way.
func writeModel(cmd *cobra.Command, m *glm.Manager, outPath string) error {
	text, warnings := m.Render()
	for _, w := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w.Message)
	}
	if outPath == "" {
		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	}
	if err := store.NewFileStore().Write(outPath, text); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", outPath)
	return nil
}

// useTable reports whether list output should render as a styled table.
// Auto mode picks tables on a terminal and plain lines everywhere else.
func useTable() bool {
	switch config.GetCurrentConfig().OutputFormat {
	case "table":
		return true
	case "plain":
		return false
	default:
		return term.IsTerminal(int(os.Stdout.Fd()))
	}
}
