package commands

import (
	"github.com/spf13/cobra"
)

// NewFmtCommand creates the fmt command.
func NewFmtCommand() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "fmt <model.glm>",
		Short: "Reformat a model file",
		Long: `Parse a model file and write it back out in canonical form: statements
in model order, one field per line, legacy syntax normalized. Truncation
warnings print to stderr.`,
		Example: `  # Print the canonical form to stdout
  glmkit fmt feeder.glm

  # Rewrite in place
  glmkit fmt feeder.glm --out feeder.glm`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadManager(cmd, args[0])
			if err != nil {
				return err
			}
			return writeModel(cmd, m, outPath)
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "Write to this file instead of stdout")
	return cmd
}
