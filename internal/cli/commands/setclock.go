package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewSetClockCommand creates the set-clock command.
func NewSetClockCommand() *cobra.Command {
	var (
		startStr string
		stopStr  string
		timezone string
		outPath  string
	)

	cmd := &cobra.Command{
		Use:   "set-clock <model.glm>",
		Short: "Set or update the model clock",
		Long: `Update the model's clock, creating one when the model has none.
Omitted values keep their current setting; creating a clock requires
--start, --stop, and --timezone together.

Datetimes use the format "2006-01-02 15:04:05".`,
		Example: `  # Move the start time, keep everything else
  glmkit set-clock feeder.glm --start "2013-04-01 08:00:00" --out feeder.glm

  # Create a clock from scratch
  glmkit set-clock bare.glm --start "2013-04-01 08:00:00" \
    --stop "2013-04-01 09:00:00" --timezone PST8PDT --out bare.glm`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseClockTime(startStr, "--start")
			if err != nil {
				return err
			}
			stop, err := parseClockTime(stopStr, "--stop")
			if err != nil {
				return err
			}

			m, err := loadManager(cmd, args[0])
			if err != nil {
				return err
			}
			if err := m.AddOrModifyClock(start, stop, timezone); err != nil {
				return err
			}
			return writeModel(cmd, m, outPath)
		},
	}

	cmd.Flags().StringVar(&startStr, "start", "", "Simulation start time")
	cmd.Flags().StringVar(&stopStr, "stop", "", "Simulation stop time")
	cmd.Flags().StringVar(&timezone, "timezone", "", "Simulation timezone (e.g. EST5EDT)")
	cmd.Flags().StringVar(&outPath, "out", "", "Write to this file instead of stdout")
	return cmd
}

// parseClockTime parses a clock datetime flag, returning nil for an empty
// value so the caller can pass it straight through as "unchanged".
func parseClockTime(value, flagName string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(clockTimeFormat, value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q (want %q)", flagName, value, clockTimeFormat)
	}
	return &t, nil
}
