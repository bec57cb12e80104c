package config

import "fmt"

// validOutputs are the accepted values for the output setting.
var validOutputs = map[string]bool{
	"auto":  true,
	"table": true,
	"plain": true,
}

func validate(cfg *Config) error {
	if !validOutputs[cfg.OutputFormat] {
		return fmt.Errorf("invalid output format %q (want auto, table, or plain)", cfg.OutputFormat)
	}
	if cfg.Run.Profiler != 0 && cfg.Run.Profiler != 1 {
		return fmt.Errorf("invalid run.profiler %d (want 0 or 1)", cfg.Run.Profiler)
	}
	if cfg.Run.MinimumTimestep <= 0 {
		return fmt.Errorf("invalid run.minimum_timestep %d (want a positive number of seconds)", cfg.Run.MinimumTimestep)
	}
	return nil
}
