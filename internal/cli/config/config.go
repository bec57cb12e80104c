// Package config provides configuration management for the glmkit CLI.
//
// Settings come from a glmkit.yaml file, GLMKIT_ environment variables, and
// CLI flags, in ascending precedence.
package config

// RunConfig holds the defaults applied by the prepare-run command. Datetime
// values use the simulator's clock format, "2006-01-02 15:04:05".
type RunConfig struct {
	Starttime       string  `koanf:"starttime"`
	Stoptime        string  `koanf:"stoptime"`
	Timezone        string  `koanf:"timezone"`
	VSource         float64 `koanf:"v_source"`
	Profiler        int     `koanf:"profiler"`
	MinimumTimestep int     `koanf:"minimum_timestep"`
}

// Config holds all CLI configuration options.
type Config struct {
	Verbose      bool      `koanf:"verbose"`
	OutputFormat string    `koanf:"output"`
	Run          RunConfig `koanf:"run"`
}

// Default configuration values.
const (
	DefaultOutput = "auto" // Auto-detect: TTY=table, non-TTY=plain

	DefaultVSource         = 66395.28
	DefaultProfiler        = 0
	DefaultMinimumTimestep = 60
)
