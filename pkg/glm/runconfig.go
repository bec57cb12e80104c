package glm

import (
	"fmt"
	"strconv"
	"time"
)

// clockTimeLayout renders clock datetimes the way the simulator expects
// them, wrapped in single quotes at the call sites.
const clockTimeLayout = "2006-01-02 15:04:05"

// Run-component defaults, matching long-standing operational practice.
const (
	// defaultVSource is the nominal positive-sequence source voltage used
	// when no explicit value is given.
	defaultVSource = 66395.28

	defaultProfiler        = 0
	defaultMinimumTimestep = 60
)

// distributedGenerationTypes are the object types whose presence means the
// model carries distributed generation and needs the generators module.
var distributedGenerationTypes = []string{
	"solar",
	"inverter",
	"diesel_dg",
	"windturb_dg",
	"battery",
}

// quoteTime formats a datetime as a single-quoted clock literal.
func quoteTime(t time.Time) string {
	return "'" + t.Format(clockTimeLayout) + "'"
}

// AddOrModifyClock updates the model's clock, creating it when absent.
// Nil times and an empty timezone mean "leave unchanged"; passing nothing
// at all is ErrInvalidValue. Creating a clock requires all three values.
func (m *Manager) AddOrModifyClock(starttime, stoptime *time.Time, timezone string) error {
	if starttime == nil && stoptime == nil && timezone == "" {
		return fmt.Errorf("%w: at least one of starttime, stoptime, timezone is required", ErrInvalidValue)
	}

	clock, _, ok := m.Clock()
	if !ok {
		if starttime == nil || stoptime == nil || timezone == "" {
			return fmt.Errorf("%w: creating a clock requires starttime, stoptime, and timezone", ErrInvalidValue)
		}
		clock = NewClock()
		clock.Fields.Set("timezone", timezone)
		clock.Fields.Set("starttime", quoteTime(*starttime))
		clock.Fields.Set("stoptime", quoteTime(*stoptime))
		return m.AddItem(clock)
	}

	if timezone != "" {
		clock.Fields.Set("timezone", timezone)
	}
	if starttime != nil {
		clock.Fields.Set("starttime", quoteTime(*starttime))
	}
	if stoptime != nil {
		clock.Fields.Set("stoptime", quoteTime(*stoptime))
	}
	return nil
}

// RunComponents configures AddRunComponents. Nil pointers take the
// documented defaults.
type RunComponents struct {
	Starttime *time.Time
	Stoptime  *time.Time
	Timezone  string

	// VSource is the positive-sequence source voltage for the VSOURCE
	// define. Nil uses defaultVSource.
	VSource *float64

	// Profiler enables the simulator profiler; must be 0 or 1. Nil is 0.
	Profiler *int

	// MinimumTimestep is the simulation minimum timestep in seconds.
	// Nil is 60.
	MinimumTimestep *int
}

// AddRunComponents makes a model runnable: it delegates the clock values
// to AddOrModifyClock, prepends the minimum_timestep, profiler, and
// relax_naming_rules directives, a generators module when the model
// carries distributed generation, and the powerflow module in that
// rendered order, then defines the source voltage. Existing device
// objects are not touched.
func (m *Manager) AddRunComponents(rc RunComponents) error {
	profiler := defaultProfiler
	if rc.Profiler != nil {
		profiler = *rc.Profiler
	}
	if profiler != 0 && profiler != 1 {
		return fmt.Errorf("%w: profiler must be 0 or 1, got %d", ErrInvalidValue, profiler)
	}

	minimumTimestep := defaultMinimumTimestep
	if rc.MinimumTimestep != nil {
		minimumTimestep = *rc.MinimumTimestep
	}
	if minimumTimestep <= 0 {
		return fmt.Errorf("%w: minimum_timestep must be positive, got %d", ErrInvalidValue, minimumTimestep)
	}

	vSource := defaultVSource
	if rc.VSource != nil {
		vSource = *rc.VSource
	}

	if err := m.AddOrModifyClock(rc.Starttime, rc.Stoptime, rc.Timezone); err != nil {
		return fmt.Errorf("run components: %w", err)
	}

	// Prepends assign decreasing keys, so items go in reverse of the
	// order they should render in.
	if err := m.AddItem(&Directive{
		Keyword:  "#define",
		Argument: "VSOURCE=" + strconv.FormatFloat(vSource, 'f', -1, 64),
		Bare:     true,
	}); err != nil {
		return err
	}

	if err := m.ensurePowerflowModule(); err != nil {
		return err
	}

	if m.HasDistributedGeneration() && !m.ModulePresent("generators") {
		if err := m.AddItem(NewModule("generators")); err != nil {
			return err
		}
	}

	for _, directive := range []string{
		"relax_naming_rules=1",
		fmt.Sprintf("profiler=%d", profiler),
		fmt.Sprintf("minimum_timestep=%d", minimumTimestep),
	} {
		if err := m.AddItem(&Directive{Keyword: "#set", Argument: directive, Bare: true}); err != nil {
			return err
		}
	}

	return nil
}

// ensurePowerflowModule prepends a powerflow module configured for the
// Newton-Raphson solver with line capacitance, or updates the existing
// declaration to match.
func (m *Manager) ensurePowerflowModule() error {
	mod := NewModule("powerflow")
	mod.Fields.Set("solver_method", "NR")
	mod.Fields.Set("line_capacitance", "TRUE")

	if m.ModulePresent("powerflow") {
		return m.ModifyItem(mod)
	}
	return m.AddItem(mod)
}

// HasDistributedGeneration reports whether any distributed-generation
// object type is present in the model.
func (m *Manager) HasDistributedGeneration() bool {
	for _, t := range distributedGenerationTypes {
		if m.ObjectTypePresent(t) {
			return true
		}
	}
	return false
}
