package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gridstack-labs/glmkit/pkg/glm"
)

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <model.glm>",
		Short: "Summarize a model file",
		Long: `Parse a model file and print a summary: statement counts by kind,
the clock settings, and the declared modules.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args[0])
		},
	}
}

func runInspect(cmd *cobra.Command, path string) error {
	m, err := loadManager(cmd, path)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "%s: %d statements\n\n", path, m.Len())

	counts := map[string]int{}
	objectTypes := map[string]int{}
	var modules []string
	for _, key := range m.Keys() {
		it, _ := m.Item(key)
		counts[it.Kind().String()]++
		switch v := it.(type) {
		case *glm.Object:
			objectTypes[v.Type]++
		case *glm.Module:
			modules = append(modules, v.Name)
		case *glm.Directive:
			if v.Keyword == "module" {
				modules = append(modules, v.Argument)
			}
		}
	}

	fmt.Fprintln(out, "Statements:")
	for _, kind := range sortedKeys(counts) {
		fmt.Fprintf(out, "  %-10s %d\n", kind, counts[kind])
	}

	if clock, _, ok := m.Clock(); ok {
		fmt.Fprintln(out, "\nClock:")
		for _, field := range []string{"timezone", "starttime", "stoptime"} {
			if v, ok := clock.Fields.Get(field); ok {
				fmt.Fprintf(out, "  %-10s %s\n", field, v)
			}
		}
	} else {
		fmt.Fprintln(out, "\nClock: none")
	}

	sort.Strings(modules)
	if len(modules) > 0 {
		fmt.Fprintf(out, "\nModules: %s\n", strings.Join(modules, ", "))
	} else {
		fmt.Fprintln(out, "\nModules: none")
	}

	if len(objectTypes) > 0 {
		fmt.Fprintln(out, "\nObjects by type:")
		for _, objectType := range sortedKeys(objectTypes) {
			fmt.Fprintf(out, "  %-20s %d\n", objectType, objectTypes[objectType])
		}
	}

	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
