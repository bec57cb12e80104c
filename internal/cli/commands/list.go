package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/gridstack-labs/glmkit/pkg/glm"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	var typeFilter string

	cmd := &cobra.Command{
		Use:   "list <model.glm>",
		Short: "List the objects in a model",
		Long: `List the objects in a model file with their key, type, name, and parent.

Output adapts to environment:
  - Terminal: styled table
  - Piped/Scripted: plain tab-separated lines

Use --output to override: auto, table, plain`,
		Example: `  # List all objects
  glmkit list feeder.glm

  # List only triplex_meter objects
  glmkit list feeder.glm --type triplex_meter

  # Force plain output
  glmkit list feeder.glm --output plain`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args[0], typeFilter)
		},
	}

	cmd.Flags().StringVar(&typeFilter, "type", "", "Only list objects of this type")
	return cmd
}

type objectRow struct {
	key    int
	object *glm.Object
}

func runList(cmd *cobra.Command, path, typeFilter string) error {
	m, err := loadManager(cmd, path)
	if err != nil {
		return err
	}

	var rows []objectRow
	for _, key := range m.Keys() {
		it, _ := m.Item(key)
		obj, ok := it.(*glm.Object)
		if !ok {
			continue
		}
		if typeFilter != "" && obj.Type != typeFilter {
			continue
		}
		rows = append(rows, objectRow{key: key, object: obj})
	}

	if len(rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "(no objects)")
		return nil
	}

	if useTable() {
		listTable(cmd.OutOrStdout(), rows)
	} else {
		listPlain(cmd.OutOrStdout(), rows)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "(%d objects)\n", len(rows))
	return nil
}

// listTable renders objects as a styled table.
func listTable(w io.Writer, rows []objectRow) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Key", "Type", "Name", "Parent"})
	for _, row := range rows {
		name, _ := row.object.Fields.Get("name")
		parent, _ := row.object.Fields.Get("parent")
		t.AppendRow(table.Row{row.key, row.object.Type, name, parent})
	}
	t.Render()
}

// listPlain renders objects as tab-separated lines, one per object.
func listPlain(w io.Writer, rows []objectRow) {
	for _, row := range rows {
		name, _ := row.object.Fields.Get("name")
		parent, _ := row.object.Fields.Get("parent")
		fields := []string{fmt.Sprintf("%d", row.key), row.object.Type, name, parent}
		fmt.Fprintln(w, strings.Join(fields, "\t"))
	}
}
