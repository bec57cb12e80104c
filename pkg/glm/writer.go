package glm

import (
	"fmt"
	"strings"
)

// maxNameLength is the longest name/parent value the simulator accepts.
// Longer values are truncated at serialization time with a warning.
const maxNameLength = 62

// Warning is a non-fatal diagnostic raised during serialization. The
// operation still succeeds; warnings travel on this side channel so the
// error return stays reserved for real failures.
type Warning struct {
	Key      int    // tree key of the item, when known
	Field    string // offending field, if any
	Original string // pre-truncation value, if any
	Message  string
}

func (w Warning) String() string {
	return w.Message
}

// Render serializes a tree to GLM text. Statements emit in strictly
// ascending key order; entries nested inside objects render within their
// parent and are skipped at the top level.
func Render(t *Tree) (string, []Warning) {
	w := &treeWriter{tree: t}
	for _, key := range t.TopLevelKeys() {
		it, _ := t.Get(key)
		w.sb.WriteString(w.renderItem(key, it))
		w.sb.WriteString("\n")
	}
	return w.sb.String(), w.warnings
}

type treeWriter struct {
	tree     *Tree
	sb       strings.Builder
	warnings []Warning
}

func (w *treeWriter) renderItem(key int, it Item) string {
	switch v := it.(type) {
	case *Directive:
		if v.Bare {
			return v.Keyword + " " + v.Argument
		}
		return v.Keyword + " " + v.Argument + ";"

	case *Module:
		return "module " + v.Name + " {\n" + w.renderFields(key, v.Fields) + "}\n"

	case *Clock:
		// The simulator is picky about clock property order, so the three
		// known fields are written explicitly and anything else is dropped.
		var sb strings.Builder
		sb.WriteString("clock {\n")
		for _, field := range []string{"timezone", "starttime", "stoptime"} {
			if val, ok := v.Fields.Get(field); ok {
				sb.WriteString("\t" + field + " " + val + ";\n")
			}
		}
		sb.WriteString("}\n")
		return sb.String()

	case *Schedule:
		return "schedule " + v.Name + " {\n" + v.Body + "\n};\n"

	case *Object:
		return "object " + v.Type + " {\n" + w.renderChildren(v) + w.renderFields(key, v.Fields) + "};\n"

	case *EmbeddedConfig:
		return v.Header + " {\n" + w.renderFields(key, v.Fields) + "};\n"

	case *ClassDef:
		return w.renderClass(key, v)
	}
	return ""
}

// renderChildren renders an object's nested objects, in key order as
// recorded in the Children list. Children render before the parent's own
// scalar fields.
func (w *treeWriter) renderChildren(obj *Object) string {
	var sb strings.Builder
	for _, childKey := range obj.Children {
		child, ok := w.tree.Get(childKey)
		if !ok {
			continue
		}
		sb.WriteString(w.renderItem(childKey, child))
	}
	return sb.String()
}

func (w *treeWriter) renderClass(key int, c *ClassDef) string {
	var sb strings.Builder
	sb.WriteString("class " + c.Name + " {\n")
	if len(c.VariableTypes) > 0 && len(c.VariableTypes) == len(c.VariableNames) {
		for i := range c.VariableTypes {
			sb.WriteString("\t" + c.VariableTypes[i] + " " + c.VariableNames[i] + ";\n")
		}
	} else {
		sb.WriteString(w.renderFields(key, c.Fields))
	}
	sb.WriteString("}\n")
	return sb.String()
}

// renderFields emits field assignments in insertion order. A "comment"
// field is passed through verbatim with no key echoed. Over-long name and
// parent values are truncated with an inline note and a warning.
func (w *treeWriter) renderFields(key int, fields *Fields) string {
	var sb strings.Builder
	for _, k := range fields.Keys() {
		v, _ := fields.Get(k)
		switch {
		case k == "comment":
			sb.WriteString(v + "\n")
		case (k == "name" || k == "parent") && len(v) > maxNameLength:
			sb.WriteString("\t" + k + " " + v[:maxNameLength] + "; // truncated from " + v + "\n")
			w.warnings = append(w.warnings, Warning{
				Key:      key,
				Field:    k,
				Original: v,
				Message:  fmt.Sprintf("%s %q exceeds %d characters, truncated", k, v, maxNameLength),
			})
		default:
			sb.WriteString("\t" + k + " " + v + ";\n")
		}
	}
	return sb.String()
}
