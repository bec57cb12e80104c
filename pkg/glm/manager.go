package glm

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
)

// Config holds optional Manager dependencies.
type Config struct {
	// Logger receives mutation traces and serialization warnings.
	// Defaults to a discard logger.
	Logger *slog.Logger
}

// Manager owns a parsed model: the ordered tree of record and the derived
// lookup index, kept consistent through every operation. A Manager is not
// safe for concurrent mutation; single-writer use is assumed.
type Manager struct {
	tree  *Tree
	index *modelIndex

	// appendKey places new top-level objects after all existing entries;
	// prependKey places new preamble items (clock, modules, directives)
	// before them. Both advance monotonically.
	appendKey  int
	prependKey int

	logger *slog.Logger
}

// NewManager parses model text and builds a manager over it.
func NewManager(model string) (*Manager, error) {
	return NewManagerWithConfig(model, Config{})
}

// NewManagerWithConfig is NewManager with explicit dependencies.
func NewManagerWithConfig(model string, cfg Config) (*Manager, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	tree := Parse(model)
	index, err := buildIndex(tree)
	if err != nil {
		return nil, fmt.Errorf("indexing model: %w", err)
	}

	m := &Manager{
		tree:       tree,
		index:      index,
		appendKey:  0,
		prependKey: -1,
		logger:     logger,
	}
	if lo, hi, ok := tree.Bounds(); ok {
		m.appendKey = hi + 1
		m.prependKey = lo - 1
	}
	return m, nil
}

// Item returns the tree entry at key.
func (m *Manager) Item(key int) (Item, bool) {
	return m.tree.Get(key)
}

// Len returns the number of tree entries, nested objects included.
func (m *Manager) Len() int {
	return m.tree.Len()
}

// Keys returns every tree key in ascending order, nested objects included.
func (m *Manager) Keys() []int {
	return m.tree.Keys()
}

// AppendKey returns the key the next top-level object will receive.
func (m *Manager) AppendKey() int { return m.appendKey }

// PrependKey returns the key the next preamble item will receive.
func (m *Manager) PrependKey() int { return m.prependKey }

// Render serializes the model to GLM text, returning truncation warnings
// on the side channel. Warnings are also logged.
func (m *Manager) Render() (string, []Warning) {
	text, warnings := Render(m.tree)
	for _, w := range warnings {
		m.logger.Warn("serialization warning", "key", w.Key, "field", w.Field, "message", w.Message)
	}
	return text, warnings
}

// AddItem adds and indexes a new item. Objects append at the end of the
// model; clocks, modules, and directives prepend ahead of it. Uniqueness
// violations fail with ErrDuplicate before anything is modified.
func (m *Manager) AddItem(it Item) error {
	switch v := it.(type) {
	case *Object:
		if v.Fields == nil {
			v.Fields = NewFields()
		}
		if err := m.index.addObject(m.appendKey, v); err != nil {
			return err
		}
		m.tree.Set(m.appendKey, v)
		m.appendKey++
		m.logger.Debug("added object", "type", v.Type, "name", v.Name(), "key", m.appendKey-1)
		return nil

	case *Clock:
		if v.Fields == nil {
			v.Fields = NewFields()
		}
		if err := m.index.addClock(m.prependKey, v); err != nil {
			return err
		}
		m.prependItem(v)
		return nil

	case *Module:
		if v.Fields == nil {
			v.Fields = NewFields()
		}
		if err := m.index.addModule(v.Name, m.prependKey, v); err != nil {
			return err
		}
		m.prependItem(v)
		return nil

	case *Directive:
		if v.Keyword == "module" {
			if err := m.index.addModule(v.Argument, m.prependKey, v); err != nil {
				return err
			}
		}
		m.prependItem(v)
		return nil

	case nil:
		return fmt.Errorf("%w: nil item", ErrInvalidType)

	default:
		return fmt.Errorf("%w: cannot add %s items", ErrInvalidType, it.Kind())
	}
}

// prependItem stores an item at prependKey and advances the counter.
// Index registration, where applicable, happens before this call.
func (m *Manager) prependItem(it Item) {
	m.tree.Set(m.prependKey, it)
	m.logger.Debug("prepended item", "kind", it.Kind().String(), "key", m.prependKey)
	m.prependKey--
}

// ModifyItem overwrites fields of an existing item with the fields present
// on the given one. Identity fields (object type and name, module name)
// select the target and cannot be changed through this path.
func (m *Manager) ModifyItem(it Item) error {
	switch v := it.(type) {
	case *Object:
		name := v.Name()
		if name == "" {
			return fmt.Errorf("%w: object name is required to modify an object", ErrInvalidValue)
		}
		entry, ok := m.index.findObject(v.Type, name)
		if !ok {
			return fmt.Errorf("%w: object %s %q", ErrNotFound, v.Type, name)
		}
		target := entry.item.(*Object)
		for _, k := range v.Fields.Keys() {
			if k == "name" {
				continue
			}
			val, _ := v.Fields.Get(k)
			target.Fields.Set(k, val)
		}
		return nil

	case *Clock:
		entry := m.index.clock
		if entry == nil {
			return fmt.Errorf("%w: clock", ErrNotFound)
		}
		target := entry.item.(*Clock)
		for _, k := range v.Fields.Keys() {
			val, _ := v.Fields.Get(k)
			target.Fields.Set(k, val)
		}
		return nil

	case *Module:
		target, err := m.materializeModule(v.Name)
		if err != nil {
			return err
		}
		for _, k := range v.Fields.Keys() {
			val, _ := v.Fields.Get(k)
			target.Fields.Set(k, val)
		}
		return nil

	case nil:
		return fmt.Errorf("%w: nil item", ErrInvalidType)

	default:
		return fmt.Errorf("%w: cannot modify %s items", ErrInvalidType, it.Kind())
	}
}

// materializeModule looks up a module by name, upgrading a one-line
// "module x;" directive to a block module in place so it can hold settings.
// Tree and index are updated together; the key is unchanged.
func (m *Manager) materializeModule(name string) (*Module, error) {
	entry, ok := m.index.modules[name]
	if !ok {
		return nil, fmt.Errorf("%w: module %q", ErrNotFound, name)
	}
	switch existing := entry.item.(type) {
	case *Module:
		return existing, nil
	case *Directive:
		mod := NewModule(name)
		m.tree.Set(entry.key, mod)
		m.index.modules[name] = indexEntry{key: entry.key, item: mod}
		return mod, nil
	default:
		return nil, fmt.Errorf("%w: module %q has unexpected shape %T", ErrInvalidType, name, entry.item)
	}
}

// RemovePropertiesFromItem removes the named fields from the identified
// item. All fields are checked before any is removed, so a missing field
// leaves the model untouched.
func (m *Manager) RemovePropertiesFromItem(it Item, fieldNames []string) error {
	fields, err := m.targetFields(it)
	if err != nil {
		return err
	}
	for _, name := range fieldNames {
		if !fields.Has(name) {
			return fmt.Errorf("%w: field %q", ErrNotFound, name)
		}
	}
	for _, name := range fieldNames {
		fields.Delete(name)
	}
	return nil
}

// targetFields resolves the field map of the item identified by it.
func (m *Manager) targetFields(it Item) (*Fields, error) {
	switch v := it.(type) {
	case *Object:
		name := v.Name()
		if name == "" {
			return nil, fmt.Errorf("%w: object name is required", ErrInvalidValue)
		}
		entry, ok := m.index.findObject(v.Type, name)
		if !ok {
			return nil, fmt.Errorf("%w: object %s %q", ErrNotFound, v.Type, name)
		}
		return entry.item.(*Object).Fields, nil
	case *Clock:
		if m.index.clock == nil {
			return nil, fmt.Errorf("%w: clock", ErrNotFound)
		}
		return m.index.clock.item.(*Clock).Fields, nil
	case *Module:
		mod, err := m.materializeModule(v.Name)
		if err != nil {
			return nil, err
		}
		return mod.Fields, nil
	case nil:
		return nil, fmt.Errorf("%w: nil item", ErrInvalidType)
	default:
		return nil, fmt.Errorf("%w: cannot address %s items", ErrInvalidType, it.Kind())
	}
}

// RemoveItem removes the identified item from both tree and index.
// Removing an object also removes its nested children. Unnamed objects
// cannot be removed through this path.
func (m *Manager) RemoveItem(it Item) error {
	switch v := it.(type) {
	case *Object:
		name := v.Name()
		if name == "" {
			return fmt.Errorf("%w: cannot remove unnamed objects", ErrNotFound)
		}
		entry, ok := m.index.findObject(v.Type, name)
		if !ok {
			return fmt.Errorf("%w: object %s %q", ErrNotFound, v.Type, name)
		}
		m.removeObjectEntry(entry.key, entry.item.(*Object))
		return nil

	case *Clock:
		entry := m.index.clock
		if entry == nil {
			return fmt.Errorf("%w: clock", ErrNotFound)
		}
		m.tree.Delete(entry.key)
		m.index.removeClock()
		return nil

	case *Module:
		entry, ok := m.index.modules[v.Name]
		if !ok {
			return fmt.Errorf("%w: module %q", ErrNotFound, v.Name)
		}
		m.tree.Delete(entry.key)
		m.index.removeModule(v.Name)
		return nil

	case nil:
		return fmt.Errorf("%w: nil item", ErrInvalidType)

	default:
		return fmt.Errorf("%w: cannot remove %s items", ErrInvalidType, it.Kind())
	}
}

// removeObjectEntry removes an object and, recursively, its children from
// tree and index.
func (m *Manager) removeObjectEntry(key int, obj *Object) {
	for _, childKey := range obj.Children {
		if child, ok := m.tree.Get(childKey); ok {
			if childObj, ok := child.(*Object); ok {
				m.removeObjectEntry(childKey, childObj)
				continue
			}
			m.tree.Delete(childKey)
		}
	}
	if name := obj.Name(); name != "" {
		m.index.removeObject(obj.Type, name)
	} else {
		for i, entry := range m.index.unnamed {
			if entry.key == key {
				m.index.unnamed = append(m.index.unnamed[:i], m.index.unnamed[i+1:]...)
				break
			}
		}
	}
	m.tree.Delete(key)
}

// ObjectsByType returns all named objects of the given type in ascending
// key order, or nil if the type is not indexed.
func (m *Manager) ObjectsByType(objectType string) []*Object {
	byName, ok := m.index.objects[objectType]
	if !ok || len(byName) == 0 {
		return nil
	}
	entries := make([]indexEntry, 0, len(byName))
	for _, entry := range byName {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	objects := make([]*Object, len(entries))
	for i, entry := range entries {
		objects[i] = entry.item.(*Object)
	}
	return objects
}

// FindObject returns the object with the given type and name, or nil if
// either is absent. Missing objects are not an error.
func (m *Manager) FindObject(objectType, objectName string) *Object {
	entry, ok := m.index.findObject(objectType, objectName)
	if !ok {
		return nil
	}
	return entry.item.(*Object)
}

// ObjectTypePresent reports whether any object of the type, named or
// unnamed, exists in the model.
func (m *Manager) ObjectTypePresent(objectType string) bool {
	_, ok := m.index.objects[objectType]
	return ok
}

// ModulePresent reports whether a module with the given name is declared,
// in either block or one-line form.
func (m *Manager) ModulePresent(name string) bool {
	_, ok := m.index.modules[name]
	return ok
}

// Clock returns the model's clock and its tree key, if one exists.
func (m *Manager) Clock() (*Clock, int, bool) {
	if m.index.clock == nil {
		return nil, 0, false
	}
	return m.index.clock.item.(*Clock), m.index.clock.key, true
}

// UnnamedObjects returns the unnamed objects in parse order.
func (m *Manager) UnnamedObjects() []*Object {
	objects := make([]*Object, len(m.index.unnamed))
	for i, entry := range m.index.unnamed {
		objects[i] = entry.item.(*Object)
	}
	return objects
}
