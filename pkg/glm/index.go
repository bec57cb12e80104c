package glm

import "fmt"

// indexEntry pairs a tree key with the item stored there. The item pointer
// aliases the tree entry; the index never copies field data.
type indexEntry struct {
	key  int
	item Item
}

// modelIndex is the derived lookup structure over a tree. It is never the
// source of truth: every entry aliases the corresponding tree entry, so
// in-place field edits are visible through both views.
type modelIndex struct {
	clock   *indexEntry
	modules map[string]indexEntry
	objects map[string]map[string]indexEntry
	unnamed []indexEntry
}

func newModelIndex() *modelIndex {
	return &modelIndex{
		modules: make(map[string]indexEntry),
		objects: make(map[string]map[string]indexEntry),
	}
}

// buildIndex classifies every tree entry, recursing through object
// children so nested objects index exactly like top-level ones.
func buildIndex(t *Tree) (*modelIndex, error) {
	idx := newModelIndex()
	for _, key := range t.TopLevelKeys() {
		it, _ := t.Get(key)
		if err := idx.addRecursive(t, key, it); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

func (idx *modelIndex) addRecursive(t *Tree, key int, it Item) error {
	if err := idx.add(key, it); err != nil {
		return err
	}
	if obj, ok := it.(*Object); ok {
		for _, childKey := range obj.Children {
			child, ok := t.Get(childKey)
			if !ok {
				continue
			}
			if err := idx.addRecursive(t, childKey, child); err != nil {
				return err
			}
		}
	}
	return nil
}

// add classifies a single item. Schedules, embedded configs, and class
// definitions are recognized but carry no lookup semantics, so they are
// skipped rather than rejected.
func (idx *modelIndex) add(key int, it Item) error {
	switch v := it.(type) {
	case *Clock:
		return idx.addClock(key, v)
	case *Module:
		return idx.addModule(v.Name, key, v)
	case *Object:
		return idx.addObject(key, v)
	case *Directive:
		// One-line "module powerflow;" declarations count as modules.
		if v.Keyword == "module" {
			return idx.addModule(v.Argument, key, v)
		}
		return nil
	case *Schedule, *EmbeddedConfig, *ClassDef:
		return nil
	case nil:
		return fmt.Errorf("%w: nil item at key %d", ErrUnsupportedItem, key)
	default:
		return fmt.Errorf("%w: %T at key %d", ErrUnsupportedItem, it, key)
	}
}

func (idx *modelIndex) addClock(key int, c *Clock) error {
	if idx.clock != nil {
		return fmt.Errorf("%w: multiple clocks defined", ErrDuplicate)
	}
	idx.clock = &indexEntry{key: key, item: c}
	return nil
}

func (idx *modelIndex) addModule(name string, key int, it Item) error {
	if _, exists := idx.modules[name]; exists {
		return fmt.Errorf("%w: module %q is already present", ErrDuplicate, name)
	}
	idx.modules[name] = indexEntry{key: key, item: it}
	return nil
}

func (idx *modelIndex) addObject(key int, obj *Object) error {
	// The type bucket exists as soon as any object of the type is seen,
	// named or not, so type-presence checks cover unnamed-only types.
	byName := idx.objects[obj.Type]
	if byName == nil {
		byName = make(map[string]indexEntry)
		idx.objects[obj.Type] = byName
	}
	name := obj.Name()
	if name == "" {
		idx.unnamed = append(idx.unnamed, indexEntry{key: key, item: obj})
		return nil
	}
	if _, exists := byName[name]; exists {
		return fmt.Errorf("%w: object %s %q already exists", ErrDuplicate, obj.Type, name)
	}
	byName[name] = indexEntry{key: key, item: obj}
	return nil
}

// findObject returns the indexed entry for (type, name), if any.
func (idx *modelIndex) findObject(objectType, objectName string) (indexEntry, bool) {
	byName, ok := idx.objects[objectType]
	if !ok {
		return indexEntry{}, false
	}
	entry, ok := byName[objectName]
	return entry, ok
}

// removeObject drops a named object from the index. The type bucket stays
// even when emptied; presence checks treat a seen type as present.
func (idx *modelIndex) removeObject(objectType, objectName string) {
	if byName, ok := idx.objects[objectType]; ok {
		delete(byName, objectName)
	}
}

func (idx *modelIndex) removeModule(name string) {
	delete(idx.modules, name)
}

func (idx *modelIndex) removeClock() {
	idx.clock = nil
}
