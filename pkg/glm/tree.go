package glm

import "sort"

// Tree is the ordered, keyed collection of items representing a full model.
// Keys may be negative; ascending numeric order is the canonical on-disk
// order, which some simulators depend on. Nested objects live in the tree
// under their own keys and are referenced from their parent's Children list.
type Tree struct {
	items map[int]Item
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{items: make(map[int]Item)}
}

// Get returns the item at key and whether it exists.
func (t *Tree) Get(key int) (Item, bool) {
	it, ok := t.items[key]
	return it, ok
}

// Set stores an item at key, replacing any existing entry.
func (t *Tree) Set(key int, it Item) {
	t.items[key] = it
}

// Delete removes the entry at key.
func (t *Tree) Delete(key int) {
	delete(t.items, key)
}

// Len returns the number of entries, nested objects included.
func (t *Tree) Len() int {
	return len(t.items)
}

// Keys returns all keys in ascending order.
func (t *Tree) Keys() []int {
	keys := make([]int, 0, len(t.items))
	for k := range t.items {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Bounds returns the minimum and maximum key. ok is false for an empty tree.
func (t *Tree) Bounds() (lo, hi int, ok bool) {
	for k := range t.items {
		if !ok {
			lo, hi, ok = k, k, true
			continue
		}
		if k < lo {
			lo = k
		}
		if k > hi {
			hi = k
		}
	}
	return lo, hi, ok
}

// childKeys returns the set of keys that are referenced as children of some
// object. These render inside their parent, so top-level iteration skips them.
func (t *Tree) childKeys() map[int]bool {
	nested := make(map[int]bool)
	for _, it := range t.items {
		if obj, ok := it.(*Object); ok {
			for _, k := range obj.Children {
				nested[k] = true
			}
		}
	}
	return nested
}

// TopLevelKeys returns ascending keys excluding entries nested inside objects.
func (t *Tree) TopLevelKeys() []int {
	nested := t.childKeys()
	keys := make([]int, 0, len(t.items))
	for k := range t.items {
		if !nested[k] {
			keys = append(keys, k)
		}
	}
	sort.Ints(keys)
	return keys
}
