package glm

import "fmt"

// Fields is an insertion-ordered mapping of attribute names to opaque text
// values. GLM serialization is order-sensitive, so plain maps won't do:
// fields render in the order they were first set. Values set through Set
// are coerced to text; the model layer never interprets them.
type Fields struct {
	keys   []string
	values map[string]string
}

// NewFields returns an empty field map.
func NewFields() *Fields {
	return &Fields{values: make(map[string]string)}
}

// FieldsFrom builds a field map from key/value pairs, preserving pair order.
// Panics if given an odd number of arguments; it exists for literal-style
// construction in tests and item builders.
func FieldsFrom(pairs ...string) *Fields {
	if len(pairs)%2 != 0 {
		panic("glm: FieldsFrom requires an even number of arguments")
	}
	f := NewFields()
	for i := 0; i < len(pairs); i += 2 {
		f.Set(pairs[i], pairs[i+1])
	}
	return f
}

func (f *Fields) init() {
	if f.values == nil {
		f.values = make(map[string]string)
	}
}

// Set stores a field value, coercing non-string values to text.
// Existing keys keep their position; new keys append.
func (f *Fields) Set(key string, value any) {
	f.init()
	text, ok := value.(string)
	if !ok {
		text = fmt.Sprint(value)
	}
	if _, exists := f.values[key]; !exists {
		f.keys = append(f.keys, key)
	}
	f.values[key] = text
}

// Get returns the value for key and whether it is present.
func (f *Fields) Get(key string) (string, bool) {
	if f == nil || f.values == nil {
		return "", false
	}
	v, ok := f.values[key]
	return v, ok
}

// Has reports whether key is present.
func (f *Fields) Has(key string) bool {
	_, ok := f.Get(key)
	return ok
}

// Delete removes key, reporting whether it was present.
func (f *Fields) Delete(key string) bool {
	if f == nil || f.values == nil {
		return false
	}
	if _, ok := f.values[key]; !ok {
		return false
	}
	delete(f.values, key)
	for i, k := range f.keys {
		if k == key {
			f.keys = append(f.keys[:i], f.keys[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of fields.
func (f *Fields) Len() int {
	if f == nil {
		return 0
	}
	return len(f.keys)
}

// Keys returns the field names in insertion order.
func (f *Fields) Keys() []string {
	if f == nil {
		return nil
	}
	out := make([]string, len(f.keys))
	copy(out, f.keys)
	return out
}

// Map returns a plain map copy of the fields. Mutating the copy does not
// affect the model.
func (f *Fields) Map() map[string]string {
	out := make(map[string]string, f.Len())
	if f != nil {
		for k, v := range f.values {
			out[k] = v
		}
	}
	return out
}
