package glm

// ItemKind identifies the variant of a parsed GLM statement.
type ItemKind int

const (
	KindDirective ItemKind = iota
	KindClock
	KindModule
	KindObject
	KindSchedule
	KindEmbeddedConfig
	KindClassDef
)

// String returns a human-readable kind name.
func (k ItemKind) String() string {
	switch k {
	case KindDirective:
		return "directive"
	case KindClock:
		return "clock"
	case KindModule:
		return "module"
	case KindObject:
		return "object"
	case KindSchedule:
		return "schedule"
	case KindEmbeddedConfig:
		return "embedded config"
	case KindClassDef:
		return "class"
	}
	return "unknown"
}

// Item is one parsed GLM statement. Concrete variants are pointer types;
// the model tree and the model index share the same pointers, so a field
// change made through either view is visible through both.
type Item interface {
	Kind() ItemKind
}

// Directive is a preprocessor-style statement: #include, #set, #define,
// or a one-line declaration such as "module mysql;". Keyword holds the
// leading token and Argument the remainder. Bare directives came without
// a terminating semicolon and render without one.
type Directive struct {
	Keyword  string
	Argument string
	Bare     bool
}

// Kind implements Item.
func (d *Directive) Kind() ItemKind { return KindDirective }

// Clock is the simulation clock. Only timezone, starttime, and stoptime
// are meaningful; serialization emits exactly those three in fixed order.
type Clock struct {
	Fields *Fields
}

// NewClock returns an empty clock.
func NewClock() *Clock {
	return &Clock{Fields: NewFields()}
}

// Kind implements Item.
func (c *Clock) Kind() ItemKind { return KindClock }

// Module is a block-form module declaration with optional settings.
type Module struct {
	Name   string
	Fields *Fields
}

// NewModule returns a module with the given name and no settings.
func NewModule(name string) *Module {
	return &Module{Name: name, Fields: NewFields()}
}

// Kind implements Item.
func (m *Module) Kind() ItemKind { return KindModule }

// Object is a device or other simulator object. Fields may include "name";
// unnamed objects are legal. Children holds the tree keys of objects nested
// inside this one, in source order; each child is also an independent tree
// entry under its own key.
type Object struct {
	Type     string
	Fields   *Fields
	Children []int
}

// NewObject returns an object of the given type with no fields.
func NewObject(objectType string) *Object {
	return &Object{Type: objectType, Fields: NewFields()}
}

// Name returns the object's name field, or "" for unnamed objects.
func (o *Object) Name() string {
	name, _ := o.Fields.Get("name")
	return name
}

// Kind implements Item.
func (o *Object) Kind() ItemKind { return KindObject }

// Schedule is a named cron-style schedule block. The body is kept as an
// opaque blob; its interior syntax is the simulator's business.
type Schedule struct {
	Name string
	Body string
}

// Kind implements Item.
func (s *Schedule) Kind() ItemKind { return KindSchedule }

// EmbeddedConfig is a configuration block whose header doesn't match any
// recognized statement form (legacy embedded configuration objects).
// The full header text is preserved verbatim.
type EmbeddedConfig struct {
	Header string
	Fields *Fields
}

// Kind implements Item.
func (e *EmbeddedConfig) Kind() ItemKind { return KindEmbeddedConfig }

// ClassDef is a runtime class declaration. When VariableTypes and
// VariableNames are parallel arrays of equal length they render as paired
// declarations; otherwise Fields is rendered generically.
type ClassDef struct {
	Name          string
	VariableTypes []string
	VariableNames []string
	Fields        *Fields
}

// Kind implements Item.
func (c *ClassDef) Kind() ItemKind { return KindClassDef }

// itemFields returns the mutable field map of an item, or nil for items
// without one (directives, schedules).
func itemFields(it Item) *Fields {
	switch v := it.(type) {
	case *Clock:
		return v.Fields
	case *Module:
		return v.Fields
	case *Object:
		return v.Fields
	case *EmbeddedConfig:
		return v.Fields
	case *ClassDef:
		return v.Fields
	}
	return nil
}
