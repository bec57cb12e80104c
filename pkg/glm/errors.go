package glm

import "errors"

// Error taxonomy for model operations. Callers match with errors.Is;
// messages wrapped around these add the offending entity.
var (
	// ErrInvalidType means an argument's shape does not match the
	// operation's contract (unknown item variant, nil item).
	ErrInvalidType = errors.New("invalid item type")

	// ErrInvalidValue means the argument type is fine but the value or
	// combination is unacceptable (all clock fields absent, profiler
	// outside {0,1}).
	ErrInvalidValue = errors.New("invalid value")

	// ErrNotFound means a referenced object, module, clock, or field does
	// not exist in the model.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate means an operation would violate a uniqueness rule:
	// one clock, unique module names, unique (type, name) object pairs.
	ErrDuplicate = errors.New("duplicate")

	// ErrUnsupportedItem means an item did not match any recognized
	// variant during index classification.
	ErrUnsupportedItem = errors.New("unsupported item")
)
