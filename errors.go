package lazy

import (
	"fmt"
	"runtime/debug"
)

// ReadOnlyAttributeError is returned when writing a property-backed
// attribute, or any attribute of a frozen object.
type ReadOnlyAttributeError struct {
	Schema string
	Attr   string
	Frozen bool
}

func (e *ReadOnlyAttributeError) Error() string {
	if e.Frozen {
		return fmt.Sprintf("attribute %s.%s is read-only: object is frozen", e.Schema, e.Attr)
	}
	return fmt.Sprintf("attribute %s.%s is read-only: properties cannot be written", e.Schema, e.Attr)
}

// UnsupportedOperationError is returned for operations the attribute
// surface does not support, such as deleting an attribute.
type UnsupportedOperationError struct {
	Schema string
	Attr   string
	Op     string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("operation %q is not supported on attribute %s.%s", e.Op, e.Schema, e.Attr)
}

// DeclarationError reports a contract violation in an attribute
// declaration: a property without parameters, an unresolvable parameter
// chain, a cyclic dependency, or a content hasher without freezing.
// Declaration errors are raised via panic at Seal time, before any
// instance exists.
type DeclarationError struct {
	Schema string
	Attr   string
	Reason string
}

func (e *DeclarationError) Error() string {
	return fmt.Sprintf("invalid declaration of %s.%s: %s", e.Schema, e.Attr, e.Reason)
}

// UnknownAttributeError is returned when a descriptor is used against
// an object whose schema does not declare it.
type UnknownAttributeError struct {
	Schema string
	Attr   string
}

func (e *UnknownAttributeError) Error() string {
	return fmt.Sprintf("attribute %q is not declared on schema %q", e.Attr, e.Schema)
}

// MissingValueError indicates a variable slot was read before being
// populated and no default factory exists. The constructors require a
// default factory on every variable, so seeing this error indicates a
// construction bug.
type MissingValueError struct {
	Schema string
	Attr   string
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("variable %s.%s has no value and no default factory", e.Schema, e.Attr)
}

// ComputeError wraps a failure returned by a property's user function.
type ComputeError struct {
	Schema     string
	Attr       string
	Cause      error
	StackTrace []byte
}

func (e *ComputeError) Error() string {
	return fmt.Sprintf("computing %s.%s: %v", e.Schema, e.Attr, e.Cause)
}

func (e *ComputeError) Unwrap() error {
	return e.Cause
}

func newComputeError(schema, attr string, cause error) *ComputeError {
	return &ComputeError{
		Schema:     schema,
		Attr:       attr,
		Cause:      cause,
		StackTrace: debug.Stack(),
	}
}
