package lazy

// PropertyDescriptor declares a singular derived, read-only attribute
// computed from other attributes. Dependencies are stated as explicit
// parameter chains; the user function receives one argument per chain,
// shaped as a tuple-tree when the chain branches through plural steps.
type PropertyDescriptor[T any] struct {
	*descriptor
}

// Property declares a singular property attribute.
func Property[T any](name string, params []Chain, fn func(args []any) (T, error), opts ...DescriptorOption) *PropertyDescriptor[T] {
	if fn == nil {
		panic(&DeclarationError{Attr: name, Reason: "properties require a compute function"})
	}
	d := newDescriptor(name, false, false, params)
	d.method = func(args []any) (any, error) { return fn(args) }
	d.decompose = func(data any) []any { return []any{data} }
	d.compose = func(elements []any) any { return elements[0] }
	for _, opt := range opts {
		opt(d)
	}
	d.finish()
	return &PropertyDescriptor[T]{d}
}

// Get reads the property, computing it if the instance's slot is empty.
func (p *PropertyDescriptor[T]) Get(o *Object) (T, error) {
	elements, err := p.getElements(o)
	if err != nil {
		var zero T
		return zero, err
	}
	return p.compose(elementValues(elements)).(T), nil
}

// Set always fails: properties are read-only.
func (p *PropertyDescriptor[T]) Set(o *Object, value T) error {
	return p.setElements(o, value)
}

// Delete is not supported on any attribute.
func (p *PropertyDescriptor[T]) Delete(o *Object) error {
	return &UnsupportedOperationError{Schema: p.schemaName(), Attr: p.name, Op: "delete"}
}

// PropertySliceDescriptor declares a plural property attribute.
type PropertySliceDescriptor[T any] struct {
	*descriptor
}

// PropertySlice declares a plural property attribute.
func PropertySlice[T any](name string, params []Chain, fn func(args []any) ([]T, error), opts ...DescriptorOption) *PropertySliceDescriptor[T] {
	if fn == nil {
		panic(&DeclarationError{Attr: name, Reason: "properties require a compute function"})
	}
	d := newDescriptor(name, false, true, params)
	d.method = func(args []any) (any, error) { return fn(args) }
	d.decompose = decomposeSlice[T]
	d.compose = composeSlice[T]
	for _, opt := range opts {
		opt(d)
	}
	d.finish()
	return &PropertySliceDescriptor[T]{d}
}

// Get reads the property's elements, computing them if needed.
func (p *PropertySliceDescriptor[T]) Get(o *Object) ([]T, error) {
	elements, err := p.getElements(o)
	if err != nil {
		return nil, err
	}
	return p.compose(elementValues(elements)).([]T), nil
}

// Set always fails: properties are read-only.
func (p *PropertySliceDescriptor[T]) Set(o *Object, values []T) error {
	return p.setElements(o, values)
}

// Delete is not supported on any attribute.
func (p *PropertySliceDescriptor[T]) Delete(o *Object) error {
	return &UnsupportedOperationError{Schema: p.schemaName(), Attr: p.name, Op: "delete"}
}

// Scalar reads a singular chain argument as T.
func Scalar[T any](arg any) T {
	return arg.(T)
}

// SliceOf reads a once-branched chain argument as []T.
func SliceOf[T any](arg any) []T {
	items := arg.([]any)
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = item.(T)
	}
	return out
}
