package lazy

// VariableDescriptor declares a singular, externally-settable leaf
// attribute. Every variable carries a default factory; the slot is
// populated from it on first touch.
type VariableDescriptor[T any] struct {
	*descriptor
}

// Variable declares a singular variable attribute.
func Variable[T any](name string, defaultFn func() T, opts ...DescriptorOption) *VariableDescriptor[T] {
	if defaultFn == nil {
		panic(&DeclarationError{Attr: name, Reason: "variables require a default factory"})
	}
	d := newDescriptor(name, true, false, nil)
	d.defaultFn = func() any { return defaultFn() }
	d.decompose = func(data any) []any { return []any{data} }
	d.compose = func(elements []any) any { return elements[0] }
	for _, opt := range opts {
		opt(d)
	}
	d.finish()
	return &VariableDescriptor[T]{d}
}

// Get reads the variable's current value, defaulting on first touch.
func (v *VariableDescriptor[T]) Get(o *Object) (T, error) {
	elements, err := v.getElements(o)
	if err != nil {
		var zero T
		return zero, err
	}
	return v.compose(elementValues(elements)).(T), nil
}

// Set overwrites the variable and synchronously expires every property
// slot that transitively read it. Writing an unchanged registered value
// is a no-op.
func (v *VariableDescriptor[T]) Set(o *Object, value T) error {
	return v.setElements(o, value)
}

// Delete is not supported on any attribute.
func (v *VariableDescriptor[T]) Delete(o *Object) error {
	return &UnsupportedOperationError{Schema: v.schemaName(), Attr: v.name, Op: "delete"}
}

// VariableSliceDescriptor declares a plural variable attribute: a
// one-to-many leaf whose elements can branch parameter chains.
type VariableSliceDescriptor[T any] struct {
	*descriptor
}

// VariableSlice declares a plural variable attribute.
func VariableSlice[T any](name string, defaultFn func() []T, opts ...DescriptorOption) *VariableSliceDescriptor[T] {
	if defaultFn == nil {
		panic(&DeclarationError{Attr: name, Reason: "variables require a default factory"})
	}
	d := newDescriptor(name, true, true, nil)
	d.defaultFn = func() any { return defaultFn() }
	d.decompose = decomposeSlice[T]
	d.compose = composeSlice[T]
	for _, opt := range opts {
		opt(d)
	}
	d.finish()
	return &VariableSliceDescriptor[T]{d}
}

// Get reads the variable's current elements.
func (v *VariableSliceDescriptor[T]) Get(o *Object) ([]T, error) {
	elements, err := v.getElements(o)
	if err != nil {
		return nil, err
	}
	return v.compose(elementValues(elements)).([]T), nil
}

// Set overwrites the elements, expiring dependent property slots.
func (v *VariableSliceDescriptor[T]) Set(o *Object, values []T) error {
	return v.setElements(o, values)
}

// Delete is not supported on any attribute.
func (v *VariableSliceDescriptor[T]) Delete(o *Object) error {
	return &UnsupportedOperationError{Schema: v.schemaName(), Attr: v.name, Op: "delete"}
}

func decomposeSlice[T any](data any) []any {
	vs := data.([]T)
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}

func composeSlice[T any](elements []any) any {
	vs := make([]T, len(elements))
	for i, e := range elements {
		vs[i] = e.(T)
	}
	return vs
}

func elementValues(elements []*Registered[any]) []any {
	out := make([]any, len(elements))
	for i, e := range elements {
		out[i] = e.value
	}
	return out
}
