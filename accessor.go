package lazy

// Accessor binds a typed descriptor to one instance, bundling the
// read/write surface for callers that hold attribute handles long-term,
// such as an animation scheduler driving a variable over time.
type Accessor[T any] struct {
	variable *VariableDescriptor[T]
	property *PropertyDescriptor[T]
	obj      *Object
}

// AccessVariable creates an accessor for a variable attribute.
func AccessVariable[T any](d *VariableDescriptor[T], o *Object) *Accessor[T] {
	return &Accessor[T]{variable: d, obj: o}
}

// AccessProperty creates a read-only accessor for a property attribute.
func AccessProperty[T any](d *PropertyDescriptor[T], o *Object) *Accessor[T] {
	return &Accessor[T]{property: d, obj: o}
}

func (a *Accessor[T]) state() *descriptor {
	if a.variable != nil {
		return a.variable.descriptor
	}
	return a.property.descriptor
}

// Get retrieves the current value, computing or defaulting as needed.
func (a *Accessor[T]) Get() (T, error) {
	if a.variable != nil {
		return a.variable.Get(a.obj)
	}
	return a.property.Get(a.obj)
}

// Set writes a new value; fails with ReadOnlyAttributeError for
// property accessors.
func (a *Accessor[T]) Set(value T) error {
	if a.variable != nil {
		return a.variable.Set(a.obj, value)
	}
	return a.property.Set(a.obj, value)
}

// Peek returns the cached value without triggering computation.
func (a *Accessor[T]) Peek() (T, bool) {
	var zero T
	d := a.state()
	s, ok := a.obj.slots[d.name]
	if !ok {
		return zero, false
	}
	elements, ok := s.get()
	if !ok {
		return zero, false
	}
	return d.compose(elementValues(elements)).(T), true
}

// IsCached reports whether the instance's slot is populated.
func (a *Accessor[T]) IsCached() bool {
	_, ok := a.Peek()
	return ok
}
