package lazy

// Entity is implemented by any struct that embeds Object, letting
// entity-typed attribute elements participate in parameter chains.
type Entity interface {
	lazyObject() *Object
}

// Object is the base of every cacheable entity. It owns the mapping
// from attribute name to slot and the teardown hooks. Objects are
// created through Schema.New, or by embedding Object in a struct and
// initializing it with Schema.Init.
//
// Object state is not synchronized; an instance must be confined to a
// single goroutine.
type Object struct {
	schema   *Schema
	slots    map[string]*slot
	teardown []func() error
	frozen   bool
}

func (o *Object) lazyObject() *Object { return o }

// Schema returns the schema the object was built from.
func (o *Object) Schema() *Schema {
	return o.schema
}

// slotFor returns the instance's slot for the descriptor, creating it
// on first access.
func (o *Object) slotFor(d *descriptor) (*slot, error) {
	if o.schema == nil {
		panic("lazy: object used before Schema.Init")
	}
	if declared, ok := o.schema.descriptors[d.name]; !ok || declared != d {
		return nil, &UnknownAttributeError{Schema: o.schema.name, Attr: d.name}
	}
	s, ok := o.slots[d.name]
	if !ok {
		s = newSlot(d, o)
		o.slots[d.name] = s
	}
	return s, nil
}

// Copy produces a new instance with copy-on-write sharing: variable
// slots start populated with the same registered handles as the source
// (no fingerprint, no dependents); property slots start empty and are
// rebuilt on first read, normally straight from the descriptor's
// fingerprint cache. Writes to either instance never cross-invalidate
// the other.
func (o *Object) Copy() *Object {
	copied := o.schema.New()
	o.CopyInto(copied)
	return copied
}

// CopyInto applies Copy's sharing semantics onto dst, for entity
// structs embedding Object. dst must already be initialized with the
// same schema.
func (o *Object) CopyInto(dst *Object) {
	if dst.schema != o.schema {
		panic("lazy: CopyInto across different schemas")
	}
	for name, src := range o.slots {
		if !src.desc.isVariable {
			continue
		}
		if elements, ok := src.get(); ok {
			cs := newSlot(src.desc, dst)
			cs.set(elements, nil, nil)
			dst.slots[name] = cs
		}
	}
}

// OnDestroy registers a teardown hook. Hooks run in reverse
// registration order when the object is destroyed.
func (o *Object) OnDestroy(fn func() error) {
	o.teardown = append(o.teardown, fn)
}

// Destroy expires every slot, detaching all dependency backlinks, and
// runs the teardown hooks. Hook errors are reported to the schema's
// extensions and do not stop the remaining hooks.
func (o *Object) Destroy() {
	for _, s := range o.slots {
		s.expire()
	}
	clear(o.slots)
	for i := len(o.teardown) - 1; i >= 0; i-- {
		if err := o.teardown[i](); err != nil && o.schema != nil {
			op := &Operation{Kind: OpExpire, Schema: o.schema, Object: o}
			for _, ext := range o.schema.extensions {
				ext.OnError(err, op)
			}
		}
	}
	o.teardown = nil
}

// Freeze marks the object immutable: subsequent variable writes fail.
// Freezing recurses into every entity element currently held by the
// object's slots.
func (o *Object) Freeze() {
	if o.frozen {
		return
	}
	o.frozen = true
	for _, s := range o.slots {
		for _, element := range s.elements {
			freezeValue(element.value)
		}
	}
}

// IsFrozen reports whether the object has been frozen.
func (o *Object) IsFrozen() bool {
	return o.frozen
}

// freezeValue recursively freezes entity values; non-entity values are
// treated as immutable by caller contract once registered.
func freezeValue(v any) {
	if ent, ok := v.(Entity); ok {
		ent.lazyObject().Freeze()
	}
}
