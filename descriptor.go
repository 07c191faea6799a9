package lazy

import (
	"strconv"
	"strings"
)

// Chain is a dependency parameter path: a sequence of attribute names
// walked from the owning instance through sibling attributes. Steps
// before the last must address entity-typed attributes.
type Chain []string

// DefaultCacheCapacity bounds each descriptor's fingerprint cache. The
// bound exists to cap memory, not to guarantee a hit rate.
const DefaultCacheCapacity = 32

// descriptor is the untyped attribute definition shared by every
// instance of a schema. The typed Variable/Property constructors wrap
// it with compose/decompose conversions.
type descriptor struct {
	name           string
	isVariable     bool
	isPlural       bool
	chains         []Chain
	method         func(args []any) (any, error)
	defaultFn      func() any
	decompose      func(any) []any
	compose        func([]any) any
	hasher         func(any) any
	identityHashed bool
	freeze         bool
	cacheCapacity  int

	cache        *boundedCache
	fingerprints *Registry[string, string]
	elements     *Registry[any, any]

	schema        *Schema
	elementSchema *Schema
}

func newDescriptor(name string, isVariable, isPlural bool, chains []Chain) *descriptor {
	if name == "" {
		panic(&DeclarationError{Attr: name, Reason: "attribute name must not be empty"})
	}
	if isVariable && len(chains) > 0 {
		panic(&DeclarationError{Attr: name, Reason: "variables take no parameters"})
	}
	if !isVariable && len(chains) == 0 {
		panic(&DeclarationError{Attr: name, Reason: "properties need at least one parameter"})
	}
	for _, chain := range chains {
		if len(chain) == 0 {
			panic(&DeclarationError{Attr: name, Reason: "empty parameter chain"})
		}
	}
	return &descriptor{
		name:           name,
		isVariable:     isVariable,
		isPlural:       isPlural,
		chains:         chains,
		hasher:         IdentityHash,
		identityHashed: true,
		cacheCapacity:  DefaultCacheCapacity,
		fingerprints:   NewRegistry[string, string](),
		elements:       NewRegistry[any, any](),
	}
}

// finish allocates the per-descriptor cache once options are applied.
func (d *descriptor) finish() {
	d.cache = newBoundedCache(d.cacheCapacity)
}

func (d *descriptor) schemaName() string {
	if d.schema == nil {
		return ""
	}
	return d.schema.name
}

// AnyDescriptor is the untyped view of a declared attribute.
type AnyDescriptor interface {
	Name() string
	IsVariable() bool
	IsPlural() bool
	Chains() []Chain
	Schema() *Schema

	state() *descriptor
}

func (d *descriptor) Name() string       { return d.name }
func (d *descriptor) IsVariable() bool   { return d.isVariable }
func (d *descriptor) IsPlural() bool     { return d.isPlural }
func (d *descriptor) Schema() *Schema    { return d.schema }
func (d *descriptor) state() *descriptor { return d }

func (d *descriptor) Chains() []Chain {
	out := make([]Chain, len(d.chains))
	copy(out, d.chains)
	return out
}

// registerElements freezes (when enabled) and registers each raw
// element, deduplicating content-hashed elements through the registry.
func (d *descriptor) registerElements(elements []any) []*Registered[any] {
	if d.freeze {
		for _, element := range elements {
			freezeValue(element)
		}
	}
	registered := make([]*Registered[any], 0, len(elements))
	for _, element := range elements {
		registered = append(registered, d.elements.Register(d.hasher(element), element))
	}
	return registered
}

// getElements is the read path.
func (d *descriptor) getElements(o *Object) ([]*Registered[any], error) {
	s, err := o.slotFor(d)
	if err != nil {
		return nil, err
	}
	if elements, ok := s.get(); ok {
		return elements, nil
	}
	if d.isVariable {
		// First touch: populate from the default factory.
		if d.defaultFn == nil {
			return nil, &MissingValueError{Schema: d.schemaName(), Attr: d.name}
		}
		elements := d.registerElements(d.decompose(d.defaultFn()))
		s.set(elements, nil, nil)
		return elements, nil
	}

	trees, variableSlots, err := d.resolveParameters(o)
	if err != nil {
		return nil, err
	}
	fingerprint := d.registerFingerprint(trees)

	elements, hit := d.cache.get(fingerprint)
	d.schema.notifyCacheEvent(cacheEventKind(hit), d, o)
	if !hit {
		args := make([]any, len(trees))
		for i, tree := range trees {
			args[i] = ConvertTree(tree, unwrapLeaf).TupleTree()
		}
		op := &Operation{Kind: OpCompute, Schema: d.schema, Attr: d.name, Object: o, Params: trees}
		result, err := d.schema.wrap(op, func() (any, error) {
			out, err := d.method(args)
			if err != nil {
				return nil, newComputeError(d.schemaName(), d.name, err)
			}
			return out, nil
		})
		if err != nil {
			return nil, err
		}
		elements = d.registerElements(d.decompose(result))
		// Non-frozen results are never cached across calls.
		if d.freeze {
			if d.cache.set(fingerprint, elements) {
				d.schema.notifyCacheEvent(CacheEvict, d, o)
			}
		}
	}
	s.set(elements, fingerprint, variableSlots)
	return elements, nil
}

// resolveParameters walks each declared chain from the instance,
// branching at plural steps, and assembles the complete transitive set
// of variable slots the computation depends on.
func (d *descriptor) resolveParameters(o *Object) ([]*Tree[any], map[*slot]struct{}, error) {
	trees := make([]*Tree[any], len(d.chains))
	variableSlots := make(map[*slot]struct{})
	for i, chain := range d.chains {
		tree := NewTree[any](o)
		for _, name := range chain {
			for _, leaf := range tree.Leaves() {
				obj := leafObject(leaf.Content())
				step, ok := obj.schema.descriptor(name)
				if !ok {
					return nil, nil, &UnknownAttributeError{Schema: obj.schema.name, Attr: name}
				}
				stepSlot, err := obj.slotFor(step)
				if err != nil {
					return nil, nil, err
				}
				elements, err := step.getElements(obj)
				if err != nil {
					return nil, nil, err
				}
				if step.isPlural {
					children := make([]*Tree[any], len(elements))
					for j, element := range elements {
						children[j] = NewTree[any](element)
					}
					leaf.Expand(children...)
				} else {
					leaf.SetContent(elements[0])
				}
				if step.isVariable {
					variableSlots[stepSlot] = struct{}{}
				} else {
					// A property input contributes its own recorded
					// variable dependencies, keeping the set complete
					// at any chain depth.
					for _, dep := range stepSlot.associatedSlots() {
						variableSlots[dep] = struct{}{}
					}
				}
			}
		}
		trees[i] = tree
	}
	return trees, variableSlots, nil
}

// registerFingerprint encodes the identity tuple-trees of all
// parameters into a canonical key and registers it, so pointer-equal
// inputs in the same nested shape share one fingerprint handle.
func (d *descriptor) registerFingerprint(trees []*Tree[any]) *Registered[string] {
	var b strings.Builder
	for i, tree := range trees {
		if i > 0 {
			b.WriteByte(';')
		}
		encodeIdentity(&b, tree)
	}
	key := b.String()
	return d.fingerprints.Register(key, key)
}

func encodeIdentity(b *strings.Builder, t *Tree[any]) {
	if t.IsLeaf() {
		b.WriteString(strconv.FormatUint(t.Content().(*Registered[any]).serial, 10))
		return
	}
	b.WriteByte('(')
	for i, child := range t.Children() {
		if i > 0 {
			b.WriteByte(',')
		}
		encodeIdentity(b, child)
	}
	b.WriteByte(')')
}

// setElements is the write path, valid for variable descriptors only.
func (d *descriptor) setElements(o *Object, data any) error {
	s, err := o.slotFor(d)
	if err != nil {
		return err
	}
	if err := s.checkWritability(); err != nil {
		return err
	}
	registered := d.registerElements(d.decompose(data))
	if current, ok := s.get(); ok && sameHandles(current, registered) {
		// Idempotent under unchanged values: no invalidation.
		return nil
	}
	op := &Operation{Kind: OpWrite, Schema: d.schema, Attr: d.name, Object: o}
	_, err = d.schema.wrap(op, func() (any, error) {
		for _, dependent := range s.associatedSlots() {
			dependent.expire()
			dependent.desc.schema.notifyExpire(dependent)
		}
		s.set(registered, nil, nil)
		return nil, nil
	})
	return err
}

func sameHandles(a, b []*Registered[any]) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func unwrapLeaf(content any) any {
	return content.(*Registered[any]).value
}

// leafObject resolves a chain leaf's content to the entity it
// addresses: the root instance directly, or a registered element
// wrapping an entity.
func leafObject(content any) *Object {
	if h, ok := content.(*Registered[any]); ok {
		content = h.value
	}
	ent, ok := content.(Entity)
	if !ok {
		panic(&DeclarationError{Reason: "parameter chain steps through a non-entity element"})
	}
	return ent.lazyObject()
}
