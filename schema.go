package lazy

import (
	"fmt"
	"sort"
	"strings"
)

// Schema is the explicit attribute schema of a cacheable entity type:
// the set of declared descriptors, validated once by Seal before any
// instance exists. A schema also carries the extensions wrapped around
// its instances' computes and writes.
type Schema struct {
	name        string
	descriptors map[string]*descriptor
	order       []string
	extensions  []Extension
	graph       *depGraph
	sealed      bool
}

// SchemaOption is a modifier for schemas.
type SchemaOption func(*Schema)

// WithExtension returns an option that registers an extension at
// construction.
func WithExtension(ext Extension) SchemaOption {
	return func(s *Schema) {
		if err := s.Use(ext); err != nil {
			panic(err)
		}
	}
}

// NewSchema creates an empty schema with the given type name.
func NewSchema(name string, opts ...SchemaOption) *Schema {
	s := &Schema{
		name:        name,
		descriptors: make(map[string]*descriptor),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the schema's type name.
func (s *Schema) Name() string {
	return s.name
}

// Declare attaches descriptors to the schema. Declaring after Seal, a
// duplicate name, or a descriptor already owned by another schema is a
// declaration contract violation.
func (s *Schema) Declare(descs ...AnyDescriptor) *Schema {
	if s.sealed {
		panic(&DeclarationError{Schema: s.name, Reason: "cannot declare on a sealed schema"})
	}
	for _, ad := range descs {
		d := ad.state()
		if d.schema != nil {
			panic(&DeclarationError{Schema: s.name, Attr: d.name, Reason: "descriptor already declared on schema " + d.schema.name})
		}
		if _, ok := s.descriptors[d.name]; ok {
			panic(&DeclarationError{Schema: s.name, Attr: d.name, Reason: "duplicate attribute name"})
		}
		d.schema = s
		s.descriptors[d.name] = d
		s.order = append(s.order, d.name)
	}
	return s
}

// Seal validates the declarations and locks the schema. It panics with
// a *DeclarationError on any contract violation, so misdeclared types
// fail before the first instance is built.
func (s *Schema) Seal() *Schema {
	if s.sealed {
		return s
	}
	s.graph = newDepGraph()
	for _, name := range s.order {
		d := s.descriptors[name]
		if !d.identityHashed && !d.freeze {
			panic(&DeclarationError{Schema: s.name, Attr: d.name, Reason: "content-hashed attributes must freeze"})
		}
		if d.isVariable {
			continue
		}
		for _, chain := range d.chains {
			s.addChainEdges(d, chain)
		}
	}
	for _, name := range s.order {
		d := s.descriptors[name]
		if d.isVariable {
			continue
		}
		if cycle := s.graph.findCycle(d); cycle != nil {
			names := make([]string, len(cycle))
			for i, cd := range cycle {
				names[i] = cd.name
			}
			panic(&DeclarationError{
				Schema: s.name,
				Attr:   d.name,
				Reason: "cyclic parameter chains: " + strings.Join(names, " -> "),
			})
		}
	}
	s.sealed = true
	return s
}

// addChainEdges resolves one parameter chain step by step, walking
// element schemas, and records a dependency edge per step.
func (s *Schema) addChainEdges(d *descriptor, chain Chain) {
	current := s
	for i, name := range chain {
		step, ok := current.descriptors[name]
		if !ok {
			panic(&DeclarationError{
				Schema: s.name,
				Attr:   d.name,
				Reason: fmt.Sprintf("parameter chain step %q is not declared on schema %q", name, current.name),
			})
		}
		s.graph.addEdge(d, step)
		if i < len(chain)-1 {
			if step.elementSchema == nil {
				panic(&DeclarationError{
					Schema: s.name,
					Attr:   d.name,
					Reason: fmt.Sprintf("parameter chain continues past %q, which has no element schema", name),
				})
			}
			current = step.elementSchema
		}
	}
}

// New builds an instance of the schema. Slots are created lazily on
// first attribute access.
func (s *Schema) New() *Object {
	o := &Object{}
	s.Init(o)
	return o
}

// Init initializes an embedded Object in place, for entity structs that
// embed lazy.Object.
func (s *Schema) Init(o *Object) {
	if !s.sealed {
		panic(&DeclarationError{Schema: s.name, Reason: "schema must be sealed before creating instances"})
	}
	o.schema = s
	o.slots = make(map[string]*slot, len(s.descriptors))
}

// Descriptors returns the declared descriptors in declaration order.
func (s *Schema) Descriptors() []AnyDescriptor {
	out := make([]AnyDescriptor, len(s.order))
	for i, name := range s.order {
		out[i] = s.descriptors[name]
	}
	return out
}

// Dependencies returns the direct dependencies of a declared property,
// in declaration-chain order. Empty for variables.
func (s *Schema) Dependencies(desc AnyDescriptor) []AnyDescriptor {
	if s.graph == nil {
		return nil
	}
	deps := s.graph.dependencies(desc.state())
	out := make([]AnyDescriptor, len(deps))
	for i, d := range deps {
		out[i] = d
	}
	return out
}

// Descriptor returns the declared descriptor with the given name.
func (s *Schema) Descriptor(name string) (AnyDescriptor, bool) {
	d, ok := s.descriptors[name]
	if !ok {
		return nil, false
	}
	return d, true
}

func (s *Schema) descriptor(name string) (*descriptor, bool) {
	d, ok := s.descriptors[name]
	return d, ok
}

// Use registers an extension to the schema.
func (s *Schema) Use(ext Extension) error {
	s.extensions = append(s.extensions, ext)
	sort.SliceStable(s.extensions, func(i, j int) bool {
		return s.extensions[i].Order() < s.extensions[j].Order()
	})
	return ext.Init(s)
}

// Dispose tears down the schema's extensions.
func (s *Schema) Dispose() error {
	for _, ext := range s.extensions {
		if err := ext.Dispose(s); err != nil {
			return fmt.Errorf("disposing extension %s: %w", ext.Name(), err)
		}
	}
	return nil
}

// wrap runs next through the extension chain; the first registered
// extension becomes the outermost wrapper.
func (s *Schema) wrap(op *Operation, next func() (any, error)) (any, error) {
	exts := s.extensions
	for i := len(exts) - 1; i >= 0; i-- {
		ext := exts[i]
		currentNext := next
		next = func() (any, error) {
			return ext.Wrap(currentNext, op)
		}
	}
	result, err := next()
	if err != nil {
		for _, ext := range exts {
			ext.OnError(err, op)
		}
	}
	return result, err
}

func (s *Schema) notifyExpire(expired *slot) {
	if len(s.extensions) == 0 {
		return
	}
	op := &Operation{Kind: OpExpire, Schema: s, Attr: expired.desc.name, Object: expired.owner}
	for _, ext := range s.extensions {
		ext.OnExpire(op)
	}
}

func (s *Schema) notifyCacheEvent(kind CacheEventKind, d *descriptor, o *Object) {
	if len(s.extensions) == 0 {
		return
	}
	op := &Operation{Kind: OpCompute, Schema: s, Attr: d.name, Object: o}
	for _, ext := range s.extensions {
		ext.OnCacheEvent(kind, op)
	}
}
