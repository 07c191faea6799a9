package lazy

// slot is the per-(object, attribute) cell holding the current
// registered elements, the fingerprint they were derived from (nil for
// variable slots), and the bidirectional association set. For a
// variable slot the set holds every property slot that read it, at any
// chain depth; for a property slot it holds the variable slots the
// property transitively depends on.
type slot struct {
	desc        *descriptor
	owner       *Object
	elements    []*Registered[any]
	fingerprint *Registered[string]
	associated  map[*slot]struct{}
}

func newSlot(desc *descriptor, owner *Object) *slot {
	return &slot{
		desc:       desc,
		owner:      owner,
		associated: make(map[*slot]struct{}),
	}
}

func (s *slot) get() ([]*Registered[any], bool) {
	if s.elements == nil {
		return nil, false
	}
	return s.elements, true
}

// set transitions the slot to populated and records a dependency link
// with each associated slot on both sides.
func (s *slot) set(elements []*Registered[any], fingerprint *Registered[string], associated map[*slot]struct{}) {
	s.elements = elements
	s.fingerprint = fingerprint
	for other := range associated {
		s.associated[other] = struct{}{}
		other.associated[s] = struct{}{}
	}
}

// expire transitions the slot to empty and detaches every dependency
// link. It does not cascade: the descriptor layer expires dependents
// before writing a variable.
func (s *slot) expire() {
	for other := range s.associated {
		delete(other.associated, s)
	}
	clear(s.associated)
	s.elements = nil
	s.fingerprint = nil
}

func (s *slot) checkWritability() error {
	if !s.desc.isVariable {
		return &ReadOnlyAttributeError{Schema: s.desc.schemaName(), Attr: s.desc.name}
	}
	if s.owner.frozen {
		return &ReadOnlyAttributeError{Schema: s.desc.schemaName(), Attr: s.desc.name, Frozen: true}
	}
	return nil
}

// associatedSlots snapshots the association set, so callers may expire
// entries while iterating.
func (s *slot) associatedSlots() []*slot {
	out := make([]*slot, 0, len(s.associated))
	for other := range s.associated {
		out = append(out, other)
	}
	return out
}
