package lazy

// Tree is a lightweight, possibly-branching structure used transiently
// to gather multi-valued dependency chains before a computation call.
// A tree starts as a single leaf; expanding a leaf turns it into an
// internal node with one child per element of a plural step.
type Tree[T any] struct {
	content  T
	children []*Tree[T]
}

// NewTree wraps content as a leaf.
func NewTree[T any](content T) *Tree[T] {
	return &Tree[T]{content: content}
}

// Content returns the node's content. Internal nodes keep the content
// they had before expansion; only leaf content is meaningful.
func (t *Tree[T]) Content() T {
	return t.content
}

// IsLeaf reports whether the node has not been expanded.
func (t *Tree[T]) IsLeaf() bool {
	return t.children == nil
}

// Children returns the node's children, nil for a leaf.
func (t *Tree[T]) Children() []*Tree[T] {
	return t.children
}

// SetContent replaces a leaf's content in place.
func (t *Tree[T]) SetContent(content T) {
	t.content = content
}

// Expand turns the node into an internal node with the given children.
// Expanding with zero children still marks the node internal.
func (t *Tree[T]) Expand(children ...*Tree[T]) {
	if children == nil {
		children = []*Tree[T]{}
	}
	t.children = children
}

// Leaves returns the current leaves in depth-first order. The slice is
// a snapshot: expanding a returned leaf does not extend it.
func (t *Tree[T]) Leaves() []*Tree[T] {
	var leaves []*Tree[T]
	var walk func(*Tree[T])
	walk = func(n *Tree[T]) {
		if n.children == nil {
			leaves = append(leaves, n)
			return
		}
		for _, child := range n.children {
			walk(child)
		}
	}
	walk(t)
	return leaves
}

// TupleTree converts the tree into its nested mirror: leaves map to
// their content, internal nodes to []any of their children's mirrors.
func (t *Tree[T]) TupleTree() any {
	if t.children == nil {
		return t.content
	}
	out := make([]any, len(t.children))
	for i, child := range t.children {
		out[i] = child.TupleTree()
	}
	return out
}

// ConvertTree maps leaf contents through fn, preserving shape. Internal
// node contents are not mapped; they carry the zero value.
func ConvertTree[T, U any](t *Tree[T], fn func(T) U) *Tree[U] {
	if t.children == nil {
		return &Tree[U]{content: fn(t.content)}
	}
	out := &Tree[U]{children: make([]*Tree[U], len(t.children))}
	for i, child := range t.children {
		out.children[i] = ConvertTree(child, fn)
	}
	return out
}
