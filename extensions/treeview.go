package extensions

import (
	"fmt"
	"log/slog"

	"github.com/m1gwings/treedrawer/tree"

	lazy "github.com/lazy-fn/lazy-go"
)

// TreeViewExtension draws the resolved parameter trees of each property
// computation with treedrawer and logs them at debug level. Handy when
// a plural chain does not branch the way a declaration intended.
type TreeViewExtension struct {
	lazy.BaseExtension
	logger *slog.Logger
}

// NewTreeViewExtension creates a tree view extension.
func NewTreeViewExtension(logHandler slog.Handler) *TreeViewExtension {
	return &TreeViewExtension{
		BaseExtension: lazy.NewBaseExtension("treeview"),
		logger:        slog.New(logHandler),
	}
}

func (e *TreeViewExtension) Wrap(next func() (any, error), op *lazy.Operation) (any, error) {
	result, err := next()
	if op.Kind != lazy.OpCompute || len(op.Params) == 0 {
		return result, err
	}
	for i, param := range op.Params {
		e.logger.Debug("parameter tree",
			"schema", op.Schema.Name(),
			"attr", op.Attr,
			"param", i,
			"tree", "\n"+RenderParamTree(param),
		)
	}
	return result, err
}

func (e *TreeViewExtension) OnError(err error, op *lazy.Operation) {
	if op.Kind != lazy.OpCompute {
		return
	}
	desc, ok := op.Schema.Descriptor(op.Attr)
	if !ok {
		return
	}
	e.logger.Error("computation failed",
		"schema", op.Schema.Name(),
		"attr", op.Attr,
		"error", err,
		"dependencies", "\n"+RenderDependencies(desc),
	)
}

// RenderParamTree draws a resolved parameter tree. Leaves show their
// registered values, internal nodes the number of branches.
func RenderParamTree(t *lazy.Tree[any]) string {
	drawn := tree.NewTree(paramNode(t))
	addParamChildren(drawn, t)
	return drawn.String()
}

func addParamChildren(drawn *tree.Tree, t *lazy.Tree[any]) {
	for i, child := range t.Children() {
		drawn.AddChild(paramNode(child))
		drawnChild, err := drawn.Child(i)
		if err != nil {
			return
		}
		addParamChildren(drawnChild, child)
	}
}

func paramNode(t *lazy.Tree[any]) tree.NodeValue {
	if !t.IsLeaf() {
		return tree.NodeString(fmt.Sprintf("[%d]", len(t.Children())))
	}
	if h, ok := t.Content().(*lazy.Registered[any]); ok {
		return tree.NodeString(fmt.Sprintf("%v", h.Value()))
	}
	return tree.NodeString(fmt.Sprintf("%v", t.Content()))
}

// RenderDependencies draws a property's declared dependency tree,
// walking the schema graphs built at Seal time. Descriptors already on
// the current path are not expanded again.
func RenderDependencies(desc lazy.AnyDescriptor) string {
	drawn := tree.NewTree(tree.NodeString(descriptorLabel(desc)))
	addDependencyChildren(drawn, desc, map[lazy.AnyDescriptor]bool{desc: true})
	return drawn.String()
}

func addDependencyChildren(drawn *tree.Tree, desc lazy.AnyDescriptor, seen map[lazy.AnyDescriptor]bool) {
	for i, dep := range desc.Schema().Dependencies(desc) {
		drawn.AddChild(tree.NodeString(descriptorLabel(dep)))
		if seen[dep] {
			continue
		}
		seen[dep] = true
		drawnChild, err := drawn.Child(i)
		if err != nil {
			return
		}
		addDependencyChildren(drawnChild, dep, seen)
	}
}

func descriptorLabel(desc lazy.AnyDescriptor) string {
	if desc.IsVariable() {
		return desc.Name()
	}
	return desc.Name() + "()"
}
