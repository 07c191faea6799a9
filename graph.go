package lazy

// depGraph is the static dependency graph over declared attributes,
// built at Seal time from parameter chains. Nodes are descriptors,
// possibly from several schemas when chains cross entity boundaries.
type depGraph struct {
	// dependency -> dependents, and the reverse
	downstream map[*descriptor][]*descriptor
	upstream   map[*descriptor][]*descriptor
}

func newDepGraph() *depGraph {
	return &depGraph{
		downstream: make(map[*descriptor][]*descriptor),
		upstream:   make(map[*descriptor][]*descriptor),
	}
}

func (g *depGraph) addEdge(dependent, dependency *descriptor) {
	g.downstream[dependency] = appendUnique(g.downstream[dependency], dependent)
	g.upstream[dependent] = appendUnique(g.upstream[dependent], dependency)
}

// dependencies returns the direct dependencies of a descriptor.
func (g *depGraph) dependencies(d *descriptor) []*descriptor {
	deps := g.upstream[d]
	out := make([]*descriptor, len(deps))
	copy(out, deps)
	return out
}

// findCycle looks for a path from start back to itself, walking
// upstream edges iteratively to keep deep chains off the Go stack.
// It returns the cycle as a descriptor path, or nil.
func (g *depGraph) findCycle(start *descriptor) []*descriptor {
	type frame struct {
		node *descriptor
		next int
	}
	stack := []frame{{node: start}}
	path := []*descriptor{start}
	onPath := map[*descriptor]bool{start: true}
	done := make(map[*descriptor]bool)

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		deps := g.upstream[top.node]
		if top.next < len(deps) {
			next := deps[top.next]
			top.next++
			if next == start {
				return append(path, start)
			}
			if onPath[next] || done[next] {
				continue
			}
			onPath[next] = true
			path = append(path, next)
			stack = append(stack, frame{node: next})
			continue
		}
		done[top.node] = true
		onPath[top.node] = false
		path = path[:len(path)-1]
		stack = stack[:len(stack)-1]
	}
	return nil
}

func appendUnique[T comparable](slice []T, item T) []T {
	for _, existing := range slice {
		if existing == item {
			return slice
		}
	}
	return append(slice, item)
}
