package transform

import "github.com/matzehuels/flowlayout/pkg/dag"

// BackEdges returns the edges that point to a node still on the depth-first
// stack, walking from the sources first and then from any node not yet
// visited, in insertion order. Self-loops are always back edges. Parallel
// edges are reported individually. The store is not modified.
func BackEdges(s *dag.Store) []dag.EdgeKey {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, s.NodeCount())
	var back []dag.EdgeKey

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, e := range s.Outgoing(id) {
			switch color[e.To] {
			case white:
				dfs(e.To)
			case gray:
				back = append(back, e.Key())
			}
		}
		color[id] = black
	}

	for _, n := range s.Sources() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}
	for _, id := range s.NodeIDs() {
		if color[id] == white {
			dfs(id)
		}
	}
	return back
}

// CyclicNodes returns the IDs of nodes that lie on at least one cycle: members
// of a strongly connected component with more than one node, and nodes with a
// self-loop. Components are found with Tarjan's algorithm.
func CyclicNodes(s *dag.Store) map[string]bool {
	var (
		index   = make(map[string]int, s.NodeCount())
		low     = make(map[string]int, s.NodeCount())
		onStack = make(map[string]bool)
		stack   []string
		next    int
		cyclic  = make(map[string]bool)
	)

	var connect func(id string)
	connect = func(id string) {
		index[id], low[id] = next, next
		next++
		stack = append(stack, id)
		onStack[id] = true

		for _, child := range s.Children(id) {
			if child == id {
				cyclic[id] = true
			}
			if _, seen := index[child]; !seen {
				connect(child)
				low[id] = min(low[id], low[child])
			} else if onStack[child] {
				low[id] = min(low[id], index[child])
			}
		}

		if low[id] != index[id] {
			return
		}
		i := len(stack) - 1
		for stack[i] != id {
			i--
		}
		component := stack[i:]
		stack = stack[:i]
		for _, m := range component {
			onStack[m] = false
			if len(component) > 1 {
				cyclic[m] = true
			}
		}
	}

	for _, id := range s.NodeIDs() {
		if _, seen := index[id]; !seen {
			connect(id)
		}
	}
	return cyclic
}
