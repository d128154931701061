package transform

import "github.com/matzehuels/flowlayout/pkg/dag"

// AssignRanks computes a rank for every node, stores it on the nodes (via
// [dag.Store.SetRanks]) and returns the assignment.
//
// Each source is walked depth-first and every node reached at distance d gets
// rank max(current, d). The visited set is scoped to the current path, pushed
// on entry and popped on exit, so cycles stop the recursion without blocking
// other lanes. A node outside every cycle is not walked again when it is
// reached at a depth no greater than its rank: none of its descendants can be
// on the current path, so the earlier walk already covered every path through
// it. Nodes on a cycle are always rewalked, which keeps ranks independent of
// traversal order; the cost is exponential only in the size of a strongly
// connected component.
//
// Nodes still unranked after all sources have been walked belong to cyclic
// components with no natural entry; the first of them in insertion order is
// walked as an extra root until every node has a rank.
func AssignRanks(s *dag.Store) map[string]int {
	ranks := make(map[string]int, s.NodeCount())
	onPath := make(map[string]bool)
	cyclic := CyclicNodes(s)

	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		r, ok := ranks[id]
		if ok && depth <= r && !cyclic[id] {
			return
		}
		if !ok || depth > r {
			ranks[id] = depth
		}
		onPath[id] = true
		for _, child := range distinct(s.Children(id)) {
			if !onPath[child] {
				walk(child, depth+1)
			}
		}
		delete(onPath, id)
	}

	for _, n := range s.Sources() {
		walk(n.ID, 0)
	}
	for _, id := range s.NodeIDs() {
		if _, ok := ranks[id]; !ok {
			walk(id, 0)
		}
	}

	s.SetRanks(ranks)
	return ranks
}

// distinct drops repeated IDs produced by parallel edges, keeping first
// occurrence order.
func distinct(ids []string) []string {
	if len(ids) < 2 {
		return ids
	}
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
