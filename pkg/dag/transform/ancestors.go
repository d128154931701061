package transform

import "github.com/matzehuels/flowlayout/pkg/dag"

// AncestorMap maps a node ID to the set of IDs of nodes in strictly earlier
// ranks that reach it. It lives for a single layout pass.
type AncestorMap map[string]map[string]struct{}

// Has reports whether anc is an ancestor of id.
func (m AncestorMap) Has(id, anc string) bool {
	_, ok := m[id][anc]
	return ok
}

// Ancestors computes the AncestorMap from the ranks currently stored on the
// nodes, so [AssignRanks] must run first.
//
// The backward search follows every incoming edge, but only nodes ranked
// strictly before the start node are recorded; nodes in the same or a later
// rank (reached through a cycle) are traversed and skipped. Because every node
// is reachable from some rank-0 root, any node of rank r > 0 has at least one
// ancestor at rank 0.
func Ancestors(s *dag.Store) AncestorMap {
	m := make(AncestorMap, s.NodeCount())
	for _, n := range s.Nodes() {
		set := make(map[string]struct{})
		seen := map[string]bool{n.ID: true}
		queue := []string{n.ID}
		for len(queue) > 0 {
			curr := queue[0]
			queue = queue[1:]
			for _, p := range s.Parents(curr) {
				if seen[p] {
					continue
				}
				seen[p] = true
				queue = append(queue, p)
				if pn, ok := s.Node(p); ok && pn.Rank < n.Rank {
					set[p] = struct{}{}
				}
			}
		}
		m[n.ID] = set
	}
	return m
}
