package dag

import "slices"

// CountCrossings returns the total number of edge crossings between each pair
// of consecutive entries in orders. Each entry lists the node IDs of one rank
// in display order; orders itself must be sorted by rank. Ranks need not be
// contiguous: an edge that skips a rank is not counted.
func CountCrossings(s *Store, orders [][]string) int {
	crossings := 0
	for i := 0; i+1 < len(orders); i++ {
		crossings += CountLayerCrossings(s, orders[i], orders[i+1])
	}
	return crossings
}

// CountLayerCrossings counts edge crossings between two adjacent ranks using a
// Fenwick tree (binary indexed tree) in O(E log V) time, where E is the number
// of edges between the ranks and V is the size of the lower rank.
//
// Two edges (u1,v1) and (u2,v2) cross if and only if:
//
//	pos(u1) < pos(u2) AND pos(v1) > pos(v2)
//
// Parallel edges between the same pair count once per edge but never cross
// each other.
func CountLayerCrossings(s *Store, upper, lower []string) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}

	lowerPos := PosMap(lower)

	type edge struct{ upper, lower int }
	edges := make([]edge, 0, len(upper)*2)
	for i, nodeID := range upper {
		for _, child := range s.Children(nodeID) {
			if pos, ok := lowerPos[child]; ok {
				edges = append(edges, edge{i, pos})
			}
		}
	}
	if len(edges) < 2 {
		return 0
	}

	slices.SortFunc(edges, func(a, b edge) int {
		if a.upper != b.upper {
			return a.upper - b.upper
		}
		return a.lower - b.lower
	})

	fenwick := make([]int, len(lower)+1)
	crossings, total := 0, 0
	for _, e := range edges {
		// edges seen so far with target <= e.lower
		lessOrEqual := 0
		for q := e.lower + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += total - lessOrEqual

		total++
		for idx := e.lower + 1; idx < len(fenwick); idx += idx & (-idx) {
			fenwick[idx]++
		}
	}
	return crossings
}
