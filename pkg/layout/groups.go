package layout

import "github.com/matzehuels/flowlayout/pkg/dag"

// RankGroup is the set of nodes that share a rank, in display order.
//
// FlexSpan is the largest node extent along the flex axis. AlignSpan is the
// sum of node extents along the align axis plus the gaps between them; it does
// not depend on the order of NodeIDs.
type RankGroup struct {
	Rank      int      `json:"rank"`
	NodeIDs   []string `json:"node_ids"`
	FlexSpan  float64  `json:"flex_span"`
	AlignSpan float64  `json:"align_span"`
}

// BuildRankGroups groups nodes by their stored rank, ascending. Empty ranks
// produce no group. Within a group, nodes keep store insertion order.
func BuildRankGroups(s *dag.Store, opts Options) []RankGroup {
	ax := axisOf(opts.Direction)
	rankIDs := s.RankIDs()
	groups := make([]RankGroup, 0, len(rankIDs))
	for _, r := range rankIDs {
		nodes := s.NodesInRank(r)
		if len(nodes) == 0 {
			continue
		}
		g := RankGroup{Rank: r, NodeIDs: dag.NodeIDs(nodes)}
		for i, n := range nodes {
			g.FlexSpan = max(g.FlexSpan, ax.flexExtent(n))
			g.AlignSpan += ax.alignExtent(n)
			if i > 0 {
				g.AlignSpan += opts.NodeSeparation
			}
		}
		groups = append(groups, g)
	}
	return groups
}

// Orders returns the node order of every group, for crossing counts.
func Orders(groups []RankGroup) [][]string {
	orders := make([][]string, len(groups))
	for i, g := range groups {
		orders[i] = g.NodeIDs
	}
	return orders
}
