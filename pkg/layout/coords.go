package layout

import (
	"fmt"
	"math"

	"github.com/matzehuels/flowlayout/pkg/dag"
)

// Coordinate assigns a center position to every node in groups and returns the
// bounding box of the result, or nil when there are no nodes.
//
// The compact pass places each group's nodes back to back along the align axis
// and advances the flex offset by the group's FlexSpan plus RankSeparation.
// Nodes sit against the leading edge of their rank band.
//
// With [Symmetric] alignment a second pass walks outward from the widest group
// and shifts nodes toward the midpoint of their relatives in the adjacent,
// already settled group. Nodes only ever move away from the origin and never
// past the widest group's extent, so the pass cannot introduce overlap or grow
// the bounding box.
//
// Finally opts.Margin is added to every position.
func Coordinate(s *dag.Store, groups []RankGroup, opts Options) (*BoundingBox, error) {
	ax := axisOf(opts.Direction)

	nodes := make([][]*dag.Node, len(groups))
	for gi, g := range groups {
		nodes[gi] = make([]*dag.Node, len(g.NodeIDs))
		for i, id := range g.NodeIDs {
			n, ok := s.Node(id)
			if !ok {
				return nil, fmt.Errorf("rank %d: %w: %q", g.Rank, dag.ErrUnknownNode, id)
			}
			nodes[gi][i] = n
		}
	}

	flex := 0.0
	for gi, g := range groups {
		align := 0.0
		for _, n := range nodes[gi] {
			ae := ax.alignExtent(n)
			ax.place(n, flex+ax.flexExtent(n)/2, align+ae/2)
			align += ae + opts.NodeSeparation
		}
		flex += g.FlexSpan + opts.RankSeparation
	}

	if opts.Alignment == Symmetric && len(groups) > 1 {
		alignSymmetric(s, groups, nodes, ax, opts.NodeSeparation)
	}

	var box *BoundingBox
	for _, group := range nodes {
		for _, n := range group {
			n.X += opts.Margin.X
			n.Y += opts.Margin.Y
			r := RectOf(n)
			if box == nil {
				box = &BoundingBox{
					TopLeft:     Point{X: r.Left, Y: r.Top},
					BottomRight: Point{X: r.Right, Y: r.Bottom},
				}
				continue
			}
			box.TopLeft.X = math.Min(box.TopLeft.X, r.Left)
			box.TopLeft.Y = math.Min(box.TopLeft.Y, r.Top)
			box.BottomRight.X = math.Max(box.BottomRight.X, r.Right)
			box.BottomRight.Y = math.Max(box.BottomRight.Y, r.Bottom)
		}
	}
	return box, nil
}

func alignSymmetric(s *dag.Store, groups []RankGroup, nodes [][]*dag.Node, ax axis, sep float64) {
	ref := 0
	for gi, g := range groups {
		if g.AlignSpan > groups[ref].AlignSpan {
			ref = gi
		}
	}
	bound := groups[ref].AlignSpan

	for gi := ref + 1; gi < len(groups); gi++ {
		shiftToward(nodes[gi], nodes[gi-1], s.Parents, ax, bound, sep)
	}
	for gi := ref - 1; gi >= 0; gi-- {
		shiftToward(nodes[gi], nodes[gi+1], s.Children, ax, bound, sep)
	}
}

// shiftToward processes a group right to left (bottom to top for horizontal
// layouts). Each node moves to the midpoint of its relatives in adj, capped by
// the space left by the nodes after it. The first node that cannot move stops
// the walk: everything before it is already packed tight.
func shiftToward(group, adj []*dag.Node, relatives func(string) []string, ax axis, bound, sep float64) {
	inAdj := make(map[string]*dag.Node, len(adj))
	for _, n := range adj {
		inAdj[n.ID] = n
	}

	upper := bound
	for i := len(group) - 1; i >= 0; i-- {
		n := group[i]
		half := ax.alignExtent(n) / 2
		limit := upper - half

		ideal := limit
		lo, hi, found := math.Inf(1), math.Inf(-1), false
		for _, id := range relatives(n.ID) {
			if r, ok := inAdj[id]; ok {
				p := ax.alignPos(r)
				lo, hi, found = math.Min(lo, p), math.Max(hi, p), true
			}
		}
		if found {
			ideal = (lo + hi) / 2
		}

		target := math.Min(ideal, limit)
		if target <= ax.alignPos(n) {
			return
		}
		ax.setAlign(n, target)
		upper = target - half - sep
	}
}
