package pipeline

import (
	"maps"

	"github.com/matzehuels/flowlayout/pkg/dag"
	"github.com/matzehuels/flowlayout/pkg/graph"
)

// Export converts a result to its wire format.
func Export(r *Result) graph.Layout {
	out := graph.Layout{
		Direction: r.Options.Direction,
		Alignment: r.Options.Alignment,
		Nodes:     make([]graph.PositionedNode, 0, len(r.Nodes)),
		Ranks:     make([]graph.Rank, 0, len(r.Groups)),
		Edges:     make([]graph.RoutedEdge, 0, len(r.Routes)),
		Stats: graph.Stats{
			Nodes:      r.Stats.NodeCount,
			Edges:      r.Stats.EdgeCount,
			Ranks:      r.Stats.RankCount,
			Crossings:  r.Stats.Crossings,
			DurationUS: r.Stats.Duration.Microseconds(),
		},
	}
	if r.Bounds != nil {
		b := *r.Bounds
		out.Bounds = &b
	}

	for _, n := range r.Nodes {
		out.Nodes = append(out.Nodes, graph.PositionedNode{
			ID:          n.ID,
			X:           n.X,
			Y:           n.Y,
			Width:       n.Width,
			Height:      n.Height,
			Rank:        n.Rank,
			Placeholder: n.Placeholder,
			Meta:        cloneNonEmpty(n.Meta),
		})
	}
	for _, g := range r.Groups {
		out.Ranks = append(out.Ranks, graph.Rank{Rank: g.Rank, NodeIDs: append([]string(nil), g.NodeIDs...)})
	}

	back := make(map[dag.EdgeKey]bool, len(r.BackEdges))
	for _, k := range r.BackEdges {
		back[k] = true
	}
	for i, rt := range r.Routes {
		e := r.Edges[i]
		out.Edges = append(out.Edges, graph.RoutedEdge{
			From:     e.From,
			To:       e.To,
			LocalID:  e.LocalID,
			Anchor:   rt.Anchor,
			Start:    rt.Start,
			Control1: rt.Control1,
			Control2: rt.Control2,
			Receptor: rt.Receptor,
			Flipped:  rt.Flipped,
			Back:     back[rt.Edge],
			Path:     rt.Path(),
			Options:  cloneNonEmpty(e.Options),
		})
	}
	return out
}

// cloneNonEmpty copies m, mapping empty metadata to nil so computed and
// decoded layouts compare equal.
func cloneNonEmpty(m dag.Metadata) map[string]any {
	if len(m) == 0 {
		return nil
	}
	return maps.Clone(map[string]any(m))
}
