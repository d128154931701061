package pipeline

import (
	"maps"
	"slices"
	"time"

	"github.com/matzehuels/flowlayout/pkg/dag"
	"github.com/matzehuels/flowlayout/pkg/dag/transform"
	"github.com/matzehuels/flowlayout/pkg/errors"
	"github.com/matzehuels/flowlayout/pkg/graph"
	"github.com/matzehuels/flowlayout/pkg/layout"
	"github.com/matzehuels/flowlayout/pkg/route"
)

// Stats summarizes one pass.
type Stats struct {
	NodeCount int
	EdgeCount int
	RankCount int
	Crossings int
	Duration  time.Duration
}

// Result is the outcome of one pass. It is a snapshot: later passes never
// modify it.
type Result struct {
	Options layout.Options

	// Nodes are copies of the store's nodes in insertion order, with ranks
	// and center positions assigned.
	Nodes []dag.Node
	// Edges are in insertion order; Routes[i] belongs to Edges[i].
	Edges  []dag.Edge
	Routes []route.Route

	Groups []layout.RankGroup
	// Bounds is nil when there are no nodes.
	Bounds *layout.BoundingBox

	// BackEdges are the edges that close a cycle, in discovery order.
	BackEdges []dag.EdgeKey

	Stats Stats
}

// Node returns the laid-out node with the given ID.
func (r *Result) Node(id string) (dag.Node, bool) {
	i := slices.IndexFunc(r.Nodes, func(n dag.Node) bool { return n.ID == id })
	if i < 0 {
		return dag.Node{}, false
	}
	return r.Nodes[i], true
}

// Route returns the route of the edge with the given identity.
func (r *Result) Route(k dag.EdgeKey) (route.Route, bool) {
	i := slices.IndexFunc(r.Routes, func(rt route.Route) bool { return rt.Edge == k })
	if i < 0 {
		return route.Route{}, false
	}
	return r.Routes[i], true
}

// Compute runs one full pass on s: rank, order, coordinate, route and
// diagnose. Ranks and positions are written into s.
//
// Invalid options return an INVALID_OPTIONS error. A failure to order or
// place nodes means an engine invariant broke and returns INTERNAL_ERROR.
func Compute(s *dag.Store, opts layout.Options, anchors route.AnchorMap) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidOptions, err, "layout options")
	}
	start := time.Now()

	transform.AssignRanks(s)
	groups := layout.BuildRankGroups(s, opts)
	if err := layout.Order(groups, transform.Ancestors(s)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "order rank groups")
	}
	bounds, err := layout.Coordinate(s, groups, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "assign coordinates")
	}
	routes := route.NewRouter(opts).Route(s, anchors)

	res := &Result{
		Options:   opts,
		Edges:     s.Edges(),
		Routes:    routes,
		Groups:    groups,
		Bounds:    bounds,
		BackEdges: transform.BackEdges(s),
	}
	for _, n := range s.Nodes() {
		c := *n
		c.Meta = maps.Clone(n.Meta)
		res.Nodes = append(res.Nodes, c)
	}
	res.Stats = Stats{
		NodeCount: s.NodeCount(),
		EdgeCount: s.EdgeCount(),
		RankCount: len(groups),
		Crossings: dag.CountCrossings(s, layout.Orders(groups)),
		Duration:  time.Since(start),
	}
	return res, nil
}

// Layout loads g into a fresh store and computes it.
func Layout(g graph.Graph, opts layout.Options) (*Result, error) {
	s, err := g.ToStore()
	if err != nil {
		return nil, err
	}
	return Compute(s, opts, g.AnchorMap())
}
