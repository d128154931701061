package route

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/matzehuels/flowlayout/pkg/dag"
	"github.com/matzehuels/flowlayout/pkg/layout"
)

// AnchorMap overrides default anchors. It maps a source node ID and an edge's
// local ID to an offset from the source node's center. Callers keep the map
// across layout passes; it is never modified by the router.
type AnchorMap map[string]map[string]layout.Point

// Set records an anchor offset for the edge with the given local ID leaving
// nodeID.
func (m AnchorMap) Set(nodeID, localID string, offset layout.Point) {
	if m[nodeID] == nil {
		m[nodeID] = make(map[string]layout.Point)
	}
	m[nodeID][localID] = offset
}

// Lookup returns the anchor offset recorded for an edge, if any.
func (m AnchorMap) Lookup(nodeID, localID string) (layout.Point, bool) {
	p, ok := m[nodeID][localID]
	return p, ok
}

// Route is the geometry of one edge: a straight segment from Anchor to Start
// followed by a cubic Bézier from Start to Receptor.
type Route struct {
	Edge     dag.EdgeKey  `json:"edge"`
	Anchor   layout.Point `json:"anchor"`
	Start    layout.Point `json:"start"`
	Control1 layout.Point `json:"control1"`
	Control2 layout.Point `json:"control2"`
	Receptor layout.Point `json:"receptor"`

	// Flipped is set when the receptor lies behind the curve start along
	// the flex axis.
	Flipped bool `json:"flipped"`
}

// Path returns the route as SVG path data. The line segment is omitted when
// the attachment length is zero.
func (r Route) Path() string {
	var b strings.Builder
	fmt.Fprintf(&b, "M %.1f %.1f", r.Anchor.X, r.Anchor.Y)
	if r.Start != r.Anchor {
		fmt.Fprintf(&b, " L %.1f %.1f", r.Start.X, r.Start.Y)
	}
	fmt.Fprintf(&b, " C %.1f %.1f, %.1f %.1f, %.1f %.1f",
		r.Control1.X, r.Control1.Y,
		r.Control2.X, r.Control2.Y,
		r.Receptor.X, r.Receptor.Y)
	return b.String()
}

// Router computes anchors, receptors and curves for one layout direction.
type Router struct {
	opts     layout.Options
	vertical bool
}

// NewRouter creates a Router using the direction and edge geometry settings
// in opts.
func NewRouter(opts layout.Options) *Router {
	return &Router{opts: opts, vertical: opts.Direction.Vertical()}
}

// Anchor returns the point where the edge with the given local ID leaves n.
func (r *Router) Anchor(n *dag.Node, localID string, anchors AnchorMap) layout.Point {
	if off, ok := anchors.Lookup(n.ID, localID); ok {
		return layout.Point{X: n.X, Y: n.Y}.Add(off)
	}
	if r.vertical {
		return layout.Point{X: n.X, Y: n.Bottom()}
	}
	return layout.Point{X: n.Right(), Y: n.Y}
}

// Attractor returns the center of n's leading side, where a lone incoming
// edge ends.
func (r *Router) Attractor(n *dag.Node) layout.Point {
	if r.vertical {
		return layout.Point{X: n.X, Y: n.Top()}
	}
	return layout.Point{X: n.Left(), Y: n.Y}
}

// Receptors assigns an end point to every incoming edge of target, given the
// anchor of each edge. With fewer than two edges the receptor is the
// attractor. Otherwise the edges are sorted by anchor (x ascending for
// vertical layouts, y descending for horizontal ones; ties keep edge order)
// and spread over a half circle around the attractor.
func (r *Router) Receptors(target *dag.Node, incoming []dag.Edge, anchors map[dag.EdgeKey]layout.Point) map[dag.EdgeKey]layout.Point {
	center := r.Attractor(target)
	out := make(map[dag.EdgeKey]layout.Point, len(incoming))
	if len(incoming) < 2 {
		for _, e := range incoming {
			out[e.Key()] = center
		}
		return out
	}

	sorted := slices.Clone(incoming)
	slices.SortStableFunc(sorted, func(a, b dag.Edge) int {
		pa, pb := anchors[a.Key()], anchors[b.Key()]
		if r.vertical {
			return cmp.Compare(pa.X, pb.X)
		}
		return cmp.Compare(pb.Y, pa.Y)
	})

	n := float64(len(sorted))
	for i, e := range sorted {
		theta := math.Pi - float64(i+1)*math.Pi/(n+1)
		if !r.vertical {
			theta += math.Pi / 2
		}
		out[e.Key()] = layout.Point{
			X: center.X + r.opts.OrbitRadius*math.Cos(theta),
			Y: center.Y - r.opts.OrbitRadius*math.Sin(theta),
		}
	}
	return out
}

// Curve computes the curve from an anchor to a receptor. It returns the end
// of the attachment segment, both control points and whether the edge is
// flipped.
func (r *Router) Curve(anchor, receptor layout.Point) (start, c1, c2 layout.Point, flipped bool) {
	startFlex, startAlign := r.split(anchor)
	startFlex += r.opts.AttachmentLength
	endFlex, endAlign := r.split(receptor)

	d := endFlex - startFlex
	offset := d / 2
	if d < 0 {
		flipped = true
		offset = max(-d/2, r.opts.MinCurveOffset)
	}

	c1Align, c2Align := startAlign, endAlign
	if flipped && math.Abs(endAlign-startAlign) < r.opts.MinCurveOffset {
		c1Align += r.opts.MinCurveOffset
		c2Align += r.opts.MinCurveOffset
	}

	start = r.join(startFlex, startAlign)
	c1 = r.join(startFlex+offset, c1Align)
	c2 = r.join(endFlex-offset, c2Align)
	return start, c1, c2, flipped
}

// Route computes a route for every edge in s, in edge insertion order. Node
// positions must already be assigned.
func (r *Router) Route(s *dag.Store, anchors AnchorMap) []Route {
	edges := s.Edges()
	anchorPts := make(map[dag.EdgeKey]layout.Point, len(edges))
	for _, e := range edges {
		src, _ := s.Node(e.From)
		anchorPts[e.Key()] = r.Anchor(src, e.LocalID, anchors)
	}

	incoming := make(map[string][]dag.Edge, s.NodeCount())
	for _, e := range edges {
		incoming[e.To] = append(incoming[e.To], e)
	}

	receptors := make(map[dag.EdgeKey]layout.Point, len(edges))
	for _, n := range s.Nodes() {
		for k, p := range r.Receptors(n, incoming[n.ID], anchorPts) {
			receptors[k] = p
		}
	}

	routes := make([]Route, 0, len(edges))
	for _, e := range edges {
		k := e.Key()
		rt := Route{Edge: k, Anchor: anchorPts[k], Receptor: receptors[k]}
		rt.Start, rt.Control1, rt.Control2, rt.Flipped = r.Curve(rt.Anchor, rt.Receptor)
		routes = append(routes, rt)
	}
	return routes
}

func (r *Router) split(p layout.Point) (flex, align float64) {
	if r.vertical {
		return p.Y, p.X
	}
	return p.X, p.Y
}

func (r *Router) join(flex, align float64) layout.Point {
	if r.vertical {
		return layout.Point{X: align, Y: flex}
	}
	return layout.Point{X: flex, Y: align}
}
