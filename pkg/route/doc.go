// Package route computes edge geometry for a positioned diagram.
//
// Every edge leaves its source at an anchor and arrives at its target at a
// receptor. The default anchor sits on the trailing side of the source node
// (bottom-center for top-to-bottom layouts, right-center for left-to-right
// ones); an [AnchorMap] lets node content move individual ports. The default
// receptor is the target's attractor, the center of its leading side.
//
// # Orbiting Receptors
//
// When a node has two or more incoming edges, the receptors are spread over a
// half circle of radius [layout.Options.OrbitRadius] around the attractor,
// ordered like the anchors they connect to, so converging edges never share an
// end point and do not cross on arrival.
//
// # Curves
//
// Each route is a short straight attachment segment followed by a cubic
// Bézier curve. Control points are offset along the flex axis by half the
// flex distance. An edge whose target lies behind its source (a back edge or
// a self-loop) is flipped: its control points get at least
// [layout.Options.MinCurveOffset] of offset, and when both ends are nearly
// aligned they also shift sideways so the curve visibly loops.
//
// [Route.Path] renders the geometry as SVG path data.
package route
