// Package export converts computed layouts to Graphviz DOT and renders
// debug previews.
//
// The DOT produced by [ToDOT] pins every node at its computed center, so a
// Graphviz engine that honors pinned positions (neato) reproduces the
// flowlayout placement instead of computing its own. Edge curves are left to
// Graphviz; the preview is for checking node placement, ranks and back edges,
// not for final rendering.
//
// # Usage
//
//	l, _ := graph.ReadLayoutFile("layout.json")
//	dot := export.ToDOT(l, export.Options{Detailed: true})
//	svg, err := export.RenderSVG(ctx, dot)
//
// Coordinates are converted from pixels to Graphviz inches at 72 points per
// inch, and the y axis is flipped because Graphviz grows upward.
package export
