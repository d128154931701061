// Package pipeline runs the layout engine end to end.
//
// # Architecture
//
// One layout pass consists of five stages, always run in this order on the
// latest node and edge lists:
//
//  1. Rank: assign every node a rank (pkg/dag/transform)
//  2. Order: sort each rank by ancestor medians (pkg/layout)
//  3. Coordinate: place nodes and compute the bounding box (pkg/layout)
//  4. Route: compute anchors, receptors and curves (pkg/route)
//  5. Diagnose: count crossings and classify back edges
//
// [Compute] runs a single pass on a store. It is pure apart from writing
// ranks and positions into that store.
//
// # Relayout
//
// A [Driver] owns one diagram. It reruns the pass when the graph changes or
// when a node reports a rendered size that differs from the assumed one by
// more than [layout.Options.SizeThreshold]. Passes are serialized: triggers
// that arrive while a pass runs wait for it and then lay out the latest
// graph with the latest sizes.
//
//	d, _ := pipeline.NewDriver(layout.DefaultOptions(), logger)
//	res, _, _ := d.SetGraph(ctx, g)                     // first pass, zero sizes
//	res, _, _ = d.ReportNodeSize(ctx, "greet", size)    // relayout once measured
//
// # Caching
//
// A [Runner] memoizes one-shot layouts in a cache keyed by the graph's
// content hash and the options. The CLI and the stateless HTTP endpoint use
// it.
package pipeline
