// Package pkg holds the libraries behind flowlayout, a hierarchical layout
// and edge-routing engine for directed flow diagrams.
//
// # Overview
//
// A diagram is a set of variably sized nodes joined by directed, named
// multi-edges. Cycles and self-loops are legal. The engine assigns every node
// a rank, orders each rank to keep crossings low and layouts stable across
// edits, places nodes and computes a Bezier route for every edge.
//
//  1. [dag] - the node and edge store plus crossing counts
//  2. [dag/transform] - ranking, ancestor sets and back edges
//  3. [layout] - rank groups, ordering and coordinates
//  4. [route] - anchors, orbiting receptors and curves
//  5. [pipeline] - one-shot layouts, caching and the relayout driver
//  6. [graph] - JSON wire types for graphs and layouts
//
// Supporting packages: [cache], [config], [errors], [export] and
// [observability].
//
// # Data Flow
//
//	graph.Graph (nodes, edges, anchors)
//	         ↓
//	    [dag] Store
//	         ↓
//	    [dag/transform] AssignRanks, Ancestors
//	         ↓
//	    [layout] BuildRankGroups → Order → Coordinate
//	         ↓
//	    [route] Router.Route
//	         ↓
//	    graph.Layout (positions, bounds, routes)
//
// # Quick Start
//
//	g, _ := graph.ReadGraphFile("flow.json")
//	res, err := pipeline.Layout(g, layout.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	graph.WriteLayoutFile(pipeline.Export(res), "flow.layout.json")
//
// A renderer that measures nodes after mounting them drives a
// [pipeline.Driver] instead: SetGraph on every edit, ReportNodeSize whenever
// a measured size arrives.
package pkg
