// Package dag provides the mutable node and edge registry that a hierarchical
// diagram layout pass operates on.
//
// # Overview
//
// A [Store] holds variably-sized nodes and directed, named multi-edges. Despite
// the package name the graph may be cyclic: bot flows loop back to earlier
// steps, and self-loops are legal. Cycles are resolved by the ranking pass in
// package transform, not rejected here.
//
// # Basic Usage
//
//	s := dag.New()
//	s.AddNode(dag.Node{ID: "greet", Width: 120, Height: 40})
//	s.AddNode(dag.Node{ID: "ask", Width: 160, Height: 60})
//	s.AddEdge(dag.Edge{From: "greet", To: "ask", LocalID: "next"})
//
// An edge may name nodes that have not been added yet. The store creates
// zero-size placeholders for them, and a later [Store.AddNode] with the same ID
// upgrades the placeholder in place.
//
// # Edge Identity
//
// The triple (From, To, LocalID) is an edge's global identity ([EdgeKey]).
// LocalID distinguishes parallel edges between the same ordered pair, for
// example the "yes" and "no" branches of a condition that both lead to the
// same step.
//
// # Insertion Order
//
// Nodes keep the order in which they were added. Ranking and crossing
// reduction start from that order, which makes every layout deterministic for
// a given input.
//
// # Edge Crossings
//
// [CountCrossings] and [CountLayerCrossings] count crossings between
// consecutive ranks with a Fenwick tree. The layout pipeline reports the count
// as a diagnostic.
//
// # Concurrency
//
// Store is not safe for concurrent use. The relayout driver owns its store
// exclusively for the duration of a pass.
package dag
