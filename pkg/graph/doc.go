// Package graph provides the JSON wire format for diagram inputs and
// computed layouts.
//
// The format is shared by files read by the CLI, bodies of the HTTP service
// and entries in the layout cache.
//
// # Core Types
//
//   - [Graph]: the caller's node list, edge list and anchor overrides
//   - [Layout]: positioned nodes, rank groups and routed edges
//
// # Graph Serialization
//
// Graphs use a simple node-link JSON format. Sizes are optional: nodes that
// have not been measured yet may omit them.
//
//	{
//	  "nodes": [{"id": "greet", "width": 120, "height": 40}, {"id": "ask"}],
//	  "edges": [{"from": "greet", "to": "ask", "local_id": "next"}],
//	  "anchors": [{"node": "greet", "edge": "next", "x": 30, "y": 20}]
//	}
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("flow.json")  // File → Graph
//	s, _ := g.ToStore()                       // Graph → dag.Store
//	anchors := g.AnchorMap()                  // Graph → route.AnchorMap
//
// # Layout Serialization
//
// Layouts are produced by the pipeline package and written with
// [WriteLayoutFile] or [MarshalLayout]. [ReadLayoutFile] reads them back for
// the DOT exporter.
//
// # Errors
//
// Decoding failures carry the INVALID_FORMAT code and structural problems
// (empty IDs, duplicate nodes or edges, negative sizes) carry INVALID_INPUT,
// both from pkg/errors.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
