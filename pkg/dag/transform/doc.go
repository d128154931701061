// Package transform derives layering information from a [dag.Store].
//
// # Ranking
//
// [AssignRanks] gives every node an integer rank (hierarchy level). Source
// nodes (no incoming edges) sit at rank 0 and every other node is pushed as
// deep as the longest cycle-free path that reaches it:
//
//	greet (0) → ask (1) → confirm (2)
//	greet (0) ──────────→ confirm (2)
//
// The walk keeps a path-local visited set, so a loop such as ask → retry → ask
// terminates without hiding ask from walks that enter it through another
// lane. When a graph (or one of its components) has no source at all, the
// first unranked node in insertion order is promoted to a root. Ranks are
// never compacted: an empty level stays empty.
//
// # Ancestors
//
// [Ancestors] computes, for every node, the set of nodes in strictly earlier
// ranks that can reach it. The crossing-reduction pass compares nodes by the
// positions of their ancestors.
//
// # Back Edges
//
// [BackEdges] classifies the edges that close a cycle during a depth-first
// walk from the sources. They are reported to callers as a diagnostic; the
// layout itself never removes edges. [CyclicNodes] lists the nodes that sit
// on a cycle; the ranking walk uses it to skip revisits that cannot raise a
// rank.
package transform
