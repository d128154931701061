// Package layout orders ranked nodes and assigns them coordinates.
//
// # Pipeline Position
//
// Layout runs after ranking (package transform):
//
//  1. [BuildRankGroups] groups nodes by rank and measures each group
//  2. [Order] sorts each group to reduce crossings and keep orderings stable
//  3. [Coordinate] assigns centers and returns the [BoundingBox]
//
// # Axes
//
// The flex axis is the direction in which ranks advance ([TopToBottom] is y,
// [LeftToRight] is x). The align axis is orthogonal to it; siblings in a rank
// are distributed along it. All computations are written against these two
// axes, so both directions share one implementation.
//
// # Ordering Stability
//
// [Order] never looks at coordinates. Two nodes are compared by the median
// position of their ancestors in the nearest earlier rank where both have one.
// Because that comparison depends only on ancestry and the already settled
// earlier ranks, an edit that does not change a node's ancestry does not move
// it relative to its siblings.
//
// # Alignment
//
// [Compact] alignment packs every rank against the origin. [Symmetric]
// alignment then centers nodes under (or over) their relatives without
// exceeding the widest rank, so the bounding box is the same for both styles.
package layout
