package graph

import (
	"fmt"
	"maps"

	"github.com/matzehuels/flowlayout/pkg/dag"
	"github.com/matzehuels/flowlayout/pkg/errors"
	"github.com/matzehuels/flowlayout/pkg/layout"
	"github.com/matzehuels/flowlayout/pkg/route"
)

// =============================================================================
// Graph - Layout Input
// =============================================================================

// Graph is the caller's view of a diagram: ordered nodes, directed edges and
// optional anchor overrides. Node order is significant: it seeds the order of
// every rank.
type Graph struct {
	Nodes   []Node   `json:"nodes"`
	Edges   []Edge   `json:"edges"`
	Anchors []Anchor `json:"anchors,omitempty"`
}

// Node is a diagram vertex with its last known size.
type Node struct {
	ID     string         `json:"id"`
	Width  float64        `json:"width,omitempty"`
	Height float64        `json:"height,omitempty"`
	Meta   map[string]any `json:"meta,omitempty"`
}

// Edge is a directed connection. LocalID distinguishes parallel edges between
// the same pair of nodes. Options are carried through untouched.
type Edge struct {
	From    string         `json:"from"`
	To      string         `json:"to"`
	LocalID string         `json:"local_id,omitempty"`
	Options map[string]any `json:"options,omitempty"`
}

// Anchor overrides where the edge with local ID Edge leaves Node. X and Y are
// an offset from the node's center.
type Anchor struct {
	Node string  `json:"node"`
	Edge string  `json:"edge"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Validate checks IDs and sizes without building a store.
func (g Graph) Validate() error {
	for i, n := range g.Nodes {
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "node %d", i)
		}
		if err := errors.ValidateSize(n.Width, n.Height); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "node %q", n.ID)
		}
	}
	for i, e := range g.Edges {
		if err := errors.ValidateNodeID(e.From); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "edge %d source", i)
		}
		if err := errors.ValidateNodeID(e.To); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "edge %d target", i)
		}
		if err := errors.ValidateLocalEdgeID(e.LocalID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "edge %d", i)
		}
	}
	for i, a := range g.Anchors {
		if err := errors.ValidateNodeID(a.Node); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "anchor %d", i)
		}
	}
	return nil
}

// ToStore validates g and loads it into a new store. Edges may reference
// nodes missing from the node list; the store creates placeholders for them.
func (g Graph) ToStore() (*dag.Store, error) {
	s := dag.New()
	if err := g.Populate(s, nil); err != nil {
		return nil, err
	}
	return s, nil
}

// Populate resets s and loads g into it. A size found in sizes replaces the
// node's declared size; placeholders created for edge endpoints take their
// size from sizes too.
func (g Graph) Populate(s *dag.Store, sizes map[string]layout.Size) error {
	if err := g.Validate(); err != nil {
		return err
	}
	s.Reset()
	for _, n := range g.Nodes {
		node := dag.Node{ID: n.ID, Width: n.Width, Height: n.Height, Meta: copyMeta(n.Meta)}
		if sz, ok := sizes[n.ID]; ok {
			node.Width, node.Height = sz.Width, sz.Height
		}
		if err := s.AddNode(node); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "add node %q", n.ID)
		}
	}
	for _, e := range g.Edges {
		edge := dag.Edge{From: e.From, To: e.To, LocalID: e.LocalID, Options: copyMeta(e.Options)}
		if err := s.AddEdge(edge); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "add edge %s", edgeName(e))
		}
	}
	for id, sz := range sizes {
		if n, ok := s.Node(id); ok && n.Placeholder {
			n.Width, n.Height = sz.Width, sz.Height
		}
	}
	return nil
}

// AnchorMap converts the anchor list for the router.
func (g Graph) AnchorMap() route.AnchorMap {
	m := make(route.AnchorMap, len(g.Anchors))
	for _, a := range g.Anchors {
		m.Set(a.Node, a.Edge, layout.Point{X: a.X, Y: a.Y})
	}
	return m
}

// NodeIDs returns the IDs of the listed nodes in order.
func (g Graph) NodeIDs() []string {
	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	return ids
}

func edgeName(e Edge) string {
	if e.LocalID == "" {
		return fmt.Sprintf("%s→%s", e.From, e.To)
	}
	return fmt.Sprintf("%s→%s (%s)", e.From, e.To, e.LocalID)
}

// copyMeta creates a shallow copy of metadata to avoid mutation.
func copyMeta(m map[string]any) dag.Metadata {
	if m == nil {
		return nil
	}
	return dag.Metadata(maps.Clone(m))
}
