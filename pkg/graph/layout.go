package graph

import (
	"github.com/matzehuels/flowlayout/pkg/layout"
)

// =============================================================================
// Layout - Computed Result
// =============================================================================

// Layout is the serialized result of one layout pass: everything a rendering
// layer needs to paint nodes and edges.
type Layout struct {
	Direction layout.Direction `json:"direction"`
	Alignment layout.Alignment `json:"alignment"`

	// Bounds is nil for an empty graph.
	Bounds *layout.BoundingBox `json:"bounds"`

	Nodes []PositionedNode `json:"nodes"`
	Ranks []Rank           `json:"ranks"`
	Edges []RoutedEdge     `json:"edges"`
	Stats Stats            `json:"stats"`
}

// PositionedNode is a node with its center position and rank.
type PositionedNode struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Rank   int     `json:"rank"`

	// Placeholder marks nodes created because an edge referenced an ID
	// missing from the node list.
	Placeholder bool           `json:"placeholder,omitempty"`
	Meta        map[string]any `json:"meta,omitempty"`
}

// Rank lists the nodes of one rank in display order.
type Rank struct {
	Rank    int      `json:"rank"`
	NodeIDs []string `json:"node_ids"`
}

// RoutedEdge is an edge with its computed geometry.
type RoutedEdge struct {
	From    string `json:"from"`
	To      string `json:"to"`
	LocalID string `json:"local_id,omitempty"`

	Anchor   layout.Point `json:"anchor"`
	Start    layout.Point `json:"start"`
	Control1 layout.Point `json:"control1"`
	Control2 layout.Point `json:"control2"`
	Receptor layout.Point `json:"receptor"`

	// Flipped is set when the curve loops back against the flex axis.
	Flipped bool `json:"flipped,omitempty"`
	// Back is set for edges that close a cycle.
	Back bool `json:"back,omitempty"`

	// Path is the SVG path data of the route.
	Path    string         `json:"path"`
	Options map[string]any `json:"options,omitempty"`
}

// Stats summarizes a layout pass.
type Stats struct {
	Nodes      int   `json:"nodes"`
	Edges      int   `json:"edges"`
	Ranks      int   `json:"ranks"`
	Crossings  int   `json:"crossings"`
	DurationUS int64 `json:"duration_us"`
}

// Node returns the positioned node with the given ID.
func (l Layout) Node(id string) (PositionedNode, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return PositionedNode{}, false
}
