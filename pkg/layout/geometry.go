package layout

import "github.com/matzehuels/flowlayout/pkg/dag"

// Point is a 2D coordinate in layout units (pixels).
type Point struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Size is a node's measured width and height.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// BoundingBox encloses every positioned node.
type BoundingBox struct {
	TopLeft     Point `json:"top_left"`
	BottomRight Point `json:"bottom_right"`
}

// Width returns the horizontal span of the box.
func (b BoundingBox) Width() float64 { return b.BottomRight.X - b.TopLeft.X }

// Height returns the vertical span of the box.
func (b BoundingBox) Height() float64 { return b.BottomRight.Y - b.TopLeft.Y }

// Rect is the rectangle a positioned node occupies.
type Rect struct {
	NodeID      string
	Left, Right float64
	Top, Bottom float64
}

// RectOf returns the rectangle occupied by n around its center.
func RectOf(n *dag.Node) Rect {
	return Rect{NodeID: n.ID, Left: n.Left(), Right: n.Right(), Top: n.Top(), Bottom: n.Bottom()}
}

// Width returns the horizontal span of the rectangle.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns the vertical span of the rectangle.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// CenterX returns the horizontal center point of the rectangle.
func (r Rect) CenterX() float64 { return (r.Left + r.Right) / 2 }

// CenterY returns the vertical center point of the rectangle.
func (r Rect) CenterY() float64 { return (r.Top + r.Bottom) / 2 }

// Overlaps reports whether the interiors of r and o intersect. Rectangles
// that only touch along an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.Left < o.Right && o.Left < r.Right && r.Top < o.Bottom && o.Top < r.Bottom
}

// axis projects nodes onto the flex and align axes of a direction.
type axis struct{ vertical bool }

func axisOf(d Direction) axis { return axis{vertical: d.Vertical()} }

func (a axis) flexExtent(n *dag.Node) float64 {
	if a.vertical {
		return n.Height
	}
	return n.Width
}

func (a axis) alignExtent(n *dag.Node) float64 {
	if a.vertical {
		return n.Width
	}
	return n.Height
}

func (a axis) alignPos(n *dag.Node) float64 {
	if a.vertical {
		return n.X
	}
	return n.Y
}

func (a axis) setAlign(n *dag.Node, v float64) {
	if a.vertical {
		n.X = v
	} else {
		n.Y = v
	}
}

func (a axis) place(n *dag.Node, flex, align float64) {
	if a.vertical {
		n.X, n.Y = align, flex
	} else {
		n.X, n.Y = flex, align
	}
}
