package layout

import (
	"fmt"
	"math"
)

// Direction selects the flex axis, the axis along which ranks advance.
type Direction string

const (
	// TopToBottom stacks ranks vertically; siblings spread horizontally.
	TopToBottom Direction = "top-to-bottom"
	// LeftToRight stacks ranks horizontally; siblings spread vertically.
	LeftToRight Direction = "left-to-right"
)

// Vertical reports whether ranks advance along the y axis.
func (d Direction) Vertical() bool { return d != LeftToRight }

// Alignment selects the coordinate assignment style.
type Alignment string

const (
	// Compact packs every rank against the leading edge of the align axis.
	Compact Alignment = "compact"
	// Symmetric packs, then shifts nodes toward the midpoint of their
	// relatives in the adjacent rank.
	Symmetric Alignment = "symmetric"
)

// Default option values.
const (
	DefaultNodeSeparation   = 40.0
	DefaultRankSeparation   = 60.0
	DefaultSizeThreshold    = 2.0
	DefaultOrbitRadius      = 24.0
	DefaultAttachmentLength = 10.0
	DefaultMinCurveOffset   = 40.0
)

// Options configures a layout pass, edge routing and the relayout driver.
// The zero value is not valid; start from [DefaultOptions].
type Options struct {
	Direction Direction `json:"direction" toml:"direction"`
	Alignment Alignment `json:"alignment" toml:"alignment"`

	// Margin offsets every node (and therefore the bounding box) from the
	// origin.
	Margin Point `json:"margin" toml:"margin"`

	// NodeSeparation is the gap between siblings along the align axis.
	NodeSeparation float64 `json:"node_separation" toml:"node_separation"`
	// RankSeparation is the gap between ranks along the flex axis.
	RankSeparation float64 `json:"rank_separation" toml:"rank_separation"`

	// SizeThreshold is the smallest change, in pixels along either
	// dimension, that a size report must carry to trigger a relayout.
	SizeThreshold float64 `json:"size_threshold" toml:"size_threshold"`

	// OrbitRadius is the radius of the circle on which receptors of
	// multi-input nodes are distributed.
	OrbitRadius float64 `json:"orbit_radius" toml:"orbit_radius"`
	// AttachmentLength is the straight segment drawn from the anchor before
	// the curve starts.
	AttachmentLength float64 `json:"attachment_length" toml:"attachment_length"`
	// MinCurveOffset is the smallest control point offset used for edges
	// whose target sits behind their source.
	MinCurveOffset float64 `json:"min_curve_offset" toml:"min_curve_offset"`
}

// DefaultOptions returns the default layout options: top-to-bottom, symmetric.
func DefaultOptions() Options {
	return Options{
		Direction:        TopToBottom,
		Alignment:        Symmetric,
		NodeSeparation:   DefaultNodeSeparation,
		RankSeparation:   DefaultRankSeparation,
		SizeThreshold:    DefaultSizeThreshold,
		OrbitRadius:      DefaultOrbitRadius,
		AttachmentLength: DefaultAttachmentLength,
		MinCurveOffset:   DefaultMinCurveOffset,
	}
}

// Validate checks enum values, rejects negative or non-finite distances and
// requires a finite margin.
func (o Options) Validate() error {
	switch o.Direction {
	case TopToBottom, LeftToRight:
	default:
		return fmt.Errorf("unknown direction %q", o.Direction)
	}
	switch o.Alignment {
	case Compact, Symmetric:
	default:
		return fmt.Errorf("unknown alignment %q", o.Alignment)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"node_separation", o.NodeSeparation},
		{"rank_separation", o.RankSeparation},
		{"size_threshold", o.SizeThreshold},
		{"orbit_radius", o.OrbitRadius},
		{"attachment_length", o.AttachmentLength},
		{"min_curve_offset", o.MinCurveOffset},
	} {
		if !(f.v >= 0) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%s must be a finite non-negative number, got %v", f.name, f.v)
		}
	}
	for _, v := range []float64{o.Margin.X, o.Margin.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("margin must be finite, got %v", o.Margin)
		}
	}
	return nil
}
