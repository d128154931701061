package layout

import (
	"math"
	"testing"

	"github.com/matzehuels/flowlayout/pkg/dag"
)

func TestRectOf(t *testing.T) {
	r := RectOf(&dag.Node{ID: "n", X: 50, Y: 20, Width: 100, Height: 40})

	if r.Left != 0 || r.Right != 100 || r.Top != 0 || r.Bottom != 40 {
		t.Errorf("RectOf() = %+v, want 0..100 x 0..40", r)
	}
	if r.Width() != 100 || r.Height() != 40 {
		t.Errorf("size = %vx%v, want 100x40", r.Width(), r.Height())
	}
	if r.CenterX() != 50 || r.CenterY() != 20 {
		t.Errorf("center = (%v, %v), want (50, 20)", r.CenterX(), r.CenterY())
	}
}

func TestRectOverlaps(t *testing.T) {
	base := Rect{Left: 0, Right: 10, Top: 0, Bottom: 10}
	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"same", base, true},
		{"inside", Rect{Left: 2, Right: 8, Top: 2, Bottom: 8}, true},
		{"touching edge", Rect{Left: 10, Right: 20, Top: 0, Bottom: 10}, false},
		{"apart", Rect{Left: 30, Right: 40, Top: 0, Bottom: 10}, false},
		{"corner overlap", Rect{Left: 9, Right: 19, Top: 9, Bottom: 19}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Overlaps(tt.other); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBoundingBoxSize(t *testing.T) {
	b := BoundingBox{TopLeft: Point{X: 10, Y: 20}, BottomRight: Point{X: 110, Y: 70}}
	if b.Width() != 100 || b.Height() != 50 {
		t.Errorf("size = %vx%v, want 100x50", b.Width(), b.Height())
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr bool
	}{
		{"defaults", func(*Options) {}, false},
		{"horizontal compact", func(o *Options) { o.Direction, o.Alignment = LeftToRight, Compact }, false},
		{"unknown direction", func(o *Options) { o.Direction = "diagonal" }, true},
		{"empty alignment", func(o *Options) { o.Alignment = "" }, true},
		{"negative separation", func(o *Options) { o.NodeSeparation = -1 }, true},
		{"negative threshold", func(o *Options) { o.SizeThreshold = -0.5 }, true},
		{"NaN separation", func(o *Options) { o.NodeSeparation = math.NaN() }, true},
		{"infinite rank separation", func(o *Options) { o.RankSeparation = math.Inf(1) }, true},
		{"NaN orbit radius", func(o *Options) { o.OrbitRadius = math.NaN() }, true},
		{"NaN margin", func(o *Options) { o.Margin.Y = math.NaN() }, true},
		{"negative margin", func(o *Options) { o.Margin = Point{X: -10, Y: -5} }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultOptions()
			tt.mutate(&o)
			if err := o.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
