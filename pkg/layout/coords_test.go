package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/flowlayout/pkg/dag"
	"github.com/matzehuels/flowlayout/pkg/dag/transform"
)

// diamond builds A->B, A->C, B->D, C->D with 100x40 nodes, ranked and ordered.
func diamond(t *testing.T, opts Options) (*dag.Store, []RankGroup) {
	t.Helper()
	s := dag.New()
	for _, id := range []string{"A", "B", "C", "D"} {
		if err := s.AddNode(dag.Node{ID: id, Width: 100, Height: 40}); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range [][2]string{{"A", "B"}, {"A", "C"}, {"B", "D"}, {"C", "D"}} {
		if err := s.AddEdge(dag.Edge{From: e[0], To: e[1]}); err != nil {
			t.Fatal(err)
		}
	}
	transform.AssignRanks(s)
	groups := BuildRankGroups(s, opts)
	if err := Order(groups, transform.Ancestors(s)); err != nil {
		t.Fatal(err)
	}
	return s, groups
}

func centers(s *dag.Store) map[string]Point {
	m := make(map[string]Point)
	for _, n := range s.Nodes() {
		m[n.ID] = Point{X: n.X, Y: n.Y}
	}
	return m
}

func TestBuildRankGroups(t *testing.T) {
	_, groups := diamond(t, DefaultOptions())

	want := []RankGroup{
		{Rank: 0, NodeIDs: []string{"A"}, FlexSpan: 40, AlignSpan: 100},
		{Rank: 1, NodeIDs: []string{"B", "C"}, FlexSpan: 40, AlignSpan: 240},
		{Rank: 2, NodeIDs: []string{"D"}, FlexSpan: 40, AlignSpan: 100},
	}
	if diff := cmp.Diff(want, groups); diff != "" {
		t.Errorf("BuildRankGroups() mismatch (-want +got):\n%s", diff)
	}
}

func TestCoordinate(t *testing.T) {
	tests := []struct {
		name      string
		direction Direction
		alignment Alignment
		want      map[string]Point
		wantBox   BoundingBox
	}{
		{
			name:      "vertical compact",
			direction: TopToBottom,
			alignment: Compact,
			want: map[string]Point{
				"A": {50, 20}, "B": {50, 120}, "C": {190, 120}, "D": {50, 220},
			},
			wantBox: BoundingBox{TopLeft: Point{0, 0}, BottomRight: Point{240, 240}},
		},
		{
			name:      "vertical symmetric",
			direction: TopToBottom,
			alignment: Symmetric,
			want: map[string]Point{
				"A": {120, 20}, "B": {50, 120}, "C": {190, 120}, "D": {120, 220},
			},
			wantBox: BoundingBox{TopLeft: Point{0, 0}, BottomRight: Point{240, 240}},
		},
		{
			name:      "horizontal compact",
			direction: LeftToRight,
			alignment: Compact,
			want: map[string]Point{
				"A": {50, 20}, "B": {210, 20}, "C": {210, 100}, "D": {370, 20},
			},
			wantBox: BoundingBox{TopLeft: Point{0, 0}, BottomRight: Point{420, 120}},
		},
		{
			name:      "horizontal symmetric",
			direction: LeftToRight,
			alignment: Symmetric,
			want: map[string]Point{
				"A": {50, 60}, "B": {210, 20}, "C": {210, 100}, "D": {370, 60},
			},
			wantBox: BoundingBox{TopLeft: Point{0, 0}, BottomRight: Point{420, 120}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Direction = tt.direction
			opts.Alignment = tt.alignment
			s, groups := diamond(t, opts)

			box, err := Coordinate(s, groups, opts)
			if err != nil {
				t.Fatalf("Coordinate() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, centers(s)); diff != "" {
				t.Errorf("positions mismatch (-want +got):\n%s", diff)
			}
			if box == nil {
				t.Fatal("Coordinate() returned nil bounding box")
			}
			if diff := cmp.Diff(tt.wantBox, *box); diff != "" {
				t.Errorf("bounding box mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCoordinate_Margin(t *testing.T) {
	opts := DefaultOptions()
	opts.Margin = Point{X: 15, Y: 25}
	s, groups := diamond(t, opts)

	box, err := Coordinate(s, groups, opts)
	if err != nil {
		t.Fatal(err)
	}
	if a, _ := s.Node("A"); a.X != 135 || a.Y != 45 {
		t.Errorf("A = (%v, %v), want (135, 45)", a.X, a.Y)
	}
	want := BoundingBox{TopLeft: Point{15, 25}, BottomRight: Point{255, 265}}
	if diff := cmp.Diff(want, *box); diff != "" {
		t.Errorf("bounding box mismatch (-want +got):\n%s", diff)
	}
}

func TestCoordinate_Empty(t *testing.T) {
	box, err := Coordinate(dag.New(), nil, DefaultOptions())
	if err != nil {
		t.Fatalf("Coordinate() error = %v", err)
	}
	if box != nil {
		t.Errorf("Coordinate() box = %+v, want nil", *box)
	}
}

func TestCoordinate_UnknownNode(t *testing.T) {
	groups := []RankGroup{{Rank: 0, NodeIDs: []string{"ghost"}}}
	if _, err := Coordinate(dag.New(), groups, DefaultOptions()); err == nil {
		t.Error("Coordinate() with unknown node succeeded, want error")
	}
}

// wideTree has a wide middle rank, parentless siblings and a long edge, which
// exercises every branch of the symmetric pass.
func wideTree(t *testing.T) *dag.Store {
	t.Helper()
	s := dag.New()
	sizes := map[string][2]float64{
		"root": {80, 30}, "a": {120, 50}, "b": {60, 30}, "c": {200, 40},
		"a1": {50, 50}, "a2": {90, 20}, "c1": {140, 60}, "solo": {70, 30},
	}
	for _, id := range []string{"root", "a", "b", "c", "a1", "a2", "c1", "solo"} {
		sz := sizes[id]
		if err := s.AddNode(dag.Node{ID: id, Width: sz[0], Height: sz[1]}); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range [][2]string{
		{"root", "a"}, {"root", "b"}, {"root", "c"},
		{"a", "a1"}, {"a", "a2"}, {"c", "c1"}, {"root", "c1"},
	} {
		if err := s.AddEdge(dag.Edge{From: e[0], To: e[1]}); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func layoutWith(t *testing.T, s *dag.Store, opts Options) []RankGroup {
	t.Helper()
	transform.AssignRanks(s)
	groups := BuildRankGroups(s, opts)
	if err := Order(groups, transform.Ancestors(s)); err != nil {
		t.Fatal(err)
	}
	if _, err := Coordinate(s, groups, opts); err != nil {
		t.Fatal(err)
	}
	return groups
}

func TestCoordinate_NoOverlap(t *testing.T) {
	for _, dir := range []Direction{TopToBottom, LeftToRight} {
		for _, style := range []Alignment{Compact, Symmetric} {
			t.Run(string(dir)+"/"+string(style), func(t *testing.T) {
				opts := DefaultOptions()
				opts.Direction, opts.Alignment = dir, style
				s := wideTree(t)
				groups := layoutWith(t, s, opts)

				for _, g := range groups {
					for i := 0; i < len(g.NodeIDs); i++ {
						for j := i + 1; j < len(g.NodeIDs); j++ {
							a, _ := s.Node(g.NodeIDs[i])
							b, _ := s.Node(g.NodeIDs[j])
							if RectOf(a).Overlaps(RectOf(b)) {
								t.Errorf("rank %d: %s overlaps %s", g.Rank, a.ID, b.ID)
							}
						}
					}
				}
			})
		}
	}
}

func TestCoordinate_SymmetricStaysWithinCompactExtent(t *testing.T) {
	for _, dir := range []Direction{TopToBottom, LeftToRight} {
		t.Run(string(dir), func(t *testing.T) {
			compact := DefaultOptions()
			compact.Direction, compact.Alignment = dir, Compact
			cs := wideTree(t)
			layoutWith(t, cs, compact)

			symmetric := compact
			symmetric.Alignment = Symmetric
			ss := wideTree(t)
			groups := layoutWith(t, ss, symmetric)

			widest := 0.0
			for _, g := range groups {
				widest = max(widest, g.AlignSpan)
			}
			ax := axisOf(dir)
			for _, n := range ss.Nodes() {
				c, _ := cs.Node(n.ID)
				if ax.alignPos(n) < ax.alignPos(c) {
					t.Errorf("%s moved toward the origin: %v < %v", n.ID, ax.alignPos(n), ax.alignPos(c))
				}
				if far := ax.alignPos(n) + ax.alignExtent(n)/2; far > widest+1e-9 {
					t.Errorf("%s extends to %v, beyond widest rank %v", n.ID, far, widest)
				}
			}
		})
	}
}

func TestCoordinate_Deterministic(t *testing.T) {
	opts := DefaultOptions()
	first := wideTree(t)
	layoutWith(t, first, opts)
	second := wideTree(t)
	layoutWith(t, second, opts)

	if diff := cmp.Diff(centers(first), centers(second)); diff != "" {
		t.Errorf("repeated layout differs (-first +second):\n%s", diff)
	}
}
