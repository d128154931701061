package pipeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/flowlayout/pkg/dag"
	"github.com/matzehuels/flowlayout/pkg/errors"
	"github.com/matzehuels/flowlayout/pkg/graph"
	"github.com/matzehuels/flowlayout/pkg/layout"
)

func sized(ids ...string) []graph.Node {
	nodes := make([]graph.Node, len(ids))
	for i, id := range ids {
		nodes[i] = graph.Node{ID: id, Width: 100, Height: 40}
	}
	return nodes
}

func edges(pairs ...[2]string) []graph.Edge {
	out := make([]graph.Edge, len(pairs))
	for i, p := range pairs {
		out[i] = graph.Edge{From: p[0], To: p[1]}
	}
	return out
}

func diamond() graph.Graph {
	return graph.Graph{
		Nodes: sized("A", "B", "C", "D"),
		Edges: edges([2]string{"A", "B"}, [2]string{"A", "C"}, [2]string{"B", "D"}, [2]string{"C", "D"}),
	}
}

func ranksOf(r *Result) map[string]int {
	m := make(map[string]int, len(r.Nodes))
	for _, n := range r.Nodes {
		m[n.ID] = n.Rank
	}
	return m
}

func TestLayout_Diamond(t *testing.T) {
	res, err := Layout(diamond(), layout.DefaultOptions())
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}

	if diff := cmp.Diff(map[string]int{"A": 0, "B": 1, "C": 1, "D": 2}, ranksOf(res)); diff != "" {
		t.Errorf("ranks mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]string{{"A"}, {"B", "C"}, {"D"}}, layout.Orders(res.Groups)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}

	bd, _ := res.Route(dag.EdgeKey{From: "B", To: "D"})
	cd, _ := res.Route(dag.EdgeKey{From: "C", To: "D"})
	if bd.Receptor == cd.Receptor {
		t.Errorf("D receptors coincide at %+v", bd.Receptor)
	}
	if bd.Receptor.X >= cd.Receptor.X {
		t.Errorf("B->D receptor x=%v should be left of C->D receptor x=%v", bd.Receptor.X, cd.Receptor.X)
	}

	want := layout.BoundingBox{BottomRight: layout.Point{X: 240, Y: 240}}
	if res.Bounds == nil || *res.Bounds != want {
		t.Errorf("Bounds = %+v, want %+v", res.Bounds, want)
	}
	if res.Stats.Crossings != 0 || res.Stats.RankCount != 3 || res.Stats.NodeCount != 4 || res.Stats.EdgeCount != 4 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if len(res.BackEdges) != 0 {
		t.Errorf("BackEdges = %v, want none", res.BackEdges)
	}
}

func TestLayout_MutualCycle(t *testing.T) {
	g := graph.Graph{
		Nodes: sized("P", "A", "B"),
		Edges: edges([2]string{"P", "A"}, [2]string{"P", "B"}, [2]string{"A", "B"}, [2]string{"B", "A"}),
	}
	res, err := Layout(g, layout.DefaultOptions())
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	if diff := cmp.Diff(map[string]int{"P": 0, "A": 2, "B": 2}, ranksOf(res)); diff != "" {
		t.Errorf("ranks mismatch (-want +got):\n%s", diff)
	}
	if len(res.Groups) != 2 {
		t.Errorf("got %d rank groups, want 2 (rank 1 stays empty)", len(res.Groups))
	}
	if len(res.BackEdges) != 1 {
		t.Errorf("BackEdges = %v, want exactly one", res.BackEdges)
	}
}

func TestLayout_Empty(t *testing.T) {
	res, err := Layout(graph.Graph{}, layout.DefaultOptions())
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	if res.Bounds != nil {
		t.Errorf("Bounds = %+v, want nil", res.Bounds)
	}
	if len(res.Nodes) != 0 || len(res.Routes) != 0 {
		t.Errorf("got %d nodes and %d routes, want none", len(res.Nodes), len(res.Routes))
	}
}

func TestLayout_InvalidOptions(t *testing.T) {
	opts := layout.DefaultOptions()
	opts.Alignment = "centered"
	_, err := Layout(diamond(), opts)
	if !errors.Is(err, errors.ErrCodeInvalidOptions) {
		t.Errorf("Layout() error = %v, want INVALID_OPTIONS", err)
	}
}

func TestLayout_Deterministic(t *testing.T) {
	g := graph.Graph{
		Nodes: sized("r1", "r2", "x", "y", "z", "w"),
		Edges: edges(
			[2]string{"r2", "x"}, [2]string{"r1", "y"}, [2]string{"r1", "z"},
			[2]string{"x", "w"}, [2]string{"y", "w"}, [2]string{"z", "x"},
		),
	}
	first, err := Layout(g, layout.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	second, err := Layout(g, layout.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	first.Stats.Duration, second.Stats.Duration = 0, 0
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("rerun differs (-first +second):\n%s", diff)
	}
}

func TestLayout_AddingLeafKeepsSiblingOrder(t *testing.T) {
	base := graph.Graph{
		Nodes: sized("r1", "r2", "x", "y"),
		Edges: edges([2]string{"r2", "x"}, [2]string{"r1", "y"}),
	}
	before, err := Layout(base, layout.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"y", "x"}, before.Groups[1].NodeIDs); diff != "" {
		t.Fatalf("initial order mismatch (-want +got):\n%s", diff)
	}

	grown := base
	grown.Nodes = append(sized("r1", "r2", "x", "y"), graph.Node{ID: "leaf", Width: 100, Height: 40})
	grown.Edges = append(edges([2]string{"r2", "x"}, [2]string{"r1", "y"}), graph.Edge{From: "r1", To: "leaf"})
	after, err := Layout(grown, layout.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	order := after.Groups[1].NodeIDs
	pos := dag.PosMap(order)
	if pos["y"] > pos["x"] {
		t.Errorf("adding a leaf reordered siblings: %v", order)
	}
	if diff := cmp.Diff([]string{"y", "leaf", "x"}, order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestExport(t *testing.T) {
	g := diamond()
	g.Edges[0].LocalID = "left"
	g.Edges[0].Options = map[string]any{"label": "go left"}
	res, err := Layout(g, layout.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	out := Export(res)
	if out.Direction != layout.TopToBottom || out.Alignment != layout.Symmetric {
		t.Errorf("direction/alignment = %s/%s", out.Direction, out.Alignment)
	}
	if len(out.Nodes) != 4 || len(out.Edges) != 4 || len(out.Ranks) != 3 {
		t.Fatalf("got %d nodes, %d edges, %d ranks", len(out.Nodes), len(out.Edges), len(out.Ranks))
	}
	a, ok := out.Node("A")
	if !ok || a.X != 120 || a.Y != 20 || a.Rank != 0 {
		t.Errorf("A = %+v", a)
	}
	e := out.Edges[0]
	if e.LocalID != "left" || e.Options["label"] != "go left" {
		t.Errorf("edge 0 = %+v", e)
	}
	if e.Path == "" || e.Path[0] != 'M' {
		t.Errorf("edge 0 path = %q", e.Path)
	}
	if out.Bounds == res.Bounds {
		t.Error("Export should copy the bounding box")
	}
}
