package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/flowlayout/pkg/graph"
	"github.com/matzehuels/flowlayout/pkg/layout"
)

func browseLayout() graph.Layout {
	return graph.Layout{
		Direction: layout.TopToBottom,
		Alignment: layout.Symmetric,
		Nodes: []graph.PositionedNode{
			{ID: "D", X: 120, Y: 220, Width: 100, Height: 40, Rank: 2},
			{ID: "C", X: 190, Y: 120, Width: 100, Height: 40, Rank: 1},
			{ID: "B", X: 50, Y: 120, Width: 100, Height: 40, Rank: 1},
			{ID: "A", X: 120, Y: 20, Width: 100, Height: 40, Rank: 0},
		},
		Ranks: []graph.Rank{
			{Rank: 0, NodeIDs: []string{"A"}},
			{Rank: 1, NodeIDs: []string{"B", "C"}},
			{Rank: 2, NodeIDs: []string{"D"}},
		},
		Edges: []graph.RoutedEdge{
			{From: "A", To: "B"},
			{From: "A", To: "C", LocalID: "no"},
			{From: "B", To: "D"},
			{From: "C", To: "D"},
			{From: "D", To: "A", Back: true},
		},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m NodeListModel, keys ...string) NodeListModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(NodeListModel)
	}
	return m
}

func TestNewNodeListModel_RankOrder(t *testing.T) {
	m := NewNodeListModel(browseLayout())
	var ids []string
	for _, n := range m.Nodes {
		ids = append(ids, n.ID)
	}
	if got := strings.Join(ids, ","); got != "A,B,C,D" {
		t.Errorf("node order = %s, want A,B,C,D", got)
	}
}

func TestNodeListModel_Navigation(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want string
	}{
		{"start", nil, "A"},
		{"down", []string{"down"}, "B"},
		{"vim down", []string{"j", "j"}, "C"},
		{"clamped at end", []string{"down", "down", "down", "down", "down"}, "D"},
		{"clamped at start", []string{"up", "k"}, "A"},
		{"last", []string{"G"}, "D"},
		{"first", []string{"G", "g"}, "A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(NewNodeListModel(browseLayout()), tt.keys...)
			n, ok := m.Selected()
			if !ok || n.ID != tt.want {
				t.Errorf("selected = %q, want %q", n.ID, tt.want)
			}
		})
	}
}

func TestNodeListModel_ScrollsWithCursor(t *testing.T) {
	m := NewNodeListModel(browseLayout())
	m.Height = 2
	m = press(m, "down", "down", "down")
	if m.Offset != 2 {
		t.Errorf("offset = %d, want 2", m.Offset)
	}
	m = press(m, "g")
	if m.Offset != 0 {
		t.Errorf("offset after g = %d, want 0", m.Offset)
	}
}

func TestNodeListModel_Quit(t *testing.T) {
	_, cmd := NewNodeListModel(browseLayout()).Update(key("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestNodeListModel_RoutesView(t *testing.T) {
	m := NewNodeListModel(browseLayout())

	view := m.routesView("A")
	for _, want := range []string{"out → B", "out → C/no", "in  → D", "back"} {
		if !strings.Contains(view, want) {
			t.Errorf("routesView(A) missing %q:\n%s", want, view)
		}
	}

	lonely := graph.Layout{Nodes: []graph.PositionedNode{{ID: "x"}}, Ranks: []graph.Rank{{NodeIDs: []string{"x"}}}}
	if view := NewNodeListModel(lonely).routesView("x"); !strings.Contains(view, "no edges") {
		t.Errorf("routesView(x) = %q", view)
	}
}

func TestNodeListModel_View(t *testing.T) {
	view := NewNodeListModel(browseLayout()).View()
	for _, want := range []string{"Layout", "Node", "Rank", "[1/4]"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}
