package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/flowlayout/pkg/graph"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	headerStyle  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// NodeListModel - Interactive layout browser
// =============================================================================

// NodeListModel is the bubbletea model for browsing the nodes of a layout.
// The table lists nodes in rank order; the panel below it shows the routes
// entering and leaving the node under the cursor.
type NodeListModel struct {
	Layout graph.Layout
	Nodes  []graph.PositionedNode
	Cursor int
	Height int
	Offset int
}

// NewNodeListModel creates a browser over l with nodes sorted by rank and
// then by their order within the rank.
func NewNodeListModel(l graph.Layout) NodeListModel {
	nodes := make([]graph.PositionedNode, 0, len(l.Nodes))
	for _, r := range l.Ranks {
		for _, id := range r.NodeIDs {
			if n, ok := l.Node(id); ok {
				nodes = append(nodes, n)
			}
		}
	}
	return NodeListModel{Layout: l, Nodes: nodes, Height: 12}
}

// Selected returns the node under the cursor.
func (m NodeListModel) Selected() (graph.PositionedNode, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Nodes) {
		return graph.PositionedNode{}, false
	}
	return m.Nodes[m.Cursor], true
}

func (m NodeListModel) Init() tea.Cmd {
	return nil
}

func (m NodeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			if len(m.Nodes) > 0 {
				m.Cursor = len(m.Nodes) - 1
				m.Offset = max(0, m.Cursor-m.Height+1)
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-14, 5)
		if m.Cursor >= m.Offset+m.Height {
			m.Offset = m.Cursor - m.Height + 1
		}
	}
	return m, nil
}

func (m NodeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Layout"))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %s · %s · %d nodes · %d ranks · %d crossings",
		m.Layout.Direction, m.Layout.Alignment, m.Layout.Stats.Nodes, m.Layout.Stats.Ranks, m.Layout.Stats.Crossings)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Nodes))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := m.Nodes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			n.ID,
			fmt.Sprint(n.Rank),
			fmt.Sprintf("%.1f, %.1f", n.X, n.Y),
			fmt.Sprintf("%.0f×%.0f", n.Width, n.Height),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Node", "Rank", "Center", "Size").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Nodes) {
				return lipgloss.NewStyle()
			}
			n := m.Nodes[idx]
			base := lipgloss.NewStyle()
			if n.Placeholder {
				base = base.Foreground(colorDim)
			}
			if idx == m.Cursor {
				return base.Foreground(colorCyan).Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Nodes))))
	b.WriteString("\n\n")

	if n, ok := m.Selected(); ok {
		b.WriteString(m.routesView(n.ID))
	}
	return b.String()
}

// routesView lists the routes that touch the node.
func (m NodeListModel) routesView(id string) string {
	var b strings.Builder
	for _, e := range m.Layout.Edges {
		var dir, other string
		switch id {
		case e.To:
			dir, other = "in ", e.From
		case e.From:
			dir, other = "out", e.To
		default:
			continue
		}
		line := fmt.Sprintf("  %s %s %-12s anchor %.1f,%.1f  receptor %.1f,%.1f",
			dir, iconArrow, edgeLabel(other, e.LocalID), e.Anchor.X, e.Anchor.Y, e.Receptor.X, e.Receptor.Y)
		if e.Back {
			line += "  back"
		}
		b.WriteString(StyleValue.Render(line))
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return listDimStyle.Render("  no edges") + "\n"
	}
	return b.String()
}

func edgeLabel(node, localID string) string {
	if localID == "" {
		return node
	}
	return node + "/" + localID
}
