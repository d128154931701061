package dag

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Store.AddNode] and [Store.AddEdge] when
	// a node ID is empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Store.AddNode] when a real (non
	// placeholder) node with the same ID already exists in the store.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrDuplicateEdge is returned by [Store.AddEdge] when an edge with the same
	// (From, To, LocalID) identity already exists.
	ErrDuplicateEdge = errors.New("duplicate edge")

	// ErrUnknownNode is returned by [Store.SetSize] and [Store.SetPosition]
	// when the node does not exist.
	ErrUnknownNode = errors.New("unknown node")

	// ErrNegativeSize is returned by [Store.AddNode] and [Store.SetSize] when
	// a width or height is negative.
	ErrNegativeSize = errors.New("node size must not be negative")
)

// Metadata stores arbitrary key-value pairs attached to nodes or edges.
// Edge metadata carries the caller's per-edge options; the engine never
// interprets it.
type Metadata map[string]any

// Node is a diagram vertex. Width and Height are authoritative once reported
// by the consumer; X, Y and Rank are owned by the layout engine. X and Y are
// the node's center, not its top-left corner.
type Node struct {
	ID            string
	Width, Height float64
	X, Y          float64
	Rank          int
	Meta          Metadata

	// Placeholder is set for nodes created implicitly because an edge
	// referenced them before they were added. Placeholders have zero size
	// until a real node with the same ID is added.
	Placeholder bool
}

// Left returns the x coordinate of the node's left edge.
func (n Node) Left() float64 { return n.X - n.Width/2 }

// Right returns the x coordinate of the node's right edge.
func (n Node) Right() float64 { return n.X + n.Width/2 }

// Top returns the y coordinate of the node's top edge.
func (n Node) Top() float64 { return n.Y - n.Height/2 }

// Bottom returns the y coordinate of the node's bottom edge.
func (n Node) Bottom() float64 { return n.Y + n.Height/2 }

// EdgeKey is the global identity of an edge. LocalID disambiguates parallel
// edges between the same ordered pair of nodes.
type EdgeKey struct {
	From    string
	To      string
	LocalID string
}

// Edge is a directed, named connection between two nodes. Self-loops and
// cycles are permitted.
type Edge struct {
	From    string
	To      string
	LocalID string
	Options Metadata
}

// Key returns the edge's global identity.
func (e Edge) Key() EdgeKey { return EdgeKey{From: e.From, To: e.To, LocalID: e.LocalID} }

// IsSelfLoop reports whether the edge starts and ends at the same node.
func (e Edge) IsSelfLoop() bool { return e.From == e.To }

// Store is the mutable registry of nodes and multi-edges that a layout pass
// operates on. Nodes keep their insertion order, which is the initial order of
// every rank before crossing reduction.
//
// The zero value is not usable - use New to create a Store.
// Store is not safe for concurrent use without external synchronization.
type Store struct {
	nodes    map[string]*Node
	order    []string
	edges    []Edge
	edgeKeys map[EdgeKey]struct{}
	outgoing map[string][]string // nodeID -> target IDs, one entry per edge
	incoming map[string][]string // nodeID -> source IDs, one entry per edge
	rows     map[int][]*Node
}

// New creates an empty Store.
func New() *Store {
	s := &Store{}
	s.Reset()
	return s
}

// Reset removes every node and edge. Layout passes repopulate the store from
// the caller's current node and edge lists.
func (s *Store) Reset() {
	s.nodes = make(map[string]*Node)
	s.order = nil
	s.edges = nil
	s.edgeKeys = make(map[EdgeKey]struct{})
	s.outgoing = make(map[string][]string)
	s.incoming = make(map[string][]string)
	s.rows = make(map[int][]*Node)
}

// AddNode adds a node. If a placeholder with the same ID exists (because an
// edge referenced it first) the placeholder is upgraded in place and keeps its
// position in the insertion order. Returns ErrInvalidNodeID for an empty ID,
// ErrNegativeSize for negative dimensions and ErrDuplicateNodeID when a real
// node with the ID already exists.
func (s *Store) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if n.Width < 0 || n.Height < 0 {
		return ErrNegativeSize
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	n.Placeholder = false
	if existing, ok := s.nodes[n.ID]; ok {
		if !existing.Placeholder {
			return ErrDuplicateNodeID
		}
		rank := existing.Rank
		*existing = n
		existing.Rank = rank
		return nil
	}
	s.insert(&n)
	return nil
}

func (s *Store) insert(n *Node) {
	s.nodes[n.ID] = n
	s.order = append(s.order, n.ID)
	s.rows[n.Rank] = append(s.rows[n.Rank], n)
}

// ensure returns the node with the given ID, creating a zero-size placeholder
// when it does not exist yet.
func (s *Store) ensure(id string) {
	if _, ok := s.nodes[id]; ok {
		return
	}
	s.insert(&Node{ID: id, Meta: Metadata{}, Placeholder: true})
}

// RemoveNode deletes the node and every edge incident to it. No error is
// returned if the node does not exist.
func (s *Store) RemoveNode(id string) {
	n, ok := s.nodes[id]
	if !ok {
		return
	}
	for _, e := range slices.Clone(s.edges) {
		if e.From == id || e.To == id {
			s.RemoveEdge(e.Key())
		}
	}
	delete(s.nodes, id)
	delete(s.outgoing, id)
	delete(s.incoming, id)
	s.order = slices.DeleteFunc(s.order, func(o string) bool { return o == id })
	s.rows[n.Rank] = slices.DeleteFunc(s.rows[n.Rank], func(r *Node) bool { return r.ID == id })
	if len(s.rows[n.Rank]) == 0 {
		delete(s.rows, n.Rank)
	}
}

// AddEdge adds a directed edge. Endpoints that do not exist yet are created as
// zero-size placeholders rather than rejected, so an edge list that runs ahead
// of its node list never loses nodes. Returns ErrInvalidNodeID if either
// endpoint is empty and ErrDuplicateEdge if the edge identity is taken.
func (s *Store) AddEdge(e Edge) error {
	if e.From == "" || e.To == "" {
		return ErrInvalidNodeID
	}
	if _, dup := s.edgeKeys[e.Key()]; dup {
		return ErrDuplicateEdge
	}
	if e.Options == nil {
		e.Options = Metadata{}
	}
	s.ensure(e.From)
	s.ensure(e.To)
	s.edges = append(s.edges, e)
	s.edgeKeys[e.Key()] = struct{}{}
	s.outgoing[e.From] = append(s.outgoing[e.From], e.To)
	s.incoming[e.To] = append(s.incoming[e.To], e.From)
	return nil
}

// RemoveEdge removes the edge with the given identity if it exists.
func (s *Store) RemoveEdge(k EdgeKey) {
	if _, ok := s.edgeKeys[k]; !ok {
		return
	}
	delete(s.edgeKeys, k)
	s.edges = slices.DeleteFunc(s.edges, func(e Edge) bool { return e.Key() == k })
	if i := slices.Index(s.outgoing[k.From], k.To); i >= 0 {
		s.outgoing[k.From] = slices.Delete(s.outgoing[k.From], i, i+1)
	}
	if i := slices.Index(s.incoming[k.To], k.From); i >= 0 {
		s.incoming[k.To] = slices.Delete(s.incoming[k.To], i, i+1)
	}
}

// HasEdge reports whether an edge with the given identity exists.
func (s *Store) HasEdge(k EdgeKey) bool {
	_, ok := s.edgeKeys[k]
	return ok
}

// SetSize updates a node's dimensions.
func (s *Store) SetSize(id string, width, height float64) error {
	n, ok := s.nodes[id]
	if !ok {
		return ErrUnknownNode
	}
	if width < 0 || height < 0 {
		return ErrNegativeSize
	}
	n.Width, n.Height = width, height
	return nil
}

// SetPosition updates a node's center coordinates.
func (s *Store) SetPosition(id string, x, y float64) error {
	n, ok := s.nodes[id]
	if !ok {
		return ErrUnknownNode
	}
	n.X, n.Y = x, y
	return nil
}

// SetRanks updates rank assignments and rebuilds the rank index. Nodes not
// present in the map keep their current rank. Within a rank, nodes keep their
// insertion order.
func (s *Store) SetRanks(ranks map[string]int) {
	s.rows = make(map[int][]*Node)
	for _, id := range s.order {
		n := s.nodes[id]
		if r, ok := ranks[id]; ok {
			n.Rank = r
		}
		s.rows[n.Rank] = append(s.rows[n.Rank], n)
	}
}

// Nodes returns all nodes in insertion order. The returned slice contains
// pointers to the stored nodes, so modifications affect the store.
func (s *Store) Nodes() []*Node {
	nodes := make([]*Node, len(s.order))
	for i, id := range s.order {
		nodes[i] = s.nodes[id]
	}
	return nodes
}

// NodeIDs returns all node IDs in insertion order.
func (s *Store) NodeIDs() []string { return slices.Clone(s.order) }

// Edges returns a copy of all edges in insertion order.
func (s *Store) Edges() []Edge { return slices.Clone(s.edges) }

// NodeCount returns the number of nodes, placeholders included.
func (s *Store) NodeCount() int { return len(s.nodes) }

// EdgeCount returns the number of edges.
func (s *Store) EdgeCount() int { return len(s.edges) }

// Node returns the node with the given ID and true, or nil and false.
func (s *Store) Node(id string) (*Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// Children returns the targets of the node's outgoing edges, one entry per
// edge, so parallel edges produce repeated IDs. The slice must not be modified.
func (s *Store) Children(id string) []string { return s.outgoing[id] }

// Parents returns the sources of the node's incoming edges, one entry per
// edge. The slice must not be modified.
func (s *Store) Parents(id string) []string { return s.incoming[id] }

// Incoming returns the edges that end at the node, in insertion order.
func (s *Store) Incoming(id string) []Edge {
	var in []Edge
	for _, e := range s.edges {
		if e.To == id {
			in = append(in, e)
		}
	}
	return in
}

// Outgoing returns the edges that start at the node, in insertion order.
func (s *Store) Outgoing(id string) []Edge {
	var out []Edge
	for _, e := range s.edges {
		if e.From == id {
			out = append(out, e)
		}
	}
	return out
}

// InDegree returns the number of incoming edges, self-loops included.
func (s *Store) InDegree(id string) int { return len(s.incoming[id]) }

// OutDegree returns the number of outgoing edges, self-loops included.
func (s *Store) OutDegree(id string) int { return len(s.outgoing[id]) }

// Sources returns nodes with no incoming edges in insertion order. A node whose
// only incoming edge is a self-loop is not a source.
func (s *Store) Sources() []*Node {
	var sources []*Node
	for _, id := range s.order {
		if len(s.incoming[id]) == 0 {
			sources = append(sources, s.nodes[id])
		}
	}
	return sources
}

// NodesInRank returns the nodes assigned to the rank, in insertion order.
func (s *Store) NodesInRank(rank int) []*Node { return s.rows[rank] }

// RankIDs returns all occupied ranks in ascending order. Ranks need not be
// contiguous.
func (s *Store) RankIDs() []int {
	return slices.Sorted(maps.Keys(s.rows))
}

// PosMap creates a position lookup map from a slice of node IDs.
func PosMap(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}

// NodeIDs extracts the ID from each node in a slice.
func NodeIDs(nodes []*Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
