package pipeline

import (
	"context"
	"maps"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/flowlayout/pkg/cache"
	"github.com/matzehuels/flowlayout/pkg/dag"
	"github.com/matzehuels/flowlayout/pkg/errors"
	"github.com/matzehuels/flowlayout/pkg/graph"
	"github.com/matzehuels/flowlayout/pkg/layout"
	"github.com/matzehuels/flowlayout/pkg/observability"
	"github.com/matzehuels/flowlayout/pkg/route"
)

// State is the lifecycle state of a Driver.
type State int

const (
	// Uninitialized means no graph has been laid out yet.
	Uninitialized State = iota
	// LaidOut means the driver holds the result of its latest pass.
	LaidOut
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case LaidOut:
		return "laid-out"
	default:
		return "unknown"
	}
}

// Pass reasons reported to logs and hooks.
const (
	ReasonInitial        = "initial"
	ReasonGraphChanged   = "graph-changed"
	ReasonSizeReported   = "size-reported"
	ReasonAnchorsChanged = "anchors-changed"
)

// Driver decides when to rerun the layout pipeline for one diagram and
// serializes the reruns. It is safe for concurrent use.
//
// Every pass is a full rank, order, coordinate and route run on a fresh store
// built from the latest graph and the latest measured sizes. Stability across
// edits comes from the ordering heuristic, not from reusing partial results.
type Driver struct {
	opts   layout.Options
	logger *log.Logger

	mu        sync.Mutex
	state     State
	graph     graph.Graph
	graphHash string
	store     *dag.Store
	measured  map[string]layout.Size
	result    *Result
	passes    int
}

// NewDriver creates a driver. A nil logger uses log.Default().
func NewDriver(opts layout.Options, logger *log.Logger) (*Driver, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidOptions, err, "layout options")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Driver{
		opts:     opts,
		logger:   logger,
		measured: make(map[string]layout.Size),
	}, nil
}

// Options returns the options the driver lays out with.
func (d *Driver) Options() layout.Options { return d.opts }

// State returns the current lifecycle state.
func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Result returns the latest result, or nil before the first pass.
func (d *Driver) Result() *Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.result
}

// Passes returns how many passes have completed.
func (d *Driver) Passes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.passes
}

// Graph returns the latest graph that was laid out.
func (d *Driver) Graph() graph.Graph {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.graph
}

// SetGraph replaces the diagram's nodes, edges and anchors. A pass runs when
// this is the first graph or when its content differs from the previous one;
// otherwise the previous result is returned and ran is false.
//
// Measured sizes of nodes that are no longer part of the graph are dropped.
// On error the previous result stays current.
func (d *Driver) SetGraph(ctx context.Context, g graph.Graph) (res *Result, ran bool, err error) {
	if err := g.Validate(); err != nil {
		return nil, false, err
	}
	hash, err := cache.HashJSON(g)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInvalidInput, err, "hash graph")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == LaidOut && hash == d.graphHash {
		return d.result, false, nil
	}
	reason := ReasonGraphChanged
	if d.state == Uninitialized {
		reason = ReasonInitial
	}

	measured := pruneSizes(d.measured, g)
	if err := d.run(ctx, reason, g, measured); err != nil {
		return nil, false, err
	}
	d.graphHash = hash
	return d.result, true, nil
}

// ReportNodeSize records a node's rendered size. A pass runs only when the
// size differs from the one used by the latest pass by more than
// SizeThreshold in either dimension, so repeated or jittery reports are
// no-ops.
//
// Before the first graph the size is kept for later. A report for a node the
// current graph does not contain is logged and ignored.
func (d *Driver) ReportNodeSize(ctx context.Context, nodeID string, size layout.Size) (*Result, bool, error) {
	return d.ReportNodeSizes(ctx, map[string]layout.Size{nodeID: size})
}

// ReportNodeSizes records several sizes at once and runs at most one pass for
// all of them.
func (d *Driver) ReportNodeSizes(ctx context.Context, sizes map[string]layout.Size) (*Result, bool, error) {
	for id, sz := range sizes {
		if err := errors.ValidateNodeID(id); err != nil {
			return nil, false, err
		}
		if err := errors.ValidateSize(sz.Width, sz.Height); err != nil {
			return nil, false, errors.Wrap(errors.ErrCodeInvalidInput, err, "size of %q", id)
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == Uninitialized {
		for id, sz := range sizes {
			d.measured[id] = sz
			observability.Layout().OnSizeReport(ctx, id, false)
		}
		d.logger.Debug("stashed size reports before first graph", "count", len(sizes))
		return nil, false, nil
	}

	accepted := make(map[string]layout.Size)
	for _, id := range slices.Sorted(maps.Keys(sizes)) {
		sz := sizes[id]
		n, ok := d.store.Node(id)
		if !ok {
			d.logger.Warn("size report for unknown node", "node", id)
			observability.Layout().OnSizeReport(ctx, id, false)
			continue
		}
		if !d.exceedsThreshold(n, sz) {
			d.logger.Debug("ignored size report", "node", id, "width", sz.Width, "height", sz.Height)
			observability.Layout().OnSizeReport(ctx, id, false)
			continue
		}
		accepted[id] = sz
		observability.Layout().OnSizeReport(ctx, id, true)
	}
	if len(accepted) == 0 {
		return d.result, false, nil
	}

	measured := maps.Clone(d.measured)
	maps.Copy(measured, accepted)
	if err := d.run(ctx, ReasonSizeReported, d.graph, measured); err != nil {
		return nil, false, err
	}
	return d.result, true, nil
}

// SetAnchors replaces the anchor overrides and reroutes edges without
// moving nodes.
func (d *Driver) SetAnchors(ctx context.Context, anchors []graph.Anchor) (*Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == Uninitialized {
		return nil, errors.New(errors.ErrCodeNotFound, "no graph has been laid out")
	}
	g := d.graph
	g.Anchors = slices.Clone(anchors)
	if err := g.Validate(); err != nil {
		return nil, err
	}
	hash, err := cache.HashJSON(g)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "hash graph")
	}

	passID := uuid.NewString()
	start := time.Now()
	observability.Layout().OnLayoutStart(ctx, passID, ReasonAnchorsChanged, d.store.NodeCount())

	res := *d.result
	res.Routes = route.NewRouter(d.opts).Route(d.store, g.AnchorMap())
	res.Stats.Duration = time.Since(start)

	observability.Layout().OnLayoutComplete(ctx, passID, res.Stats.Duration, nil)
	d.logger.Debug("rerouted edges", "pass", passID, "reason", ReasonAnchorsChanged, "edges", len(res.Routes))

	d.graph, d.graphHash, d.result = g, hash, &res
	return d.result, nil
}

// run performs one pass on a fresh store and commits it on success.
// d.mu must be held.
func (d *Driver) run(ctx context.Context, reason string, g graph.Graph, measured map[string]layout.Size) (err error) {
	passID := uuid.NewString()
	start := time.Now()
	observability.Layout().OnLayoutStart(ctx, passID, reason, len(g.Nodes))
	defer func() {
		observability.Layout().OnLayoutComplete(ctx, passID, time.Since(start), err)
	}()

	s := dag.New()
	if err := g.Populate(s, measured); err != nil {
		return err
	}
	res, err := Compute(s, d.opts, g.AnchorMap())
	if err != nil {
		d.logger.Error("layout pass failed", "pass", passID, "reason", reason, "error", err)
		return err
	}

	d.logger.Debug("layout pass",
		"pass", passID,
		"reason", reason,
		"nodes", res.Stats.NodeCount,
		"edges", res.Stats.EdgeCount,
		"ranks", res.Stats.RankCount,
		"crossings", res.Stats.Crossings,
		"duration", res.Stats.Duration)

	d.store, d.graph, d.measured, d.result = s, g, measured, res
	d.state = LaidOut
	d.passes++
	return nil
}

func (d *Driver) exceedsThreshold(n *dag.Node, sz layout.Size) bool {
	return math.Abs(n.Width-sz.Width) > d.opts.SizeThreshold ||
		math.Abs(n.Height-sz.Height) > d.opts.SizeThreshold
}

// pruneSizes returns the measured sizes of nodes that g still references,
// either in its node list or as an edge endpoint.
func pruneSizes(measured map[string]layout.Size, g graph.Graph) map[string]layout.Size {
	keep := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		keep[n.ID] = true
	}
	for _, e := range g.Edges {
		keep[e.From], keep[e.To] = true, true
	}
	out := make(map[string]layout.Size, len(measured))
	for id, sz := range measured {
		if keep[id] {
			out[id] = sz
		}
	}
	return out
}
