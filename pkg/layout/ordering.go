package layout

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/matzehuels/flowlayout/pkg/dag"
	"github.com/matzehuels/flowlayout/pkg/dag/transform"
)

// ErrBasisRankNotFound is returned by [Order] when two nodes of the same rank
// have no preceding rank in which both have an ancestor. With ancestors from
// [transform.Ancestors] this cannot happen, so it signals a ranking bug rather
// than bad input.
var ErrBasisRankNotFound = errors.New("could not find basis rank group")

// Order sorts the nodes of every group after the first to reduce crossings
// while keeping prior orderings stable. Groups must be sorted by rank; the
// first group keeps its order.
//
// Groups are settled in ascending order. Two nodes are compared in the nearest
// preceding group (the basis rank) in which both have at least one ancestor:
// the node whose ancestors have the lower median index there sorts first.
// Ties keep their current relative order, so adding a node never reshuffles
// siblings whose ancestry did not change.
func Order(groups []RankGroup, ancestors transform.AncestorMap) error {
	if len(groups) == 0 {
		return nil
	}
	positions := make([]map[string]int, len(groups))
	positions[0] = dag.PosMap(groups[0].NodeIDs)

	for gi := 1; gi < len(groups); gi++ {
		var failed error
		slices.SortStableFunc(groups[gi].NodeIDs, func(a, b string) int {
			if failed != nil {
				return 0
			}
			ma, mb, ok := basisMedians(a, b, positions[:gi], ancestors)
			if !ok {
				failed = fmt.Errorf("%w: %q and %q in rank %d", ErrBasisRankNotFound, a, b, groups[gi].Rank)
				return 0
			}
			return cmp.Compare(ma, mb)
		})
		if failed != nil {
			return failed
		}
		positions[gi] = dag.PosMap(groups[gi].NodeIDs)
	}
	return nil
}

// basisMedians walks backward from the nearest settled group and returns the
// median ancestor index of a and b in the first group where both have one.
func basisMedians(a, b string, settled []map[string]int, ancestors transform.AncestorMap) (float64, float64, bool) {
	for i := len(settled) - 1; i >= 0; i-- {
		ia := indicesIn(settled[i], ancestors[a])
		if len(ia) == 0 {
			continue
		}
		ib := indicesIn(settled[i], ancestors[b])
		if len(ib) == 0 {
			continue
		}
		return median(ia), median(ib), true
	}
	return 0, 0, false
}

func indicesIn(pos map[string]int, set map[string]struct{}) []int {
	var idx []int
	for id := range set {
		if p, ok := pos[id]; ok {
			idx = append(idx, p)
		}
	}
	return idx
}

// median returns the middle value of idx; for even lengths, the mean of the
// two middle values.
func median(idx []int) float64 {
	slices.Sort(idx)
	n := len(idx)
	if n%2 == 1 {
		return float64(idx[n/2])
	}
	return float64(idx[n/2-1]+idx[n/2]) / 2
}
