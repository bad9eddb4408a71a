// Package planner implements Space-Time A* over the time-expanded grid
// and the Prioritized Planner built on top of it.
package planner

import (
	"container/heap"

	"github.com/elektrokombinacija/mapf-lns/internal/constraint"
	"github.com/elektrokombinacija/mapf-lns/internal/core"
)

// Default search bounds, used when a caller passes zero values.
const (
	DefaultMaxTime       = 5000
	DefaultMaxExpansions = 200000
)

// Bounds caps a single Space-Time A* search.
type Bounds struct {
	MaxTime       int // t > MaxTime: successor skipped
	MaxExpansions int // expansions > MaxExpansions: search fails
}

// WithDefaults fills in zero fields with the package defaults.
func (b Bounds) WithDefaults() Bounds {
	if b.MaxTime <= 0 {
		b.MaxTime = DefaultMaxTime
	}
	if b.MaxExpansions <= 0 {
		b.MaxExpansions = DefaultMaxExpansions
	}
	return b
}

// astarNode is a search node over (cell, time step).
type astarNode struct {
	cell   core.Cell
	t      int
	g      int
	f      int
	seq    int // insertion order, used only to break ties deterministically
	parent *astarNode
	index  int // heap index
}

// astarHeap implements container/heap.Interface. Ordering: smaller f
// first, then smaller g (equivalently larger h), then a stable
// insertion order.
type astarHeap []*astarNode

func (h astarHeap) Len() int { return len(h) }
func (h astarHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	if h[i].g != h[j].g {
		return h[i].g < h[j].g
	}
	return h[i].seq < h[j].seq
}
func (h astarHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *astarHeap) Push(x any) {
	n := x.(*astarNode)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *astarHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return x
}

// SpaceTimeAStar searches the time-expanded grid from start to goal under
// ct, returning (path, true) on success or (nil, false) if no path exists
// within bounds. The search node is (cell, t); successors are the four
// grid moves plus waiting in place, each checked against ct.Blocked.
//
// Termination: the first popped node whose
// cell is goal is only accepted if ct.FreeFromTime(goal, t) is true,
// meaning no committed path will ever occupy goal again, whether parked
// there permanently or merely passing through later. Otherwise the
// search must keep going, since stopping now would collide with that
// later occupant.
func SpaceTimeAStar(grid *core.Grid, ct *constraint.Table, start, goal core.Cell, bounds Bounds) (core.Path, bool) {
	bounds = bounds.WithDefaults()

	open := &astarHeap{}
	heap.Init(open)
	closed := make(map[timeState]bool)
	seq := 0

	push := func(cell core.Cell, t, g int, parent *astarNode) {
		node := &astarNode{
			cell:   cell,
			t:      t,
			g:      g,
			f:      g + manhattan(cell, goal),
			seq:    seq,
			parent: parent,
		}
		seq++
		heap.Push(open, node)
	}

	push(start, 0, 0, nil)

	expansions := 0
	for open.Len() > 0 {
		current := heap.Pop(open).(*astarNode)

		state := timeState{current.cell, current.t}
		if closed[state] {
			continue
		}

		if current.cell == goal && ct.FreeFromTime(goal, current.t) {
			return reconstruct(current), true
		}

		closed[state] = true
		expansions++
		if expansions > bounds.MaxExpansions {
			return nil, false
		}

		nextT := current.t + 1
		if nextT > bounds.MaxTime {
			continue
		}

		// Wait in place.
		tryMove(grid, ct, current, current.cell, nextT, closed, push)

		// Four grid moves, routed through Grid.Neighbors so the set of
		// legal non-wait successors is defined in exactly one place.
		for _, n := range grid.Neighbors(current.cell) {
			tryMove(grid, ct, current, n, nextT, closed, push)
		}
	}

	return nil, false
}

type timeState struct {
	cell core.Cell
	t    int
}

func tryMove(
	grid *core.Grid,
	ct *constraint.Table,
	current *astarNode,
	next core.Cell,
	nextT int,
	closed map[timeState]bool,
	push func(cell core.Cell, t, g int, parent *astarNode),
) {
	if closed[timeState{next, nextT}] {
		return
	}
	if ct.Blocked(current.cell, next, nextT) {
		return
	}
	push(next, nextT, current.g+1, current)
}

func manhattan(a, b core.Cell) int {
	return a.Manhattan(b)
}

func reconstruct(node *astarNode) core.Path {
	length := node.t + 1
	path := make(core.Path, length)
	for n := node; n != nil; n = n.parent {
		path[n.t] = n.cell
	}
	return path
}
