// Package constraint implements the Constraint Table that Space-Time A*
// consults to determine which (cell,time) and (edge,time) pairs are
// forbidden by paths already committed to the solution.
package constraint

import (
	"github.com/elektrokombinacija/mapf-lns/internal/core"
)

// edgeKey identifies a directed traversal from one cell to an adjacent one.
type edgeKey struct {
	From, To core.Cell
}

// Table is the Space-Time A* query context. It is not safe for
// concurrent use; the planner and LNS driver never share it across
// goroutines.
//
// vertex and edge entries are reference counts rather than booleans: two
// paths can legitimately contribute the same (cell,t) entry (e.g. two
// agents both waiting at their own, different, reserved cells never
// collide, but an agent re-inserted after a failed repair can re-add an
// entry a sibling agent already holds at the same time under some
// neighborhood orders) and withdraw_path must remove only the constraint
// the withdrawn path itself contributed.
type Table struct {
	vertex map[core.Cell]map[int]int
	edge   map[edgeKey]map[int]int
	goal   map[core.Cell][]int // multiset of reservation times, unsorted; queries scan
}

// New returns an empty constraint table.
func New() *Table {
	return &Table{
		vertex: make(map[core.Cell]map[int]int),
		edge:   make(map[edgeKey]map[int]int),
		goal:   make(map[core.Cell][]int),
	}
}

// InsertPath adds every vertex/edge/goal entry path contributes.
func (t *Table) InsertPath(path core.Path) {
	for step, c := range path {
		t.incrVertex(c, step)
		if step > 0 {
			t.incrEdge(edgeKey{From: path[step-1], To: c}, step)
		}
	}
	if len(path) > 0 {
		goalCell := path[len(path)-1]
		t.goal[goalCell] = append(t.goal[goalCell], len(path)-1)
	}
}

// WithdrawPath removes exactly the entries path contributed, symmetric
// with InsertPath. Calling WithdrawPath on a path that was never
// inserted is a programmer error: counts never go negative, but it may
// remove entries another inserted path contributed; callers (Prioritized, LNS) only ever withdraw paths they
// themselves inserted.
func (t *Table) WithdrawPath(path core.Path) {
	for step, c := range path {
		t.decrVertex(c, step)
		if step > 0 {
			t.decrEdge(edgeKey{From: path[step-1], To: c}, step)
		}
	}
	if len(path) > 0 {
		goalCell := path[len(path)-1]
		t.removeGoal(goalCell, len(path)-1)
	}
}

// Blocked reports whether arriving at `to` at time arrivalT, having come
// from `from`, is forbidden: a vertex conflict, an edge (swap) conflict,
// or a goal reservation by another agent's parked path.
//
// A swap is two agents traversing the same edge in opposite directions in
// the same step: if a committed path already contributes
// the traversal to->from arriving at arrivalT, then from->to arriving at
// the same time is the other half of that swap and must be rejected. The
// edge table is therefore queried in the *reverse* of the candidate's own
// direction, not the same direction: querying the same direction would
// only ever match a traversal that a vertex conflict had already caught.
func (t *Table) Blocked(from, to core.Cell, arrivalT int) bool {
	if t.hasVertex(to, arrivalT) {
		return true
	}
	if t.hasEdge(edgeKey{From: to, To: from}, arrivalT) {
		return true
	}
	return t.GoalReservedAfter(to, arrivalT)
}

// GoalReservedAfter reports whether some agent's path parks permanently
// at `cell` from a time at or before t, i.e. whether occupying cell at
// time t would collide with that parked agent.
func (t *Table) GoalReservedAfter(cell core.Cell, t0 int) bool {
	times, ok := t.goal[cell]
	if !ok {
		return false
	}
	for _, reserved := range times {
		if reserved <= t0 {
			return true
		}
	}
	return false
}

// FreeFromTime reports whether `cell` is clear of every committed
// occupant, transient or permanently parked, at every time step from
// t0 onward. Space-Time A* calls this before accepting a popped
// (goal, t0) node: a lower-priority agent may only terminate its search
// at goal if no higher-priority path already committed to the table will
// ever be at that cell again, not merely if no *other* agent has
// permanently parked there. Without this check, a search could park at
// goal simply because nobody parks there, while a committed path still
// crosses goal at some later, merely-transient time step: a vertex
// conflict collision.Check would catch only after the fact.
//
// The scan needs no horizon cutoff: every committed path contributes
// vertex entries only for the steps it actually visits, so the set of
// entries consulted for cell is always finite.
func (t *Table) FreeFromTime(cell core.Cell, t0 int) bool {
	if t.GoalReservedAfter(cell, t0) {
		return false
	}
	times, ok := t.vertex[cell]
	if !ok {
		return true
	}
	for ts, count := range times {
		if count > 0 && ts >= t0 {
			return false
		}
	}
	return true
}

func (t *Table) incrVertex(c core.Cell, ts int) {
	m, ok := t.vertex[c]
	if !ok {
		m = make(map[int]int)
		t.vertex[c] = m
	}
	m[ts]++
}

func (t *Table) decrVertex(c core.Cell, ts int) {
	m, ok := t.vertex[c]
	if !ok {
		return
	}
	m[ts]--
	if m[ts] <= 0 {
		delete(m, ts)
	}
	if len(m) == 0 {
		delete(t.vertex, c)
	}
}

func (t *Table) hasVertex(c core.Cell, ts int) bool {
	m, ok := t.vertex[c]
	if !ok {
		return false
	}
	return m[ts] > 0
}

func (t *Table) incrEdge(k edgeKey, ts int) {
	m, ok := t.edge[k]
	if !ok {
		m = make(map[int]int)
		t.edge[k] = m
	}
	m[ts]++
}

func (t *Table) decrEdge(k edgeKey, ts int) {
	m, ok := t.edge[k]
	if !ok {
		return
	}
	m[ts]--
	if m[ts] <= 0 {
		delete(m, ts)
	}
	if len(m) == 0 {
		delete(t.edge, k)
	}
}

func (t *Table) hasEdge(k edgeKey, ts int) bool {
	m, ok := t.edge[k]
	if !ok {
		return false
	}
	return m[ts] > 0
}

func (t *Table) removeGoal(cell core.Cell, ts int) {
	times := t.goal[cell]
	for i, v := range times {
		if v == ts {
			times = append(times[:i], times[i+1:]...)
			break
		}
	}
	if len(times) == 0 {
		delete(t.goal, cell)
		return
	}
	t.goal[cell] = times
}
