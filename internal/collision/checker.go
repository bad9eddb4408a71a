// Package collision implements the Collision Checker: a
// pure function over a set of paths that reports every vertex and edge
// conflict, independent of how those paths were produced. It is used by
// tests to verify planner output and by callers auditing paths from
// other planners.
package collision

import (
	"sort"

	"github.com/elektrokombinacija/mapf-lns/internal/core"
)

// VertexConflict records two agents occupying the same cell at the same
// time step.
type VertexConflict struct {
	AgentI, AgentJ core.AgentID
	Cell           core.Cell
	Time           int
}

// EdgeConflict records two agents swapping across the same edge between
// consecutive time steps.
type EdgeConflict struct {
	AgentI, AgentJ core.AgentID
	CellA, CellB   core.Cell
	Time           int // arrival time of the swap
}

// Report collects every conflict found across a solution.
type Report struct {
	Vertex []VertexConflict
	Edge   []EdgeConflict
}

// Clean reports whether the solution has zero conflicts of either kind.
func (r Report) Clean() bool {
	return len(r.Vertex) == 0 && len(r.Edge) == 0
}

// Check finds every vertex and edge conflict across sol, orientation
// metadata (if any) ignored. Agents are compared pairwise in ascending
// AgentID order so the report is deterministic.
func Check(sol core.Solution) Report {
	ids := sortedAgentIDs(sol)

	maxT := 0
	for _, p := range sol {
		if len(p) > 0 && len(p)-1 > maxT {
			maxT = len(p) - 1
		}
	}

	var report Report
	for t := 0; t <= maxT; t++ {
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				a, b := ids[i], ids[j]
				pa, pb := sol[a], sol[b]
				if pa.At(t) == pb.At(t) {
					report.Vertex = append(report.Vertex, VertexConflict{
						AgentI: a, AgentJ: b, Cell: pa.At(t), Time: t,
					})
				}
			}
		}
	}

	for t := 0; t < maxT; t++ {
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				a, b := ids[i], ids[j]
				pa, pb := sol[a], sol[b]
				if pa.At(t) == pb.At(t+1) && pa.At(t+1) == pb.At(t) && pa.At(t) != pa.At(t+1) {
					report.Edge = append(report.Edge, EdgeConflict{
						AgentI: a, AgentJ: b, CellA: pa.At(t), CellB: pa.At(t + 1), Time: t + 1,
					})
				}
			}
		}
	}

	return report
}

func sortedAgentIDs(sol core.Solution) []core.AgentID {
	ids := make([]core.AgentID, 0, len(sol))
	for id := range sol {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
