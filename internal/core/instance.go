package core

import (
	"fmt"

	"github.com/katalvlaran/lvlath/bfs"
	lvcore "github.com/katalvlaran/lvlath/core"
)

// Agent is a single planning participant: a stable id, a start cell and a
// goal cell. Two agents may share a start with another's goal, but no two
// agents share a start and no two share a goal; that invariant is a
// property of the scenario file, and Instance.Validate does not re-check
// it.
type Agent struct {
	ID    AgentID
	Start Cell
	Goal  Cell
}

// Instance bundles the Grid with the agent table for a single run.
type Instance struct {
	Grid   *Grid
	Agents []Agent
}

// NewInstance pairs a grid with an agent table.
func NewInstance(grid *Grid, agents []Agent) *Instance {
	return &Instance{Grid: grid, Agents: agents}
}

// PlacementError reports that an agent's start or goal cannot be used.
// The offending agent is dropped with a warning, and planning proceeds
// with the rest.
type PlacementError struct {
	Agent  AgentID
	Reason string
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("agent %d: %s", e.Agent, e.Reason)
}

// Validate checks every agent's start/goal against the grid and, for
// agents that pass that check, against static reachability on the grid
// alone (ignoring every other agent). It returns the agents that may be
// planned for and one *PlacementError per agent that was dropped.
//
// Running a cheap BFS up front means an instance with a start walled off
// from its goal fails fast with a precise placement error instead of
// burning the full A* expansion budget during prioritized planning.
func (inst *Instance) Validate() ([]Agent, []*PlacementError) {
	var ok []Agent
	var errs []*PlacementError

	var graph *coreGraphCache
	for _, a := range inst.Agents {
		if reason := inst.checkBounds(a); reason != "" {
			errs = append(errs, &PlacementError{Agent: a.ID, Reason: reason})
			continue
		}
		if a.Start == a.Goal {
			ok = append(ok, a)
			continue
		}
		if graph == nil {
			graph = newCoreGraphCache(inst.Grid)
		}
		if !graph.reachable(inst.Grid.VertexID(a.Start), inst.Grid.VertexID(a.Goal)) {
			errs = append(errs, &PlacementError{Agent: a.ID, Reason: "goal unreachable from start on static grid"})
			continue
		}
		ok = append(ok, a)
	}
	return ok, errs
}

func (inst *Instance) checkBounds(a Agent) string {
	if !inst.Grid.InBounds(a.Start) {
		return "start out of bounds"
	}
	if !inst.Grid.Passable(a.Start) {
		return "start is on a blocked cell"
	}
	if !inst.Grid.InBounds(a.Goal) {
		return "goal out of bounds"
	}
	if !inst.Grid.Passable(a.Goal) {
		return "goal is on a blocked cell"
	}
	return ""
}

// coreGraphCache memoizes the lvlath *core.Graph view of a Grid and the
// BFS result from each start vertex queried, since Validate may query the
// same start for several agents sharing a rendezvous point.
type coreGraphCache struct {
	graph   *lvcore.Graph
	results map[string]*bfs.BFSResult
}

func newCoreGraphCache(g *Grid) *coreGraphCache {
	return &coreGraphCache{graph: g.ToCoreGraph(), results: make(map[string]*bfs.BFSResult)}
}

func (c *coreGraphCache) reachable(startID, goalID string) bool {
	res, ok := c.results[startID]
	if !ok {
		var err error
		res, err = bfs.BFS(c.graph, startID)
		if err != nil {
			return false
		}
		c.results[startID] = res
	}
	_, reached := res.Depth[goalID]
	return reached
}
