package planner

import (
	"fmt"

	"github.com/elektrokombinacija/mapf-lns/internal/constraint"
	"github.com/elektrokombinacija/mapf-lns/internal/core"
)

// FailedAgentError reports which agent the Prioritized Planner could not
// find a path for. The LNS driver (or CLI) reports this as an
// InitialSolutionFailure.
type FailedAgentError struct {
	Agent core.AgentID
}

func (e *FailedAgentError) Error() string {
	return fmt.Sprintf("no path found for agent %d within search bounds", e.Agent)
}

// Solve builds an initial valid solution by planning agents one at a
// time in order, inserting each result into ct before planning the next.
// There is no backtracking: the first agent that fails
// aborts the whole attempt, and ct is left holding every path planned so
// far; callers that want a clean table on failure should pass a fresh
// one.
//
// The solution returned on success is valid by construction: every
// vertex/edge a later agent could have collided with was already a
// Blocked() entry in ct when that agent was searched.
func Solve(grid *core.Grid, ct *constraint.Table, agents []core.Agent, bounds Bounds) (core.Solution, error) {
	sol := make(core.Solution, len(agents))
	for _, a := range agents {
		path, ok := SpaceTimeAStar(grid, ct, a.Start, a.Goal, bounds)
		if !ok {
			return sol, &FailedAgentError{Agent: a.ID}
		}
		ct.InsertPath(path)
		sol[a.ID] = path
	}
	return sol, nil
}
