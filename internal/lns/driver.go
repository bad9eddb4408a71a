// Package lns implements the anytime LNS driver: an iterative
// destroy/repair loop layered on the Prioritized Planner and
// Space-Time A*.
package lns

import (
	"math/rand"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/elektrokombinacija/mapf-lns/internal/constraint"
	"github.com/elektrokombinacija/mapf-lns/internal/core"
	"github.com/elektrokombinacija/mapf-lns/internal/planner"
)

// StatsRow is one row of the stats CSV:
// iteration,solution_cost,failed_iterations,runtime.
type StatsRow struct {
	Iteration        int
	SolutionCost     int
	FailedIterations int
	Runtime          time.Duration
}

// Options configures a Driver run. Seed, NeighborSize, MaxIterations and
// TimeLimit together make the sequence of accepted solutions fully
// deterministic.
type Options struct {
	NeighborSize  int
	MaxIterations int
	TimeLimit     time.Duration
	Seed          int64
	Bounds        planner.Bounds
	Neighborhood  Neighborhood // defaults to UniformRandom{}

	// Clock lets tests fast-forward the deadline instead of sleeping; it
	// defaults to the real wall clock. Polled only between iterations,
	// never inside Space-Time A* expansions.
	Clock clock.Clock
}

func (o Options) withDefaults() Options {
	if o.Neighborhood == nil {
		o.Neighborhood = UniformRandom{}
	}
	if o.Clock == nil {
		o.Clock = clock.New()
	}
	if o.NeighborSize <= 0 {
		o.NeighborSize = 8
	}
	return o
}

// Result is what a Driver run returns: the best valid solution found,
// per-iteration stats, and the count of rejected iterations.
type Result struct {
	Solution         core.Solution
	Stats            []StatsRow
	FailedIterations int
}

// Driver owns a planning session end to end: it builds the initial
// solution via the Prioritized Planner, then runs the destroy/repair
// loop until the time or iteration budget is exhausted.
type Driver struct {
	grid   *core.Grid
	agents []core.Agent
	opts   Options
}

// New builds a Driver for the given grid and agent table.
func New(grid *core.Grid, agents []core.Agent, opts Options) *Driver {
	return &Driver{grid: grid, agents: agents, opts: opts.withDefaults()}
}

// Run executes the full session. An error means the Prioritized Planner
// could not find an initial solution; the caller must not treat an
// exhausted time or iteration budget as an error, since Run always
// returns a valid Result in that case.
func (d *Driver) Run() (*Result, error) {
	ct := constraint.New()
	sol, err := planner.Solve(d.grid, ct, d.agents, d.opts.Bounds)
	if err != nil {
		return nil, err
	}

	best := sol.Clone()
	rng := rand.New(rand.NewSource(d.opts.Seed))
	start := d.opts.Clock.Now()

	result := &Result{Solution: best}

	for iter := 1; iter <= d.opts.MaxIterations; iter++ {
		elapsed := d.opts.Clock.Now().Sub(start)
		if d.opts.TimeLimit > 0 && elapsed >= d.opts.TimeLimit {
			break
		}

		d.iterate(ct, sol, rng, result)

		if sol.Cost() < best.Cost() {
			best = sol.Clone()
		}
		result.Stats = append(result.Stats, StatsRow{
			Iteration:        iter,
			SolutionCost:     sol.Cost(),
			FailedIterations: result.FailedIterations,
			Runtime:          d.opts.Clock.Now().Sub(start),
		})
	}

	result.Solution = best
	return result, nil
}

// iterate runs one destroy/withdraw/repair/accept cycle, mutating sol
// and ct in place. On rejection it restores both to their exact
// pre-iteration state, so a rolled-back solution is byte-identical to
// the one before the iteration began.
func (d *Driver) iterate(ct *constraint.Table, sol core.Solution, rng *rand.Rand, result *Result) {
	neighborhood := d.opts.Neighborhood.Select(rng, d.agents, sol, d.opts.NeighborSize)
	if len(neighborhood) == 0 {
		return
	}

	oldCost := sol.Cost()
	oldPaths := make(map[core.AgentID]core.Path, len(neighborhood))
	for _, id := range neighborhood {
		oldPaths[id] = sol[id].Clone()
		ct.WithdrawPath(sol[id])
	}

	repaired := make(map[core.AgentID]core.Path, len(neighborhood))
	ok := true
	for _, id := range neighborhood {
		agent := d.agentByID(id)
		path, found := planner.SpaceTimeAStar(d.grid, ct, agent.Start, agent.Goal, d.opts.Bounds)
		if !found {
			ok = false
			break
		}
		ct.InsertPath(path)
		repaired[id] = path
	}

	if ok {
		for _, id := range neighborhood {
			sol[id] = repaired[id]
		}
	}

	newCost := sol.Cost()
	if !ok || newCost >= oldCost {
		// Roll back: undo every insert this iteration made (whether it
		// succeeded or was never attempted), then restore every
		// withdrawn path, exactly reversing step 2.
		for _, id := range neighborhood {
			if p, done := repaired[id]; done {
				ct.WithdrawPath(p)
			}
			ct.InsertPath(oldPaths[id])
			sol[id] = oldPaths[id]
		}
		result.FailedIterations++
	}
}

func (d *Driver) agentByID(id core.AgentID) core.Agent {
	for _, a := range d.agents {
		if a.ID == id {
			return a
		}
	}
	panic("lns: unknown agent id")
}
