package lns_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/mapf-lns/internal/collision"
	"github.com/elektrokombinacija/mapf-lns/internal/core"
	"github.com/elektrokombinacija/mapf-lns/internal/lns"
)

func squareGrid(t *testing.T, n int) *core.Grid {
	t.Helper()
	rows := make([][]bool, n)
	for r := range rows {
		rows[r] = make([]bool, n)
		for c := range rows[r] {
			rows[r][c] = true
		}
	}
	g, err := core.NewGrid(rows)
	require.NoError(t, err)
	return g
}

// cyclicRotationAgents builds ten agents cycling around a blocked region
// in the middle of a 10x10 grid: each agent's goal is the ring position
// diametrically opposite its start, so every path contends with every
// other.
func cyclicRotationAgents() []core.Agent {
	ring := []core.Cell{
		{Row: 3, Col: 3}, {Row: 3, Col: 4}, {Row: 3, Col: 5}, {Row: 3, Col: 6},
		{Row: 4, Col: 6}, {Row: 5, Col: 6}, {Row: 6, Col: 6}, {Row: 6, Col: 5},
		{Row: 6, Col: 4}, {Row: 6, Col: 3},
	}
	agents := make([]core.Agent, len(ring))
	for i, start := range ring {
		goal := ring[(i+len(ring)/2)%len(ring)]
		agents[i] = core.Agent{ID: core.AgentID(i), Start: start, Goal: goal}
	}
	return agents
}

func blockedMiddleGrid(t *testing.T) *core.Grid {
	t.Helper()
	rows := make([][]bool, 10)
	for r := range rows {
		rows[r] = make([]bool, 10)
		for c := range rows[r] {
			rows[r][c] = true
		}
	}
	for r := 4; r <= 5; r++ {
		for c := 4; c <= 5; c++ {
			rows[r][c] = false
		}
	}
	g, err := core.NewGrid(rows)
	require.NoError(t, err)
	return g
}

func TestDriver_Run_InitialSolutionIsValid(t *testing.T) {
	g := blockedMiddleGrid(t)
	agents := cyclicRotationAgents()

	d := lns.New(g, agents, lns.Options{
		NeighborSize:  4,
		MaxIterations: 50,
		TimeLimit:     5 * time.Second,
		Seed:          42,
	})
	result, err := d.Run()
	require.NoError(t, err)

	report := collision.Check(result.Solution)
	require.True(t, report.Clean())
}

func TestDriver_Run_CostNeverIncreasesAcrossIterations(t *testing.T) {
	g := blockedMiddleGrid(t)
	agents := cyclicRotationAgents()

	d := lns.New(g, agents, lns.Options{
		NeighborSize:  4,
		MaxIterations: 50,
		TimeLimit:     5 * time.Second,
		Seed:          7,
	})
	result, err := d.Run()
	require.NoError(t, err)

	prev := -1
	for _, row := range result.Stats {
		if prev >= 0 {
			require.LessOrEqual(t, row.SolutionCost, prev)
		}
		prev = row.SolutionCost
	}
}

func TestDriver_Run_DeterministicGivenSeed(t *testing.T) {
	g := blockedMiddleGrid(t)
	agents := cyclicRotationAgents()

	opts := lns.Options{NeighborSize: 4, MaxIterations: 30, TimeLimit: 5 * time.Second, Seed: 99}
	r1, err := lns.New(g, agents, opts).Run()
	require.NoError(t, err)
	r2, err := lns.New(g, agents, opts).Run()
	require.NoError(t, err)

	require.Empty(t, cmp.Diff(r1.Solution, r2.Solution))
	require.Equal(t, len(r1.Stats), len(r2.Stats))
	for i := range r1.Stats {
		require.Equal(t, r1.Stats[i].SolutionCost, r2.Stats[i].SolutionCost)
		require.Equal(t, r1.Stats[i].FailedIterations, r2.Stats[i].FailedIterations)
	}
}

// Single agent with start == goal: path of length 1, zero iterations
// needed to stay valid.
func TestDriver_Run_SingleAgentStartEqualsGoal(t *testing.T) {
	g := squareGrid(t, 3)
	agents := []core.Agent{{ID: 0, Start: core.Cell{Row: 1, Col: 1}, Goal: core.Cell{Row: 1, Col: 1}}}

	d := lns.New(g, agents, lns.Options{NeighborSize: 1, MaxIterations: 5, TimeLimit: time.Second})
	result, err := d.Run()
	require.NoError(t, err)
	require.Equal(t, core.Path{{Row: 1, Col: 1}}, result.Solution[0])
}

// When the initial solution is already optimal, every repair comes back
// at the same cost and is rejected; each rollback must leave the
// solution byte-identical to what the run started with.
func TestDriver_Run_RollbackRestoresSolutionExactly(t *testing.T) {
	g := squareGrid(t, 4)
	agents := []core.Agent{
		{ID: 0, Start: core.Cell{Row: 0, Col: 0}, Goal: core.Cell{Row: 0, Col: 3}},
		{ID: 1, Start: core.Cell{Row: 3, Col: 0}, Goal: core.Cell{Row: 3, Col: 3}},
	}

	opts := lns.Options{NeighborSize: 2, TimeLimit: 5 * time.Second, Seed: 5}

	opts.MaxIterations = 0
	initial, err := lns.New(g, agents, opts).Run()
	require.NoError(t, err)

	opts.MaxIterations = 10
	rolled, err := lns.New(g, agents, opts).Run()
	require.NoError(t, err)

	require.Equal(t, 10, rolled.FailedIterations)
	require.Empty(t, cmp.Diff(initial.Solution, rolled.Solution))
}

// With a mock clock advanced past the time limit between iterations,
// the driver must stop well short of its iteration budget and still
// return a valid solution.
func TestDriver_Run_StopsAtDeadline(t *testing.T) {
	g := blockedMiddleGrid(t)
	agents := cyclicRotationAgents()

	mock := clock.NewMock()
	d := lns.New(g, agents, lns.Options{
		NeighborSize:  4,
		MaxIterations: 1000000,
		TimeLimit:     time.Second,
		Seed:          1,
		Clock:         mock,
		Neighborhood:  tickingNeighborhood{mock: mock, step: 300 * time.Millisecond},
	})

	result, err := d.Run()
	require.NoError(t, err)
	require.True(t, collision.Check(result.Solution).Clean())
	require.Less(t, len(result.Stats), 1000000)
}

// tickingNeighborhood advances the mock clock by a fixed step every time
// it is consulted, simulating iterations that take real time, so the
// driver's deadline check between iterations actually has something to
// observe.
type tickingNeighborhood struct {
	mock *clock.Mock
	step time.Duration
}

func (n tickingNeighborhood) Select(rng *rand.Rand, agents []core.Agent, sol core.Solution, size int) []core.AgentID {
	n.mock.Add(n.step)
	return lns.UniformRandom{}.Select(rng, agents, sol, size)
}
