package lns

import (
	"math/rand"
	"sort"

	"github.com/elektrokombinacija/mapf-lns/internal/core"
)

// Neighborhood selects the subset of agents an LNS iteration destroys and
// repairs. Every implementation must be
// deterministic given rng's state, and must return a non-empty selection
// whenever agents is non-empty.
type Neighborhood interface {
	Select(rng *rand.Rand, agents []core.Agent, sol core.Solution, size int) []core.AgentID
}

func clampSize(size, n int) int {
	if size > n {
		return n
	}
	if size < 1 {
		return 1
	}
	return size
}

// UniformRandom selects agents uniformly at random without replacement.
type UniformRandom struct{}

func (UniformRandom) Select(rng *rand.Rand, agents []core.Agent, _ core.Solution, size int) []core.AgentID {
	size = clampSize(size, len(agents))
	perm := rng.Perm(len(agents))
	out := make([]core.AgentID, size)
	for i := 0; i < size; i++ {
		out[i] = agents[perm[i]].ID
	}
	return out
}

// RandomWalk seeds the neighborhood with one random agent, then
// repeatedly grows it by adding the unselected agent whose start or goal
// is spatially closest (Manhattan distance) to any agent already in the
// neighborhood. Nearby agents are the ones most likely to be tangled in
// the same congestion, so replanning them together frees more cost than
// uniform sampling does.
type RandomWalk struct{}

func (RandomWalk) Select(rng *rand.Rand, agents []core.Agent, _ core.Solution, size int) []core.AgentID {
	size = clampSize(size, len(agents))
	if len(agents) == 0 {
		return nil
	}

	remaining := make([]core.Agent, len(agents))
	copy(remaining, agents)

	seedIdx := rng.Intn(len(remaining))
	selected := []core.Agent{remaining[seedIdx]}
	remaining = append(remaining[:seedIdx], remaining[seedIdx+1:]...)

	for len(selected) < size && len(remaining) > 0 {
		bestIdx, bestDist := -1, -1
		for i, cand := range remaining {
			d := closestDistance(cand, selected)
			if bestIdx == -1 || d < bestDist {
				bestIdx, bestDist = i, d
			}
		}
		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	out := make([]core.AgentID, len(selected))
	for i, a := range selected {
		out[i] = a.ID
	}
	return out
}

func closestDistance(cand core.Agent, selected []core.Agent) int {
	best := -1
	for _, s := range selected {
		for _, d := range []int{
			cand.Start.Manhattan(s.Start),
			cand.Start.Manhattan(s.Goal),
			cand.Goal.Manhattan(s.Start),
			cand.Goal.Manhattan(s.Goal),
		} {
			if best == -1 || d < best {
				best = d
			}
		}
	}
	return best
}

// MostConstrained biases toward agents whose current path is longest
// relative to their Manhattan lower bound: agents detouring the most are
// the ones most likely to benefit from being replanned together.
type MostConstrained struct{}

func (MostConstrained) Select(rng *rand.Rand, agents []core.Agent, sol core.Solution, size int) []core.AgentID {
	size = clampSize(size, len(agents))

	type scored struct {
		id    core.AgentID
		slack int
	}
	scores := make([]scored, len(agents))
	for i, a := range agents {
		lower := a.Start.Manhattan(a.Goal)
		cost := sol[a.ID].Cost()
		scores[i] = scored{id: a.ID, slack: cost - lower}
	}
	// Stable by slack descending; ties broken by a seeded shuffle so the
	// policy stays deterministic-but-not-always-identical across seeds.
	rng.Shuffle(len(scores), func(i, j int) { scores[i], scores[j] = scores[j], scores[i] })
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].slack > scores[j].slack })

	out := make([]core.AgentID, size)
	for i := 0; i < size; i++ {
		out[i] = scores[i].id
	}
	return out
}
