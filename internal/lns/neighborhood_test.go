package lns_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/mapf-lns/internal/core"
	"github.com/elektrokombinacija/mapf-lns/internal/lns"
)

func sampleAgents() []core.Agent {
	return []core.Agent{
		{ID: 0, Start: core.Cell{Row: 0, Col: 0}, Goal: core.Cell{Row: 0, Col: 3}},
		{ID: 1, Start: core.Cell{Row: 1, Col: 0}, Goal: core.Cell{Row: 1, Col: 3}},
		{ID: 2, Start: core.Cell{Row: 2, Col: 0}, Goal: core.Cell{Row: 2, Col: 3}},
		{ID: 3, Start: core.Cell{Row: 3, Col: 0}, Goal: core.Cell{Row: 3, Col: 3}},
	}
}

func TestUniformRandom_ReturnsDistinctAgentsCappedAtSize(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	agents := sampleAgents()

	selected := lns.UniformRandom{}.Select(rng, agents, nil, 2)
	require.Len(t, selected, 2)
	require.NotEqual(t, selected[0], selected[1])
}

func TestUniformRandom_ClampsToAgentCount(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	agents := sampleAgents()

	selected := lns.UniformRandom{}.Select(rng, agents, nil, 999)
	require.Len(t, selected, len(agents))
}

func TestRandomWalk_NonEmptyAndBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	agents := sampleAgents()

	selected := lns.RandomWalk{}.Select(rng, agents, nil, 3)
	require.Len(t, selected, 3)

	seen := make(map[core.AgentID]bool)
	for _, id := range selected {
		require.False(t, seen[id], "agent selected twice")
		seen[id] = true
	}
}

func TestMostConstrained_PrefersHighestSlack(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	agents := sampleAgents()
	sol := core.Solution{
		0: core.Path{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}, {Row: 0, Col: 3}},                                     // slack 0
		1: core.Path{{Row: 1, Col: 0}, {Row: 1, Col: 1}, {Row: 1, Col: 0}, {Row: 1, Col: 1}, {Row: 1, Col: 2}, {Row: 1, Col: 3}}, // slack 2
		2: core.Path{{Row: 2, Col: 0}, {Row: 2, Col: 1}, {Row: 2, Col: 2}, {Row: 2, Col: 3}},                                     // slack 0
		3: core.Path{{Row: 3, Col: 0}, {Row: 3, Col: 1}, {Row: 3, Col: 2}, {Row: 3, Col: 3}},                                     // slack 0
	}

	selected := lns.MostConstrained{}.Select(rng, agents, sol, 1)
	require.Equal(t, []core.AgentID{1}, selected)
}
