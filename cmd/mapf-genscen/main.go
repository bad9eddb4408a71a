// Command mapf-genscen generates deterministic random map/scenario file
// pairs in the formats the planner consumes, for reproducible test
// fixtures and benchmark scaling studies.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"

	"github.com/elektrokombinacija/mapf-lns/internal/core"
)

func main() {
	width := flag.Int("width", 16, "Grid width")
	height := flag.Int("height", 16, "Grid height")
	obstacleDensity := flag.Float64("obstacleDensity", 0.1, "Fraction of cells blocked")
	numAgents := flag.Int("agents", 10, "Number of agents")
	seed := flag.Int64("seed", 1, "RNG seed")
	mapOut := flag.String("mapOut", "generated.map", "Output map file path")
	scenOut := flag.String("scenOut", "generated.scen", "Output scenario file path")
	mapName := flag.String("mapName", "generated.map", "Map filename recorded in the scenario's map column")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	passable, err := generateGrid(rng, *width, *height, *obstacleDensity)
	if err != nil {
		log.Fatal(err)
	}

	agents, err := placeAgents(rng, passable, *numAgents)
	if err != nil {
		log.Fatal(err)
	}

	if err := writeMap(*mapOut, passable); err != nil {
		log.Fatal(err)
	}
	if err := writeScenario(*scenOut, *mapName, *width, *height, agents); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("wrote %s (%dx%d, density=%.2f) and %s (%d agents)\n",
		*mapOut, *width, *height, *obstacleDensity, *scenOut, len(agents))
}

// generateGrid blocks cells at random up to obstacleDensity. It makes
// no attempt to guarantee full connectivity; the planner's own
// validation drops agents whose goal ends up walled off.
func generateGrid(rng *rand.Rand, width, height int, density float64) ([][]bool, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("mapf-genscen: width and height must be positive")
	}
	passable := make([][]bool, height)
	for r := range passable {
		passable[r] = make([]bool, width)
		for c := range passable[r] {
			passable[r][c] = rng.Float64() >= density
		}
	}
	return passable, nil
}

func placeAgents(rng *rand.Rand, passable [][]bool, n int) ([]core.Agent, error) {
	grid, err := core.NewGrid(passable)
	if err != nil {
		return nil, err
	}

	var open []core.Cell
	for r := 0; r < grid.Height(); r++ {
		for c := 0; c < grid.Width(); c++ {
			cell := core.Cell{Row: r, Col: c}
			if grid.Passable(cell) {
				open = append(open, cell)
			}
		}
	}
	if len(open) < 2 {
		return nil, fmt.Errorf("mapf-genscen: not enough passable cells to place agents")
	}

	usedStart := make(map[core.Cell]bool)
	usedGoal := make(map[core.Cell]bool)
	agents := make([]core.Agent, 0, n)

	const maxAttemptsPerAgent = 200
	for id := 0; id < n; id++ {
		var start, goal core.Cell
		found := false
		for attempt := 0; attempt < maxAttemptsPerAgent; attempt++ {
			start = open[rng.Intn(len(open))]
			goal = open[rng.Intn(len(open))]
			if usedStart[start] || usedGoal[goal] || start == goal {
				continue
			}
			found = true
			break
		}
		if !found {
			break // grid too small/dense for the requested agent count
		}
		usedStart[start] = true
		usedGoal[goal] = true
		agents = append(agents, core.Agent{ID: core.AgentID(id), Start: start, Goal: goal})
	}
	return agents, nil
}

func writeMap(path string, passable [][]bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	height := len(passable)
	width := 0
	if height > 0 {
		width = len(passable[0])
	}

	fmt.Fprintln(f, "type octile")
	fmt.Fprintf(f, "height %d\n", height)
	fmt.Fprintf(f, "width %d\n", width)
	fmt.Fprintln(f, "map")
	for _, row := range passable {
		var sb strings.Builder
		for _, ok := range row {
			if ok {
				sb.WriteByte('.')
			} else {
				sb.WriteByte('@')
			}
		}
		fmt.Fprintln(f, sb.String())
	}
	return nil
}

func writeScenario(path, mapName string, width, height int, agents []core.Agent) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintln(f, "version 1")
	for _, a := range agents {
		optimal := a.Start.Manhattan(a.Goal)
		fmt.Fprintf(f, "%d\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
			a.ID, mapName, width, height,
			a.Start.Col, a.Start.Row, a.Goal.Col, a.Goal.Row, optimal)
	}
	return nil
}
