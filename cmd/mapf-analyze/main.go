// Command mapf-analyze reports structural statistics about a map and
// scenario file, or a directory of them: obstacle density, connected
// components, the sum of per-agent Manhattan lower bounds versus the sum
// of the scenario's recorded optimal costs, and a histogram of the
// per-agent Manhattan distances.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/katalvlaran/lvlath/bfs"

	"github.com/elektrokombinacija/mapf-lns/internal/core"
	"github.com/elektrokombinacija/mapf-lns/internal/mapio"
)

func main() {
	mapPath := flag.String("map", "", "Input map file")
	agentsPath := flag.String("agents", "", "Input scenario file")
	dir := flag.String("dir", "", "Directory of map/scenario pairs to analyze in batch (each .scen is paired with the .map of the same base name)")
	flag.Parse()

	if *dir != "" {
		if err := runBatch(*dir); err != nil {
			log.Fatal(err)
		}
		return
	}

	if *mapPath == "" || *agentsPath == "" {
		fmt.Fprintln(os.Stderr, "mapf-analyze: --map and --agents are required (or use --dir for batch mode)")
		flag.Usage()
		os.Exit(2)
	}

	report, err := analyze(*mapPath, *agentsPath)
	if err != nil {
		log.Fatal(err)
	}
	printReport(*agentsPath, report)
}

// analysisReport summarizes one map/scenario pair.
type analysisReport struct {
	Width, Height    int
	ObstacleCount    int
	PassableCount    int
	Components       int
	NumAgents        int
	LowerBoundTotal  int
	OptimalCostTotal float64
	Histogram        map[int]int // Manhattan distance -> count
}

func analyze(mapPath, scenPath string) (*analysisReport, error) {
	grid, err := mapio.LoadMap(mapPath)
	if err != nil {
		return nil, err
	}
	entries, err := mapio.LoadScenario(scenPath, 0)
	if err != nil {
		return nil, err
	}

	report := &analysisReport{
		Width:     grid.Width(),
		Height:    grid.Height(),
		NumAgents: len(entries),
		Histogram: make(map[int]int),
	}

	for r := 0; r < grid.Height(); r++ {
		for c := 0; c < grid.Width(); c++ {
			if grid.Passable(core.Cell{Row: r, Col: c}) {
				report.PassableCount++
			} else {
				report.ObstacleCount++
			}
		}
	}

	report.Components = countComponents(grid)

	for _, e := range entries {
		d := e.Agent.Start.Manhattan(e.Agent.Goal)
		report.LowerBoundTotal += d
		report.OptimalCostTotal += e.OptimalCost
		report.Histogram[d]++
	}

	return report, nil
}

// countComponents counts connected components of passable cells by
// running BFS from every unvisited passable vertex. Fragmentation is a
// structural signal a raw obstacle-density percentage alone does not
// reveal.
func countComponents(grid *core.Grid) int {
	gr := grid.ToCoreGraph()
	visited := make(map[string]bool)
	components := 0

	for r := 0; r < grid.Height(); r++ {
		for c := 0; c < grid.Width(); c++ {
			cell := core.Cell{Row: r, Col: c}
			if !grid.Passable(cell) {
				continue
			}
			id := grid.VertexID(cell)
			if visited[id] {
				continue
			}
			res, err := bfs.BFS(gr, id)
			if err != nil {
				continue
			}
			for v := range res.Depth {
				visited[v] = true
			}
			visited[id] = true
			components++
		}
	}
	return components
}

func printReport(label string, r *analysisReport) {
	fmt.Printf("%s\n", label)
	fmt.Printf("  grid: %dx%d, %d passable, %d obstacles (%.1f%% density)\n",
		r.Width, r.Height, r.PassableCount, r.ObstacleCount, density(r))
	fmt.Printf("  connected components: %d\n", r.Components)
	fmt.Printf("  agents: %d, sum Manhattan lower bound: %d, sum recorded optimal cost: %.1f\n",
		r.NumAgents, r.LowerBoundTotal, r.OptimalCostTotal)
	printHistogram(r.Histogram)
}

func density(r *analysisReport) float64 {
	total := r.PassableCount + r.ObstacleCount
	if total == 0 {
		return 0
	}
	return 100 * float64(r.ObstacleCount) / float64(total)
}

func printHistogram(hist map[int]int) {
	if len(hist) == 0 {
		return
	}
	keys := make([]int, 0, len(hist))
	for k := range hist {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	fmt.Println("  Manhattan distance histogram:")
	for _, k := range keys {
		fmt.Printf("    %4d: %s (%d)\n", k, strings.Repeat("#", hist[k]), hist[k])
	}
}

// runBatch analyzes every *.scen file under dir concurrently, bounded by
// a small worker pool, then prints each file's report in path order
// (failures go to stderr). This is the only
// concurrency in the repository; it sits outside the single-threaded
// planner core entirely.
func runBatch(dir string) error {
	scenFiles, err := filepath.Glob(filepath.Join(dir, "*.scen"))
	if err != nil {
		return err
	}
	if len(scenFiles) == 0 {
		return fmt.Errorf("mapf-analyze: no .scen files found in %s", dir)
	}

	workers := runtime.NumCPU()
	if workers > len(scenFiles) {
		workers = len(scenFiles)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan string, len(scenFiles))
	results := make(chan batchResult, len(scenFiles))
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for scenPath := range jobs {
				mapPath := resolveMapPath(dir, scenPath)
				report, err := analyze(mapPath, scenPath)
				results <- batchResult{scenPath: scenPath, report: report, err: err}
			}
		}()
	}
	for _, s := range scenFiles {
		jobs <- s
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	collected := make([]batchResult, 0, len(scenFiles))
	for r := range results {
		collected = append(collected, r)
	}
	sort.Slice(collected, func(i, j int) bool { return collected[i].scenPath < collected[j].scenPath })

	for _, r := range collected {
		if r.err != nil {
			fmt.Fprintf(os.Stderr, "mapf-analyze: %s: %v\n", r.scenPath, r.err)
			continue
		}
		printReport(r.scenPath, r.report)
	}
	return nil
}

type batchResult struct {
	scenPath string
	report   *analysisReport
	err      error
}

// resolveMapPath guesses the companion map file for a scenario by
// dropping the .scen extension and trying a .map sibling in the same
// directory. Scenario files in this format don't reliably carry a
// usable path in their map column, only a bare filename.
func resolveMapPath(dir, scenPath string) string {
	base := strings.TrimSuffix(filepath.Base(scenPath), filepath.Ext(scenPath))
	return filepath.Join(dir, base+".map")
}
