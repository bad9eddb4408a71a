// Command mapf-lns runs the anytime Prioritized-Planning + LNS MAPF
// planner over a map/scenario pair.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/elektrokombinacija/mapf-lns/internal/collision"
	"github.com/elektrokombinacija/mapf-lns/internal/core"
	"github.com/elektrokombinacija/mapf-lns/internal/lns"
	"github.com/elektrokombinacija/mapf-lns/internal/mapio"
)

func main() {
	mapPath := flag.String("map", "", "Input map file (required)")
	agentsPath := flag.String("agents", "", "Input scenario file (required)")
	agentNum := flag.Int("agentNum", 0, "Number of agents to load (0 = all)")
	neighborSize := flag.Int("neighborSize", 8, "LNS neighborhood size")
	maxIterations := flag.Int("maxIterations", 10, "Maximum LNS iterations")
	cutoffTime := flag.Float64("cutoffTime", 60, "Time limit in seconds")
	outputPaths := flag.String("outputPaths", "", "Output file for paths")
	statsPath := flag.String("stats", "", "Output file for per-iteration stats CSV")
	screen := flag.Int("screen", 1, "Screen verbosity: 0 silent, 1 summary")
	seed := flag.Int64("seed", 0, "RNG seed for neighborhood selection")
	flag.Parse()

	if *mapPath == "" || *agentsPath == "" {
		fmt.Fprintln(os.Stderr, "mapf-lns: --map and --agents are required")
		flag.Usage()
		os.Exit(2)
	}

	grid, err := mapio.LoadMap(*mapPath)
	if err != nil {
		log.Fatal(err)
	}

	entries, err := mapio.LoadScenario(*agentsPath, *agentNum)
	if err != nil {
		log.Fatal(err)
	}
	agents := make([]core.Agent, len(entries))
	for i, e := range entries {
		agents[i] = e.Agent
	}

	inst := core.NewInstance(grid, agents)
	valid, placementErrs := inst.Validate()
	for _, pe := range placementErrs {
		fmt.Fprintf(os.Stderr, "mapf-lns: warning: %v (agent skipped)\n", pe)
	}
	if len(valid) == 0 {
		log.Fatal("mapf-lns: no valid agents remain after placement checks")
	}

	driver := lns.New(grid, valid, lns.Options{
		NeighborSize:  *neighborSize,
		MaxIterations: *maxIterations,
		TimeLimit:     time.Duration(*cutoffTime * float64(time.Second)),
		Seed:          *seed,
	})

	result, err := driver.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "mapf-lns: initial solution failed: %v\n", err)
		os.Exit(1)
	}

	if *screen > 0 {
		printSummary(result)
	}

	if *outputPaths != "" {
		if err := mapio.WritePaths(*outputPaths, result.Solution); err != nil {
			log.Fatal(err)
		}
	}
	if *statsPath != "" {
		if err := mapio.WriteStats(*statsPath, result.Stats); err != nil {
			log.Fatal(err)
		}
	}
}

func printSummary(result *lns.Result) {
	report := collision.Check(result.Solution)
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	if report.Clean() {
		fmt.Printf("%s solution cost = %d, %d iterations, %d failed\n",
			green("valid"), result.Solution.Cost(), len(result.Stats), result.FailedIterations)
	} else {
		fmt.Printf("%s solution has %d vertex and %d edge conflicts\n",
			yellow("INVALID"), len(report.Vertex), len(report.Edge))
	}
}
