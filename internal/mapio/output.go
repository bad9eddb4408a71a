package mapio

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/elektrokombinacija/mapf-lns/internal/core"
	"github.com/elektrokombinacija/mapf-lns/internal/lns"
)

// WritePaths writes one line per agent in ascending AgentID order:
// "Agent <id>: (r0,c0) -> (r1,c1) -> ... -> (rN,cN)".
func WritePaths(path string, sol core.Solution) error {
	f, err := os.Create(path)
	if err != nil {
		return newErr(ConfigError, "creating paths output %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := FormatPaths(w, sol); err != nil {
		return err
	}
	return w.Flush()
}

// FormatPaths writes the paths output format to w.
func FormatPaths(w io.Writer, sol core.Solution) error {
	ids := make([]core.AgentID, 0, len(sol))
	for id := range sol {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		cells := make([]string, len(sol[id]))
		for i, c := range sol[id] {
			cells[i] = c.String()
		}
		if _, err := fmt.Fprintf(w, "Agent %d: %s\n", id, strings.Join(cells, " -> ")); err != nil {
			return err
		}
	}
	return nil
}

var pathCellPattern = regexp.MustCompile(`\(([-0-9]+),([-0-9]+)(?:,([-0-9]+))?\)`)

// ParsePaths reads back the paths output format, preserving an optional
// third "(r,c,o)" orientation field verbatim for the collision-audit
// path. The core planner never produces or consumes it, but an external
// caller's orientation-tagged paths must round-trip. An agent whose line
// carried no orientation field on any cell gets no entry in the returned
// orientations map, so writers can tell "plain" apart from "orientation
// zero" and reproduce the plain form.
func ParsePaths(r io.Reader) (map[core.AgentID]core.Path, map[core.AgentID][]int, error) {
	scanner := bufio.NewScanner(r)
	paths := make(map[core.AgentID]core.Path)
	orientations := make(map[core.AgentID][]int)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var idStr, rest string
		if _, err := fmt.Sscanf(line, "Agent %s", &idStr); err != nil {
			return nil, nil, fmt.Errorf("malformed paths line %q: %w", line, err)
		}
		idStr = strings.TrimSuffix(idStr, ":")
		id, err := strconv.Atoi(idStr)
		if err != nil {
			return nil, nil, fmt.Errorf("malformed agent id in %q: %w", line, err)
		}
		if i := strings.Index(line, ":"); i >= 0 {
			rest = line[i+1:]
		}

		matches := pathCellPattern.FindAllStringSubmatch(rest, -1)
		path := make(core.Path, 0, len(matches))
		orients := make([]int, 0, len(matches))
		tagged := false
		for _, m := range matches {
			row, _ := strconv.Atoi(m[1])
			col, _ := strconv.Atoi(m[2])
			path = append(path, core.Cell{Row: row, Col: col})
			o := 0
			if m[3] != "" {
				o, _ = strconv.Atoi(m[3])
				tagged = true
			}
			orients = append(orients, o)
		}
		paths[core.AgentID(id)] = path
		if tagged {
			orientations[core.AgentID(id)] = orients
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	return paths, orientations, nil
}

// WriteStats writes the stats CSV:
// iteration,solution_cost,failed_iterations,runtime.
func WriteStats(path string, rows []lns.StatsRow) error {
	f, err := os.Create(path)
	if err != nil {
		return newErr(ConfigError, "creating stats output %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"iteration", "solution_cost", "failed_iterations", "runtime"}); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			strconv.Itoa(row.Iteration),
			strconv.Itoa(row.SolutionCost),
			strconv.Itoa(row.FailedIterations),
			fmt.Sprintf("%.6f", row.Runtime.Seconds()),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}
