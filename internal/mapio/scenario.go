package mapio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/elektrokombinacija/mapf-lns/internal/core"
)

// ScenarioEntry is one line of a scenario file, plus the optimal_cost
// column. The column is kept around for cmd/mapf-analyze; the core
// planner itself has no use for the optimal cost of another solver's run.
type ScenarioEntry struct {
	Agent       core.Agent
	OptimalCost float64
}

// LoadScenario reads a scenario file: a `version 1` header
// line, then tab-separated rows of
// id,map,W,H,start_col,start_row,goal_col,goal_row,optimal_cost. Note the
// column-first ordering in the file versus the planner's (row,col)
// convention; this is where that transposition happens, once.
//
// If agentNum > 0, only the first agentNum entries are returned.
func LoadScenario(path string, agentNum int) ([]ScenarioEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newErr(ConfigError, "opening scenario file %s: %w", path, err)
	}
	defer f.Close()

	entries, err := ParseScenario(f, agentNum)
	if err != nil {
		return nil, newErr(ParseError, "parsing scenario file %s: %w", path, err)
	}
	return entries, nil
}

// ParseScenario parses the scenario format from r.
func ParseScenario(r io.Reader, agentNum int) ([]ScenarioEntry, error) {
	scanner := bufio.NewScanner(r)
	var entries []ScenarioEntry
	first := true

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if first {
			first = false
			if strings.HasPrefix(line, "version") {
				continue
			}
			// Some scenario files omit the version header; fall through
			// and parse this line as data.
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 9 {
			fields = strings.Fields(line)
		}
		if len(fields) < 9 {
			return nil, fmt.Errorf("scenario line has %d fields, want >= 9: %q", len(fields), line)
		}

		id, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("agent id %q: %w", fields[0], err)
		}
		startCol, err := strconv.Atoi(fields[4])
		if err != nil {
			return nil, fmt.Errorf("start_col %q: %w", fields[4], err)
		}
		startRow, err := strconv.Atoi(fields[5])
		if err != nil {
			return nil, fmt.Errorf("start_row %q: %w", fields[5], err)
		}
		goalCol, err := strconv.Atoi(fields[6])
		if err != nil {
			return nil, fmt.Errorf("goal_col %q: %w", fields[6], err)
		}
		goalRow, err := strconv.Atoi(fields[7])
		if err != nil {
			return nil, fmt.Errorf("goal_row %q: %w", fields[7], err)
		}
		optimal, err := strconv.ParseFloat(fields[8], 64)
		if err != nil {
			optimal = 0 // some generators omit a trustworthy optimal_cost; not fatal
		}

		entries = append(entries, ScenarioEntry{
			Agent: core.Agent{
				ID:    core.AgentID(id),
				Start: core.Cell{Row: startRow, Col: startCol},
				Goal:  core.Cell{Row: goalRow, Col: goalCol},
			},
			OptimalCost: optimal,
		})

		if agentNum > 0 && len(entries) >= agentNum {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
