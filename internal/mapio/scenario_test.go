package mapio_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/mapf-lns/internal/core"
	"github.com/elektrokombinacija/mapf-lns/internal/mapio"
)

const sampleScen = "version 1\n" +
	"0\tgenerated.map\t10\t10\t1\t2\t8\t9\t14\n" +
	"1\tgenerated.map\t10\t10\t0\t0\t0\t0\t0\n"

func TestParseScenario_TransposesColRowToRowCol(t *testing.T) {
	entries, err := mapio.ParseScenario(strings.NewReader(sampleScen), 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// File row is "start_col=1 start_row=2 goal_col=8 goal_row=9"; the
	// planner's convention is (row, col).
	require.Equal(t, core.Cell{Row: 2, Col: 1}, entries[0].Agent.Start)
	require.Equal(t, core.Cell{Row: 9, Col: 8}, entries[0].Agent.Goal)
	require.Equal(t, float64(14), entries[0].OptimalCost)
}

func TestParseScenario_AgentNumLimitsCount(t *testing.T) {
	entries, err := mapio.ParseScenario(strings.NewReader(sampleScen), 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestParseScenario_RejectsShortRows(t *testing.T) {
	const bad = "version 1\n0\tfoo\t1\t1\n"
	_, err := mapio.ParseScenario(strings.NewReader(bad), 0)
	require.Error(t, err)
}
