package main

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/mapf-lns/internal/core"
	"github.com/elektrokombinacija/mapf-lns/internal/mapio"
)

func TestRewriteWithOrientation_RoundTrips(t *testing.T) {
	paths := map[core.AgentID]core.Path{
		0: {{Row: 0, Col: 0}, {Row: 0, Col: 1}},
	}
	orientations := map[core.AgentID][]int{
		0: {3, 1},
	}

	dir := t.TempDir()
	out := dir + "/rewritten.paths"
	require.NoError(t, rewriteWithOrientation(out, paths, orientations))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()

	roundTripped, roundTrippedOrients, err := mapio.ParsePaths(f)
	require.NoError(t, err)
	require.Equal(t, paths[0], roundTripped[0])
	require.Equal(t, orientations[0], roundTrippedOrients[0])
}

// Parsing a plain paths file and rewriting it must reproduce the plain
// form verbatim, not fabricate an orientation of 0 on every cell.
func TestRewriteWithOrientation_PlainFileStaysPlain(t *testing.T) {
	const input = "Agent 0: (1,1) -> (1,2)\n"
	paths, orientations, err := mapio.ParsePaths(strings.NewReader(input))
	require.NoError(t, err)

	dir := t.TempDir()
	out := dir + "/rewritten.paths"
	require.NoError(t, rewriteWithOrientation(out, paths, orientations))

	rewritten, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, input, string(rewritten))
}

func TestSortedIDs(t *testing.T) {
	paths := map[core.AgentID]core.Path{
		3: nil,
		1: nil,
		2: nil,
	}
	require.Equal(t, []core.AgentID{1, 2, 3}, sortedIDs(paths))
}
