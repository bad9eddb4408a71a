package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/mapf-lns/internal/core"
)

func emptyGrid(t *testing.T, h, w int) *core.Grid {
	t.Helper()
	rows := make([][]bool, h)
	for r := range rows {
		rows[r] = make([]bool, w)
		for c := range rows[r] {
			rows[r][c] = true
		}
	}
	g, err := core.NewGrid(rows)
	require.NoError(t, err)
	return g
}

func TestGrid_PassableAndBounds(t *testing.T) {
	rows := [][]bool{
		{true, true, true},
		{true, false, true},
		{true, true, true},
	}
	g, err := core.NewGrid(rows)
	require.NoError(t, err)

	require.Equal(t, 3, g.Height())
	require.Equal(t, 3, g.Width())
	require.True(t, g.Passable(core.Cell{Row: 0, Col: 0}))
	require.False(t, g.Passable(core.Cell{Row: 1, Col: 1}))
	require.False(t, g.Passable(core.Cell{Row: -1, Col: 0}))
	require.False(t, g.Passable(core.Cell{Row: 0, Col: 3}))
}

func TestGrid_NewGrid_RejectsEmpty(t *testing.T) {
	_, err := core.NewGrid(nil)
	require.Error(t, err)
}

func TestGrid_Neighbors(t *testing.T) {
	g := emptyGrid(t, 3, 3)
	nbs := g.Neighbors(core.Cell{Row: 1, Col: 1})
	require.Len(t, nbs, 4)

	corner := g.Neighbors(core.Cell{Row: 0, Col: 0})
	require.Len(t, corner, 2)
}

func TestCell_Manhattan(t *testing.T) {
	a := core.Cell{Row: 0, Col: 0}
	b := core.Cell{Row: 3, Col: 4}
	require.Equal(t, 7, a.Manhattan(b))
	require.Equal(t, 0, a.Manhattan(a))
}

func TestCell_String(t *testing.T) {
	require.Equal(t, "(2,3)", core.Cell{Row: 2, Col: 3}.String())
}
