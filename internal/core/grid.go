// Package core defines the domain model shared by every MAPF component:
// the grid, agents, paths, and solutions.
package core

import (
	"fmt"

	"github.com/katalvlaran/lvlath/core"
	"github.com/katalvlaran/lvlath/gridgraph"
)

// Cell is a (row, col) location on the grid.
type Cell struct {
	Row, Col int
}

// String renders a cell as "(row,col)" matching the paths output format.
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Manhattan returns the L1 distance between two cells.
func (c Cell) Manhattan(o Cell) int {
	return absInt(c.Row-o.Row) + absInt(c.Col-o.Col)
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Neighbors4 returns c's four grid-adjacent cells, in a fixed N,S,W,E order
// so callers that iterate it get deterministic tie-breaking.
func (c Cell) Neighbors4() [4]Cell {
	return [4]Cell{
		{c.Row - 1, c.Col},
		{c.Row + 1, c.Col},
		{c.Row, c.Col - 1},
		{c.Row, c.Col + 1},
	}
}

// Grid is an immutable H x W passable/blocked bitmap, built once at load
// time and shared read-only by every component. It is backed by
// lvlath's gridgraph.GridGraph: passable cells are "land" (value 1),
// blocked cells are "water" (value 0), under 4-connectivity.
type Grid struct {
	gg *gridgraph.GridGraph
}

// NewGrid builds a Grid from passable[row][col]; true means passable.
// All rows must have equal length (a non-rectangular grid is a ParseError
// at the mapio layer, not a Grid concern).
func NewGrid(passable [][]bool) (*Grid, error) {
	if len(passable) == 0 || len(passable[0]) == 0 {
		return nil, gridgraph.ErrEmptyGrid
	}
	values := make([][]int, len(passable))
	for r, row := range passable {
		values[r] = make([]int, len(row))
		for c, ok := range row {
			if ok {
				values[r][c] = 1
			}
		}
	}
	gg, err := gridgraph.NewGridGraph(values, gridgraph.GridOptions{
		LandThreshold: 1,
		Conn:          gridgraph.Conn4,
	})
	if err != nil {
		return nil, err
	}
	return &Grid{gg: gg}, nil
}

// Height returns H.
func (g *Grid) Height() int { return g.gg.Height }

// Width returns W.
func (g *Grid) Width() int { return g.gg.Width }

// InBounds reports whether c lies within the grid.
func (g *Grid) InBounds(c Cell) bool {
	return g.gg.InBounds(c.Col, c.Row)
}

// Passable reports whether c is within bounds and not blocked.
func (g *Grid) Passable(c Cell) bool {
	if !g.InBounds(c) {
		return false
	}
	return g.gg.CellValues[c.Row][c.Col] >= g.gg.LandThreshold
}

// Neighbors returns the passable, in-bounds 4-neighbors of c. Waiting in
// place is not included here; callers add it explicitly where the search
// treats it as a distinct action (see planner.SpaceTimeAStar).
func (g *Grid) Neighbors(c Cell) []Cell {
	var out []Cell
	for _, n := range c.Neighbors4() {
		if g.Passable(n) {
			out = append(out, n)
		}
	}
	return out
}

// ToCoreGraph converts the grid into an unweighted *core.Graph of passable
// cells only, for use with lvlath's traversal algorithms (e.g. the
// reachability check in Instance.Validate). The graph must stay unweighted:
// lvlath's bfs.BFS rejects weighted graphs, so edges are added with weight 0.
func (g *Grid) ToCoreGraph() *core.Graph {
	full := g.gg.ToCoreGraph()
	gr := core.NewGraph()
	for id, v := range full.InternalVertices() {
		val, _ := v.Metadata["value"].(int)
		if val < g.gg.LandThreshold {
			continue
		}
		_ = gr.AddVertex(id)
	}
	for _, e := range full.Edges() {
		if !gr.HasVertex(e.From) || !gr.HasVertex(e.To) {
			continue
		}
		_, _ = gr.AddEdge(e.From, e.To, 0)
	}
	return gr
}

// VertexID mirrors gridgraph's "col,row" vertex naming, so callers of
// lvlath's graph algorithms (bfs, dijkstra, ...) can map a Cell to the
// vertex ID they need to pass in.
func (g *Grid) VertexID(c Cell) string {
	return fmt.Sprintf("%d,%d", c.Col, c.Row)
}
