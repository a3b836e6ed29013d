package universe

import (
	"math"
	"slices"

	"github.com/pthm-cable/contagion/agents"
)

// maxGridCells bounds the grid along each axis.
const maxGridCells = 256

// pair is a candidate collision between humans i < j.
type pair struct{ i, j int }

// pairGrid buckets living humans into square cells at least as wide as
// the largest collision distance, so every overlapping pair lies in the
// same or an adjacent cell.
type pairGrid struct {
	cellSize   float64
	cols, rows int
	cells      [][]int
	pairs      []pair
}

// reset sizes the grid for the arena and empties every cell.
func (g *pairGrid) reset(width, height, minCell float64) {
	cellSize := math.Max(minCell, math.Max(width, height)/maxGridCells)
	if !(cellSize > 0) {
		cellSize = math.Max(width, height)
	}
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1

	g.cellSize = cellSize
	if cols*rows > cap(g.cells) {
		g.cells = make([][]int, cols*rows)
	}
	g.cells = g.cells[:cols*rows]
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	g.cols, g.rows = cols, rows
}

// cell returns the clamped cell coordinates of a position.
func (g *pairGrid) cell(x, y float64) (col, row int) {
	return clampCell(x/g.cellSize, g.cols), clampCell(y/g.cellSize, g.rows)
}

func clampCell(f float64, n int) int {
	switch {
	case !(f >= 0):
		return 0
	case f >= float64(n):
		return n - 1
	default:
		return int(f)
	}
}

// candidates returns every pair of living humans in touching cells,
// sorted by i then j. It is a superset of the colliding pairs.
func (g *pairGrid) candidates(humans []agents.Human, width, height float64) []pair {
	var maxR float64
	for i := range humans {
		if !humans[i].IsDead() && humans[i].Thickness > maxR {
			maxR = humans[i].Thickness
		}
	}
	g.reset(width, height, 2*maxR)

	for i := range humans {
		if humans[i].IsDead() {
			continue
		}
		col, row := g.cell(humans[i].Pos.X, humans[i].Pos.Y)
		idx := row*g.cols + col
		g.cells[idx] = append(g.cells[idx], i)
	}

	g.pairs = g.pairs[:0]
	for i := range humans {
		if humans[i].IsDead() {
			continue
		}
		col, row := g.cell(humans[i].Pos.X, humans[i].Pos.Y)
		for r := max(row-1, 0); r <= min(row+1, g.rows-1); r++ {
			for c := max(col-1, 0); c <= min(col+1, g.cols-1); c++ {
				for _, j := range g.cells[r*g.cols+c] {
					if j > i {
						g.pairs = append(g.pairs, pair{i, j})
					}
				}
			}
		}
	}

	slices.SortFunc(g.pairs, func(a, b pair) int {
		if a.i != b.i {
			return a.i - b.i
		}
		return a.j - b.j
	})
	return g.pairs
}
