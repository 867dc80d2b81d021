package obstacles

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r2"

	"github.com/katalvlaran/sbarrt/space"
)

var (
	// ErrEmptyGrid indicates an occupancy grid with no rows or no columns.
	ErrEmptyGrid = errors.New("obstacles: grid must have at least one row and one column")

	// ErrNonRectangular indicates grid rows of differing lengths.
	ErrNonRectangular = errors.New("obstacles: all grid rows must have the same length")
)

// NoComponent labels blocked cells and points outside the grid.
const NoComponent = -1

// Grid is an occupancy grid stretched over a 2-D workspace. Row 0 of the
// input is the top row (largest y), as maps are usually written. A cell whose
// value is at least the threshold is blocked; blocked cells are closed
// squares.
//
// Free cells are labelled with 4-connected components at construction, so
// Connected answers in O(1) whether two points can possibly be joined.
type Grid struct {
	workspace     r2.Rect
	width, height int
	cellW, cellH  float64
	blocked       []bool  // row-major, y = 0 at the bottom
	labels        []int32 // component per cell, NoComponent when blocked
	components    int
}

// neighbours are the 4-connected offsets.
var neighbours = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// NewGrid builds a grid over [minX,maxX]x[minY,maxY] from rows of cell values.
//
// Complexity: O(W·H) time and memory.
func NewGrid(minX, minY, maxX, maxY float64, rows [][]int, threshold int) (*Grid, error) {
	if !finite(minX, minY, maxX, maxY) || minX >= maxX || minY >= maxY {
		return nil, fmt.Errorf("%w: (%g,%g)-(%g,%g)", ErrEmptyWorkspace, minX, minY, maxX, maxY)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	h, w := len(rows), len(rows[0])
	for _, row := range rows {
		if len(row) != w {
			return nil, ErrNonRectangular
		}
	}

	g := &Grid{
		workspace: r2.RectFromPoints(r2.Point{X: minX, Y: minY}, r2.Point{X: maxX, Y: maxY}),
		width:     w,
		height:    h,
		cellW:     (maxX - minX) / float64(w),
		cellH:     (maxY - minY) / float64(h),
		blocked:   make([]bool, w*h),
		labels:    make([]int32, w*h),
	}
	for r, row := range rows {
		y := h - 1 - r
		for x, v := range row {
			g.blocked[g.index(x, y)] = v >= threshold
		}
	}
	g.label()

	return g, nil
}

func (g *Grid) index(x, y int) int { return y*g.width + x }

func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// label assigns a component id to every free cell with a breadth-first sweep.
func (g *Grid) label() {
	for i := range g.labels {
		g.labels[i] = NoComponent
	}
	queue := make([]int, 0, len(g.labels))
	for i0, b := range g.blocked {
		if b || g.labels[i0] != NoComponent {
			continue
		}
		id := int32(g.components)
		g.components++
		g.labels[i0] = id
		queue = append(queue[:0], i0)
		for qi := 0; qi < len(queue); qi++ {
			u := queue[qi]
			ux, uy := u%g.width, u/g.width
			for _, d := range neighbours {
				vx, vy := ux+d[0], uy+d[1]
				if !g.inBounds(vx, vy) {
					continue
				}
				vi := g.index(vx, vy)
				if g.blocked[vi] || g.labels[vi] != NoComponent {
					continue
				}
				g.labels[vi] = id
				queue = append(queue, vi)
			}
		}
	}
}

// cells returns every cell whose closed square contains p: one in the
// interior, up to four on grid lines. ok is false outside the workspace.
func (g *Grid) cells(p space.Point) (out []int, ok bool) {
	if len(p) != 2 || !p.Finite() || !g.workspace.ContainsPoint(r2.Point{X: p[0], Y: p[1]}) {
		return nil, false
	}
	fx := (p[0] - g.workspace.X.Lo) / g.cellW
	fy := (p[1] - g.workspace.Y.Lo) / g.cellH
	xs := span(fx, g.width)
	ys := span(fy, g.height)
	for _, y := range ys {
		for _, x := range xs {
			out = append(out, g.index(x, y))
		}
	}

	return out, true
}

// span returns the cell columns (or rows) touching coordinate f in [0, n].
func span(f float64, n int) []int {
	i := min(int(math.Floor(f)), n-1)
	if i > 0 && float64(i) == f {
		return []int{i - 1, i}
	}

	return []int{i}
}

// IsFree reports whether p lies in the workspace and touches no blocked cell.
func (g *Grid) IsFree(p space.Point) bool {
	cs, ok := g.cells(p)
	if !ok {
		return false
	}
	for _, c := range cs {
		if g.blocked[c] {
			return false
		}
	}

	return true
}

// Component returns the free component containing p, or NoComponent.
func (g *Grid) Component(p space.Point) int {
	if !g.IsFree(p) {
		return NoComponent
	}
	cs, _ := g.cells(p)

	return int(g.labels[cs[0]])
}

// Connected reports whether a and b are free and in the same component.
// A false result proves no collision-free path exists.
func (g *Grid) Connected(a, b space.Point) bool {
	ca := g.Component(a)

	return ca != NoComponent && ca == g.Component(b)
}

// NumComponents returns the number of free components.
func (g *Grid) NumComponents() int { return g.components }

// Size returns the grid width and height in cells.
func (g *Grid) Size() (width, height int) { return g.width, g.height }

// AllOf combines validity oracles: a point is free when every oracle agrees.
func AllOf(vs ...space.Validity) space.Validity {
	return space.ValidityFunc(func(p space.Point) bool {
		for _, v := range vs {
			if !v.IsFree(p) {
				return false
			}
		}

		return true
	})
}

var (
	_ space.Validity = (*Grid)(nil)
	_ space.Validity = (*Field)(nil)
)
