package layout

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"github.com/matzehuels/stackplot/pkg/diagram"
	"github.com/matzehuels/stackplot/pkg/errors"
)

// Cell addresses a grid cell.
type Cell struct {
	Row, Col int
}

func compareCells(a, b Cell) int {
	return cmp.Or(cmp.Compare(a.Row, b.Row), cmp.Compare(a.Col, b.Col))
}

// Grid lays out a sparse mapping from cells to children. A column is as wide
// as its widest child plus the cell insets; a row is as tall as its tallest.
// Rows and columns without children take no space, so sizing depends only
// on which cells are occupied, never on insertion order.
type Grid struct {
	diagram.Base
	cells map[Cell]diagram.Element
	s     settings
	err   error

	colWidths  map[int]float64
	rowHeights map[int]float64
}

// NewGrid returns an empty grid.
func NewGrid(opts ...Option) (*Grid, error) {
	s, err := apply(opts)
	if err != nil {
		return nil, err
	}
	return &Grid{Base: diagram.NewBase(), cells: make(map[Cell]diagram.Element), s: s}, nil
}

// Add puts child in the cell at (row, col) and returns the grid for
// chaining. Negative coordinates and occupied cells are configuration
// errors.
func (g *Grid) Add(row, col int, child diagram.Element) *Grid {
	fail := func(err error) *Grid {
		if g.err == nil {
			g.err = err
		}
		return g
	}
	if row < 0 || col < 0 {
		return fail(errors.New(errors.ErrCodeInvalidConfig, "grid %s: negative cell (%d, %d)", g.ID(), row, col))
	}
	c := Cell{row, col}
	if _, taken := g.cells[c]; taken {
		return fail(errors.New(errors.ErrCodeInvalidConfig, "grid %s: cell (%d, %d) already occupied", g.ID(), row, col))
	}
	if err := diagram.Claim(child, g.ID()); err != nil {
		return fail(err)
	}
	g.cells[c] = child
	return g
}

// At returns the child at (row, col).
func (g *Grid) At(row, col int) (diagram.Element, bool) {
	el, ok := g.cells[Cell{row, col}]
	return el, ok
}

// Children implements diagram.Container, in row-major order.
func (g *Grid) Children() []diagram.Element {
	out := make([]diagram.Element, 0, len(g.cells))
	for _, c := range g.occupied() {
		out = append(out, g.cells[c])
	}
	return out
}

func (g *Grid) occupied() []Cell {
	return slices.SortedFunc(maps.Keys(g.cells), compareCells)
}

// ColumnWidths returns the width of every occupied column. Valid after
// Measure.
func (g *Grid) ColumnWidths() map[int]float64 { return maps.Clone(g.colWidths) }

// RowHeights returns the height of every occupied row. Valid after Measure.
func (g *Grid) RowHeights() map[int]float64 { return maps.Clone(g.rowHeights) }

// Measure sizes every occupied row and column from the children in it.
func (g *Grid) Measure(f diagram.Format) error {
	if g.err != nil {
		return g.err
	}
	return g.MeasureOnce(func() (float64, float64, error) {
		in := g.s.cellInsets
		cols := make(map[int]float64)
		rows := make(map[int]float64)
		for _, c := range g.occupied() {
			el := g.cells[c]
			if err := el.Measure(f); err != nil {
				return 0, 0, fmt.Errorf("grid %s cell (%d, %d): %w", g.ID(), c.Row, c.Col, err)
			}
			cols[c.Col] = max(cols[c.Col], el.Width()+in.Horizontal())
			rows[c.Row] = max(rows[c.Row], el.Height()+in.Vertical())
		}

		_, w := offsets(cols)
		_, h := offsets(rows)
		if g.s.fixedW > 0 {
			if w > g.s.fixedW {
				return 0, 0, errors.New(errors.ErrCodeLayout,
					"grid %s: columns need %.1f, only %.1f allotted", g.ID(), w, g.s.fixedW)
			}
			w = g.s.fixedW
		}
		if g.s.fixedH > 0 {
			if h > g.s.fixedH {
				return 0, 0, errors.New(errors.ErrCodeLayout,
					"grid %s: rows need %.1f, only %.1f allotted", g.ID(), h, g.s.fixedH)
			}
			h = g.s.fixedH
		}
		g.colWidths, g.rowHeights = cols, rows
		return w, h, nil
	})
}

// offsets turns sizes keyed by index into start offsets, walking the
// occupied indices in ascending order.
func offsets(sizes map[int]float64) (map[int]float64, float64) {
	out := make(map[int]float64, len(sizes))
	var cursor float64
	for _, i := range slices.Sorted(maps.Keys(sizes)) {
		out[i] = cursor
		cursor += sizes[i]
	}
	return out, cursor
}

// Place walks rows top to bottom and columns left to right. Inside its cell
// a child is anchored horizontally by its justification and centered
// vertically.
func (g *Grid) Place(s *diagram.Surface, cx, cy float64) error {
	if err := g.CheckMeasured(); err != nil {
		return err
	}
	s.Record(g, cx, cy)

	colAt, contentW := offsets(g.colWidths)
	rowAt, contentH := offsets(g.rowHeights)
	left, top := cx-contentW/2, cy-contentH/2
	in := g.s.cellInsets

	return s.Group(fmt.Sprintf(`id="%s" class="sp-grid"`, g.ID()), func() error {
		for _, c := range g.occupied() {
			el := g.cells[c]
			cellL := left + colAt[c.Col] + in.Left
			cellR := left + colAt[c.Col] + g.colWidths[c.Col] - in.Right
			cellT := top + rowAt[c.Row] + in.Top
			cellB := top + rowAt[c.Row] + g.rowHeights[c.Row] - in.Bottom

			childCX := diagram.Anchor(el.Justification(), cellL, cellR, el.Width())
			if err := el.Place(s, childCX, (cellT+cellB)/2); err != nil {
				return fmt.Errorf("grid %s cell (%d, %d): %w", g.ID(), c.Row, c.Col, err)
			}
		}
		return nil
	})
}
