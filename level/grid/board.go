package grid

import (
	"fmt"

	"github.com/playproof/levelproof/level/geom"
)

// Board is an owned two-dimensional cell array decoded from a GridSpec.
// Mutation is index-based; each caller works on its own copy, so there are
// no aliasing concerns.
type Board struct {
	Cols  int
	Rows  int
	cells [][]Cell
}

// ParseBoard decodes a GridSpec into a Board. It fails on dimension
// mismatches, short or long rows, and tokens outside the alphabet; these are
// the same conditions the validator reports as structural errors.
func ParseBoard(spec GridSpec) (*Board, error) {
	if spec.Cols <= 0 || spec.Rows <= 0 {
		return nil, fmt.Errorf("grid dimensions must be positive, got %dx%d", spec.Cols, spec.Rows)
	}
	if len(spec.Tiles) != spec.Rows {
		return nil, fmt.Errorf("grid has %d rows, expected %d", len(spec.Tiles), spec.Rows)
	}

	b := &Board{
		Cols:  spec.Cols,
		Rows:  spec.Rows,
		cells: make([][]Cell, spec.Rows),
	}
	for y, row := range spec.Tiles {
		if len(row) != spec.Cols {
			return nil, fmt.Errorf("row %d has %d tokens, expected %d", y, len(row), spec.Cols)
		}
		b.cells[y] = make([]Cell, spec.Cols)
		for x := 0; x < spec.Cols; x++ {
			c, ok := CellForToken(row[x])
			if !ok {
				return nil, fmt.Errorf("unknown token %q at (%d,%d)", row[x], x, y)
			}
			b.cells[y][x] = c
		}
	}
	return b, nil
}

// NewBoard creates an empty board of the given size.
func NewBoard(cols, rows int) *Board {
	b := &Board{Cols: cols, Rows: rows, cells: make([][]Cell, rows)}
	for y := range b.cells {
		b.cells[y] = make([]Cell, cols)
	}
	return b
}

// At returns the cell at (x, y).
func (b *Board) At(x, y int) Cell {
	return b.cells[y][x]
}

// Set replaces the cell at (x, y).
func (b *Board) Set(x, y int, c Cell) {
	b.cells[y][x] = c
}

// InBounds reports whether (x, y) is a valid tile coordinate.
func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < b.Cols && y >= 0 && y < b.Rows
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	cp := NewBoard(b.Cols, b.Rows)
	for y := range b.cells {
		copy(cp.cells[y], b.cells[y])
	}
	return cp
}

// Find returns the coordinates of every cell equal to c, in row-major order.
func (b *Board) Find(c Cell) []geom.Point {
	var out []geom.Point
	for y := 0; y < b.Rows; y++ {
		for x := 0; x < b.Cols; x++ {
			if b.cells[y][x] == c {
				out = append(out, geom.Point{X: x, Y: y})
			}
		}
	}
	return out
}

// Count returns how many cells equal c.
func (b *Board) Count(c Cell) int {
	n := 0
	for y := 0; y < b.Rows; y++ {
		for x := 0; x < b.Cols; x++ {
			if b.cells[y][x] == c {
				n++
			}
		}
	}
	return n
}

// TileRows re-encodes the board into token rows, the inverse of ParseBoard.
func (b *Board) TileRows() []string {
	rows := make([]string, b.Rows)
	buf := make([]byte, b.Cols)
	for y := 0; y < b.Rows; y++ {
		for x := 0; x < b.Cols; x++ {
			t, err := b.cells[y][x].Token()
			if err != nil {
				t = '.'
			}
			buf[x] = t
		}
		rows[y] = string(buf)
	}
	return rows
}
