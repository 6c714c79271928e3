// Package board implements the fixed-size occupancy grid that pieces are
// dropped onto.
package board

import (
	"github.com/domino14/stacker/piece"
)

const (
	DefaultRows = 20
	DefaultCols = 10
)

// Cell is the content of a single square. Zero means empty; any other
// value is occupied. Occupied cells carry the shape that filled them, which
// only matters for display.
type Cell uint8

const Empty Cell = 0

// CellFor returns the occupied marker for a shape.
func CellFor(s piece.Shape) Cell {
	return Cell(s) + 1
}

// Shape returns the shape that filled this cell. ok is false for empty
// cells and for generic markers.
func (c Cell) Shape() (piece.Shape, bool) {
	if c == Empty || c > piece.NumShapes {
		return 0, false
	}
	return piece.Shape(c - 1), true
}

// Filled is a generic occupied marker used for boards set up by hand.
const Filled Cell = 0xff

// Board stores a one-dimensional array of cells, row-major, row 0 on top.
type Board struct {
	cells        []Cell
	rows         int
	cols         int
	linesCleared int
}

// NewBoard makes an empty board. Dimensions never change afterwards.
func NewBoard(rows, cols int) *Board {
	return &Board{
		cells: make([]Cell, rows*cols),
		rows:  rows,
		cols:  cols,
	}
}

func (b *Board) Rows() int {
	return b.rows
}

func (b *Board) Cols() int {
	return b.cols
}

// LinesCleared is the number of rows removed by the most recent ClearLines.
func (b *Board) LinesCleared() int {
	return b.linesCleared
}

func (b *Board) inside(x, y int) bool {
	return x >= 0 && x < b.cols && y >= 0 && y < b.rows
}

// Cell returns the content of (x, y); out-of-range coordinates read as empty.
func (b *Board) Cell(x, y int) Cell {
	if !b.inside(x, y) {
		return Empty
	}
	return b.cells[y*b.cols+x]
}

// SetCell writes a cell. Out-of-range writes are ignored.
func (b *Board) SetCell(x, y int, c Cell) {
	if !b.inside(x, y) {
		return
	}
	b.cells[y*b.cols+x] = c
}

// Row returns a copy of row y.
func (b *Board) Row(y int) []Cell {
	r := make([]Cell, b.cols)
	copy(r, b.cells[y*b.cols:(y+1)*b.cols])
	return r
}

// Grid returns a copy of the whole board as rows, for renderers.
func (b *Board) Grid() [][]Cell {
	g := make([][]Cell, b.rows)
	for y := range g {
		g[y] = b.Row(y)
	}
	return g
}

// IsValidPosition returns true if every cell of p is within the side walls,
// above the floor, and on an empty square. Cells above the top row (y < 0)
// are treated as unobstructed.
func (b *Board) IsValidPosition(p piece.Piece) bool {
	for _, o := range p.Offsets() {
		x, y := p.X+o.DX, p.Y+o.DY
		if x < 0 || x >= b.cols || y >= b.rows {
			return false
		}
		if y < 0 {
			continue
		}
		if b.cells[y*b.cols+x] != Empty {
			return false
		}
	}
	return true
}

// PlacePiece writes p's cells into the board. It does not validate; callers
// check IsValidPosition first. Cells outside the board are dropped.
func (b *Board) PlacePiece(p piece.Piece) {
	marker := CellFor(p.Shape())
	for _, o := range p.Offsets() {
		b.SetCell(p.X+o.DX, p.Y+o.DY, marker)
	}
}

func (b *Board) rowFull(y int) bool {
	for _, c := range b.cells[y*b.cols : (y+1)*b.cols] {
		if c == Empty {
			return false
		}
	}
	return true
}

// ClearLines removes every full row, shifts the rest down preserving their
// order, and fills the top with empty rows. It returns (and records) the
// number of rows removed.
func (b *Board) ClearLines() int {
	write := b.rows - 1
	for read := b.rows - 1; read >= 0; read-- {
		if b.rowFull(read) {
			continue
		}
		if write != read {
			copy(b.cells[write*b.cols:(write+1)*b.cols], b.cells[read*b.cols:(read+1)*b.cols])
		}
		write--
	}
	cleared := write + 1
	for i := 0; i < cleared*b.cols; i++ {
		b.cells[i] = Empty
	}
	b.linesCleared = cleared
	return cleared
}

// CompleteRows counts rows that are currently full, without modifying the
// board.
func (b *Board) CompleteRows() int {
	n := 0
	for y := 0; y < b.rows; y++ {
		if b.rowFull(y) {
			n++
		}
	}
	return n
}

// ColumnHeights returns, for each column, rows minus the index of its
// topmost occupied cell, or 0 for an empty column.
func (b *Board) ColumnHeights() []int {
	heights := make([]int, b.cols)
	for x := 0; x < b.cols; x++ {
		for y := 0; y < b.rows; y++ {
			if b.cells[y*b.cols+x] != Empty {
				heights[x] = b.rows - y
				break
			}
		}
	}
	return heights
}

// Reset empties the board.
func (b *Board) Reset() {
	for i := range b.cells {
		b.cells[i] = Empty
	}
	b.linesCleared = 0
}

// Copy returns a deep copy of this board.
func (b *Board) Copy() *Board {
	nb := &Board{
		cells:        make([]Cell, len(b.cells)),
		rows:         b.rows,
		cols:         b.cols,
		linesCleared: b.linesCleared,
	}
	copy(nb.cells, b.cells)
	return nb
}

// CopyFrom copies the cells and counters of o into b. Both boards must have
// the same dimensions.
func (b *Board) CopyFrom(o *Board) {
	copy(b.cells, o.cells)
	b.linesCleared = o.linesCleared
}

// Cells exposes the raw row-major cell slice. Callers must not modify it.
func (b *Board) Cells() []Cell {
	return b.cells
}

// Equals returns true if both boards have the same dimensions and
// occupancy. Cell colors are ignored.
func (b *Board) Equals(o *Board) bool {
	if b.rows != o.rows || b.cols != o.cols {
		return false
	}
	for i := range b.cells {
		if (b.cells[i] == Empty) != (o.cells[i] == Empty) {
			return false
		}
	}
	return true
}
