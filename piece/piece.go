// Package piece contains the seven tetrominoes and their rotation states.
// A Piece is a small value type: its occupancy matrix is always derived from
// its shape and rotation index, so copying a Piece by value is a deep copy.
package piece

import (
	"errors"
	"fmt"
	"strings"
)

// Shape is one of the seven standard tetromino kinds.
type Shape uint8

const (
	I Shape = iota
	O
	T
	S
	Z
	J
	L

	NumShapes = 7
)

// SpawnX and SpawnY are the anchor coordinates of a freshly created piece.
const (
	SpawnX = 3
	SpawnY = 0
)

var ErrUnknownShape = errors.New("unknown shape")

var shapeNames = [NumShapes]string{"I", "O", "T", "S", "Z", "J", "L"}

// AllShapes lists the shapes in their canonical order.
var AllShapes = [NumShapes]Shape{I, O, T, S, Z, J, L}

func (s Shape) String() string {
	if s >= NumShapes {
		return fmt.Sprintf("Shape(%d)", uint8(s))
	}
	return shapeNames[s]
}

// Valid returns true if s is one of the seven known shapes.
func (s Shape) Valid() bool {
	return s < NumShapes
}

// ShapeFromString parses a single-letter shape name, case-insensitively.
func ShapeFromString(str string) (Shape, error) {
	up := strings.ToUpper(strings.TrimSpace(str))
	for i, n := range shapeNames {
		if n == up {
			return Shape(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownShape, str)
}

// RGB is a display color. The game logic never looks at it.
type RGB struct {
	R, G, B uint8
}

var shapeColors = [NumShapes]RGB{
	I: {102, 204, 204},
	O: {255, 255, 153},
	T: {204, 153, 255},
	S: {153, 255, 153},
	Z: {255, 153, 153},
	J: {102, 153, 255},
	L: {255, 178, 102},
}

// Offset is a cell position relative to a piece's anchor.
type Offset struct {
	DX, DY int
}

// Cell is an absolute board coordinate.
type Cell struct {
	X, Y int
}

// rotationState is one pre-computed orientation.
type rotationState struct {
	matrix  [][]uint8
	offsets []Offset
	minCol  int
	maxCol  int
}

var rotations [NumShapes][]rotationState

func init() {
	for i, mats := range shapeMatrices {
		states := make([]rotationState, len(mats))
		for r, m := range mats {
			states[r] = newRotationState(m)
		}
		rotations[i] = states
	}
}

func newRotationState(m [][]uint8) rotationState {
	rs := rotationState{matrix: m, minCol: -1, maxCol: -1}
	for row := range m {
		for col, v := range m[row] {
			if v == 0 {
				continue
			}
			rs.offsets = append(rs.offsets, Offset{DX: col, DY: row})
			if rs.minCol == -1 || col < rs.minCol {
				rs.minCol = col
			}
			if col > rs.maxCol {
				rs.maxCol = col
			}
		}
	}
	return rs
}

// NumRotations returns the number of distinct rotation states of a shape.
func NumRotations(s Shape) int {
	return len(rotations[s])
}

// Piece is a tetromino in one rotation state, anchored at (X, Y): the board
// coordinate of the top-left corner of its matrix.
type Piece struct {
	shape    Shape
	rotation int
	X, Y     int
}

// New creates a piece of the given shape at the spawn anchor. It panics if
// the shape is unknown; that is a programming error, not a game condition.
func New(s Shape) Piece {
	if !s.Valid() {
		panic(fmt.Sprintf("%v: %d", ErrUnknownShape, uint8(s)))
	}
	return Piece{shape: s, X: SpawnX, Y: SpawnY}
}

func (p Piece) Shape() Shape {
	return p.shape
}

func (p Piece) Rotation() int {
	return p.rotation
}

func (p Piece) Color() RGB {
	return shapeColors[p.shape]
}

func (p *Piece) state() *rotationState {
	return &rotations[p.shape][p.rotation]
}

// Matrix returns the occupancy matrix for the current rotation. The returned
// rows are shared, read-only tables.
func (p Piece) Matrix() [][]uint8 {
	return p.state().matrix
}

// Offsets returns the occupied cells relative to the anchor.
func (p Piece) Offsets() []Offset {
	return p.state().offsets
}

// Rotate advances (clockwise) or retreats the rotation index modulo the
// number of rotation states.
func (p *Piece) Rotate(clockwise bool) {
	n := len(rotations[p.shape])
	if clockwise {
		p.rotation = (p.rotation + 1) % n
	} else {
		p.rotation = (p.rotation - 1 + n) % n
	}
}

// SetRotation sets the rotation index, modulo the number of states.
func (p *Piece) SetRotation(r int) {
	n := len(rotations[p.shape])
	p.rotation = ((r % n) + n) % n
}

// Translate moves the anchor. There is no bounds checking here.
func (p *Piece) Translate(dx, dy int) {
	p.X += dx
	p.Y += dy
}

// Cells returns the absolute coordinates of every occupied cell.
func (p Piece) Cells() []Cell {
	offs := p.state().offsets
	cells := make([]Cell, len(offs))
	for i, o := range offs {
		cells[i] = Cell{X: p.X + o.DX, Y: p.Y + o.DY}
	}
	return cells
}

// MinMaxColumn returns the smallest and largest occupied column offsets of
// the current rotation. ok is false if the matrix has no occupied cells.
func (p Piece) MinMaxColumn() (min, max int, ok bool) {
	st := p.state()
	if len(st.offsets) == 0 {
		return 0, 0, false
	}
	return st.minCol, st.maxCol, true
}

// Width is the horizontal extent of the occupied cells.
func (p Piece) Width() int {
	min, max, ok := p.MinMaxColumn()
	if !ok {
		return 0
	}
	return max - min + 1
}

// Copy returns an independent copy of the piece.
func (p Piece) Copy() Piece {
	return p
}

func (p Piece) String() string {
	return fmt.Sprintf("%v(r%d @%d,%d)", p.shape, p.rotation, p.X, p.Y)
}
