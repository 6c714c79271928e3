package board

import (
	"fmt"
	"strings"

	"github.com/domino14/stacker/piece"
)

const (
	emptyChar  = '.'
	filledChar = '#'
	pieceChar  = '@'
)

// ToDisplayText renders the board as plain text. If p is not nil, its cells
// are drawn on top of the board.
func (b *Board) ToDisplayText(p *piece.Piece) string {
	overlay := map[piece.Cell]bool{}
	if p != nil {
		for _, c := range p.Cells() {
			overlay[c] = true
		}
	}
	var sb strings.Builder
	sb.WriteString("   ")
	for x := 0; x < b.cols; x++ {
		sb.WriteString(fmt.Sprintf("%d", x%10))
	}
	sb.WriteString("\n   " + strings.Repeat("-", b.cols) + "\n")
	for y := 0; y < b.rows; y++ {
		sb.WriteString(fmt.Sprintf("%2d|", y))
		for x := 0; x < b.cols; x++ {
			switch {
			case overlay[piece.Cell{X: x, Y: y}]:
				sb.WriteByte(pieceChar)
			case b.Cell(x, y) != Empty:
				sb.WriteByte(filledChar)
			default:
				sb.WriteByte(emptyChar)
			}
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("   " + strings.Repeat("-", b.cols) + "\n")
	return sb.String()
}

// FromPlaintext builds a board from rows of '.' (empty) and any other
// character (occupied). All rows must have the same length.
func FromPlaintext(rows []string) (*Board, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows given")
	}
	cols := len(rows[0])
	b := NewBoard(len(rows), cols)
	if err := b.SetFromPlaintext(rows); err != nil {
		return nil, err
	}
	return b, nil
}

// SetFromPlaintext overwrites the board with the given rows. The number of
// rows and their length must match the board's dimensions.
func (b *Board) SetFromPlaintext(rows []string) error {
	if len(rows) != b.rows {
		return fmt.Errorf("expected %d rows, got %d", b.rows, len(rows))
	}
	for y, r := range rows {
		if len(r) != b.cols {
			return fmt.Errorf("row %d: expected %d columns, got %d", y, b.cols, len(r))
		}
		for x := 0; x < b.cols; x++ {
			if r[x] == emptyChar {
				b.SetCell(x, y, Empty)
			} else {
				b.SetCell(x, y, Filled)
			}
		}
	}
	return nil
}
