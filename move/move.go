// Package move defines a proposed placement of the active piece.
package move

import (
	"fmt"
	"regexp"
	"strconv"
)

// Move is a placement: apply Rotations clockwise rotations to the active
// piece, put its anchor at column X, then hard-drop it.
type Move struct {
	Rotations int
	X         int
}

var reMove *regexp.Regexp

func init() {
	reMove = regexp.MustCompile(`^r(?P<rot>[0-3])x(?P<x>-?[0-9]+)$`)
}

// String provides a compact description like r1x-2.
func (m Move) String() string {
	return fmt.Sprintf("r%dx%d", m.Rotations, m.X)
}

// FromString parses the output of String.
func FromString(s string) (Move, error) {
	matches := reMove.FindStringSubmatch(s)
	if matches == nil {
		return Move{}, fmt.Errorf("not a move: %q", s)
	}
	rot, _ := strconv.Atoi(matches[reMove.SubexpIndex("rot")])
	x, err := strconv.Atoi(matches[reMove.SubexpIndex("x")])
	if err != nil {
		return Move{}, err
	}
	return Move{Rotations: rot, X: x}, nil
}

func (m Move) Equal(o Move) bool {
	return m == o
}
