// Package game encapsulates the environment a piece falls through: one
// board, the current and next piece, and the piece generator. It knows
// nothing about who is playing it; agents and drivers live elsewhere.
package game

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/stacker/bag"
	"github.com/domino14/stacker/board"
	"github.com/domino14/stacker/config"
	"github.com/domino14/stacker/move"
	"github.com/domino14/stacker/piece"
)

// PlayState is either Active or GameOver.
type PlayState uint8

const (
	Active PlayState = iota
	GameOver
)

func (p PlayState) String() string {
	if p == GameOver {
		return "game over"
	}
	return "active"
}

// Game is the environment. Its zero value is not usable; create one with
// NewGame or NewFromConfig.
type Game struct {
	board   *board.Board
	current piece.Piece
	next    piece.Piece

	// gen produces upcoming shapes; initialGen is kept untouched so Reset
	// replays the same sequence.
	gen        bag.Generator
	initialGen bag.Generator

	score       int
	movesPlayed int
	startLevel  int
	level       int
	frames      int
	playing     PlayState
}

// NewGame creates a game on a rows x cols board that draws its pieces from
// gen. The generator must not be shared with another game.
func NewGame(rows, cols int, gen bag.Generator) *Game {
	g := &Game{
		board:      board.NewBoard(rows, cols),
		initialGen: gen.Copy(),
	}
	g.Reset()
	return g
}

// NewFromConfig creates a game using the board size, generator policy and
// seed in cfg. Without a configured seed, a random one is used.
func NewFromConfig(cfg *config.Config) (*Game, error) {
	policy := bag.Policy(cfg.GetString(config.ConfigGenerator))
	var gen bag.Generator
	var err error
	if seed, ok := cfg.Seed(); ok {
		gen, err = bag.NewGenerator(policy, seed)
	} else {
		gen, err = bag.NewUnseededGenerator(policy)
	}
	if err != nil {
		return nil, err
	}
	rows, cols := cfg.GetInt(config.ConfigRows), cfg.GetInt(config.ConfigCols)
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("bad board dimensions %dx%d", rows, cols)
	}
	return NewGame(rows, cols, gen), nil
}

// Reset empties the board, zeroes counters, and deals the first two pieces
// again from the start of the original piece sequence.
func (g *Game) Reset() {
	g.board.Reset()
	g.gen = g.initialGen.Copy()
	g.score = 0
	g.movesPlayed = 0
	g.level = g.startLevel
	g.frames = 0
	g.playing = Active
	// The first piece is centered like every later one, not left at the
	// piece.New anchor.
	g.current = g.spawn(g.gen.Next())
	g.next = piece.New(g.gen.Next())
}

// spawn creates a piece horizontally centered at the top of the board.
func (g *Game) spawn(s piece.Shape) piece.Piece {
	p := piece.New(s)
	p.X = (g.board.Cols() - p.Width()) / 2
	return p
}

// Copy returns a fully independent deep copy: board, both pieces, the
// generator's state, and every counter.
func (g *Game) Copy() *Game {
	return &Game{
		board:       g.board.Copy(),
		current:     g.current.Copy(),
		next:        g.next.Copy(),
		gen:         g.gen.Copy(),
		initialGen:  g.initialGen,
		score:       g.score,
		movesPlayed: g.movesPlayed,
		startLevel:  g.startLevel,
		level:       g.level,
		frames:      g.frames,
		playing:     g.playing,
	}
}

// MovePiece translates the current piece. If the new position is invalid
// the piece is moved back and false is returned.
func (g *Game) MovePiece(dx, dy int) bool {
	g.current.Translate(dx, dy)
	if !g.board.IsValidPosition(g.current) {
		g.current.Translate(-dx, -dy)
		return false
	}
	return true
}

// RotatePiece rotates the current piece, undoing the rotation and returning
// false if the result is invalid.
func (g *Game) RotatePiece(clockwise bool) bool {
	g.current.Rotate(clockwise)
	if !g.board.IsValidPosition(g.current) {
		g.current.Rotate(!clockwise)
		return false
	}
	return true
}

// DropPiece moves the current piece down one row. If it cannot move, it is
// locked: committed to the board, full rows are cleared and added to the
// score, and the next piece is spawned unless the game is already over.
// It returns true if the piece was locked.
func (g *Game) DropPiece() bool {
	if g.MovePiece(0, 1) {
		return false
	}
	g.board.PlacePiece(g.current)
	g.score += g.board.ClearLines()
	g.movesPlayed++
	g.updateLevel()
	if g.playing != GameOver {
		g.NewPiece()
	}
	return true
}

// HardDrop moves the current piece straight down as far as it goes, then
// locks it.
func (g *Game) HardDrop() {
	for g.MovePiece(0, 1) {
	}
	g.DropPiece()
}

// NewPiece promotes the next piece to current, centers it, draws a new next
// piece, and ends the game if the promoted piece does not fit.
func (g *Game) NewPiece() {
	g.current = g.next
	g.current.X = (g.board.Cols() - g.current.Width()) / 2
	g.next = piece.New(g.gen.Next())
	if !g.board.IsValidPosition(g.current) {
		g.playing = GameOver
		log.Debug().Int("score", g.score).Int("moves", g.movesPlayed).Msg("game-over")
	}
}

// PlayMove applies m to the live game: rotate the current piece, move it to
// column m.X, and hard-drop it. If that position is not valid the piece is
// left untouched and false is returned.
func (g *Game) PlayMove(m move.Move) bool {
	orig := g.current
	for i := 0; i < m.Rotations; i++ {
		g.current.Rotate(true)
	}
	g.current.X = m.X
	if !g.board.IsValidPosition(g.current) {
		g.current = orig
		return false
	}
	g.HardDrop()
	return true
}

// SwapPiece exchanges the current and next pieces, keeping the current
// piece's position. The piece put back is re-centered at the top. Returns
// false, changing nothing, if the incoming piece would collide.
func (g *Game) SwapPiece() bool {
	outgoing := g.current
	incoming := g.next
	incoming.X, incoming.Y = outgoing.X, outgoing.Y
	if !g.board.IsValidPosition(incoming) {
		return false
	}
	g.current = incoming
	outgoing.X = (g.board.Cols() - outgoing.Width()) / 2
	outgoing.Y = piece.SpawnY
	g.next = outgoing
	return true
}

// GhostPiece returns where the current piece would land if hard-dropped.
func (g *Game) GhostPiece() piece.Piece {
	ghost := g.current
	for g.board.IsValidPosition(ghost) {
		ghost.Y++
	}
	ghost.Y--
	return ghost
}

func (g *Game) Board() *board.Board {
	return g.board
}

func (g *Game) CurrentPiece() piece.Piece {
	return g.current
}

// SetCurrentPiece replaces the current piece. It is meant for setting up
// positions.
func (g *Game) SetCurrentPiece(p piece.Piece) {
	g.current = p
}

func (g *Game) NextPiece() piece.Piece {
	return g.next
}

func (g *Game) SetNextPiece(p piece.Piece) {
	g.next = p
}

// Score is the cumulative number of cleared rows.
func (g *Game) Score() int {
	return g.score
}

func (g *Game) MovesPlayed() int {
	return g.movesPlayed
}

func (g *Game) Playing() PlayState {
	return g.playing
}

func (g *Game) GameOver() bool {
	return g.playing == GameOver
}

// LinesCleared is the number of rows the most recent lock cleared.
func (g *Game) LinesCleared() int {
	return g.board.LinesCleared()
}

// Policy names the policy of the game's piece generator.
func (g *Game) Policy() bag.Policy {
	return g.gen.Policy()
}
