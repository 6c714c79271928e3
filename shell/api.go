package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/domino14/stacker/ai/turnplayer"
	"github.com/domino14/stacker/automatic"
	"github.com/domino14/stacker/bag"
	"github.com/domino14/stacker/config"
	"github.com/domino14/stacker/equity"
	"github.com/domino14/stacker/game"
	"github.com/domino14/stacker/move"
)

const (
	defaultNumPlays      = 10
	defaultAutoplayMoves = 100
)

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

func intArg(args []string, idx, defaultI int) (int, error) {
	if len(args) <= idx {
		return defaultI, nil
	}
	return strconv.Atoi(args[idx])
}

func intOption(options map[string]string, key string, defaultI int) (int, error) {
	v, ok := options[key]
	if !ok {
		return defaultI, nil
	}
	return strconv.Atoi(v)
}

func (sc *ShellController) handle(cmd *shellcmd) (*Response, error) {
	switch cmd.cmd {
	case "new", "n":
		return sc.newGame(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "gen", "g":
		return sc.generate(cmd)
	case "play", "p":
		return sc.play(cmd)
	case "aiplay", "a":
		return sc.aiplay(cmd)
	case "autoplay", "auto":
		return sc.autoplay(cmd)
	case "left", "right", "down":
		return sc.shift(cmd)
	case "rotate", "r":
		return sc.rotate(cmd)
	case "drop", "d":
		return sc.hardDrop(cmd)
	case "swap":
		return sc.swap(cmd)
	case "tick":
		return sc.tick(cmd)
	case "features", "f":
		return sc.features(cmd)
	case "eval":
		return sc.eval(cmd)
	case "set":
		return sc.set(cmd)
	case "help", "h":
		return sc.help(cmd)
	default:
		msg := fmt.Sprintf("command %v not found", strconv.Quote(cmd.cmd))
		log.Info().Msg(msg)
		return nil, errors.New(msg)
	}
}

// newGame starts a game with the current settings. -seed and -generator
// override them for this game only.
func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	policy := bag.Policy(sc.config.GetString(config.ConfigGenerator))
	if p, ok := cmd.options["generator"]; ok {
		policy = bag.Policy(p)
	}
	seed, hasSeed := sc.config.Seed()
	if s, ok := cmd.options["seed"]; ok {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, err
		}
		seed, hasSeed = v, true
	}
	if !hasSeed {
		seed = bag.RandomSeed()
	}
	gen, err := bag.NewGenerator(policy, seed)
	if err != nil {
		return nil, err
	}
	p, err := turnplayer.NewFromConfig(sc.config)
	if err != nil {
		return nil, err
	}
	sc.game = game.NewGame(sc.config.GetInt(config.ConfigRows),
		sc.config.GetInt(config.ConfigCols), gen)
	sc.aiplayer = p
	sc.curPlays = nil
	log.Debug().Uint64("seed", seed).Str("generator", string(policy)).Msg("new-game")
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	return msg(sc.game.ToDisplayText()), nil
}

func moveTableHeader() string {
	return fmt.Sprintf("%-4s%-10s%-10s\n", "#", "Move", "Equity")
}

func moveTableRow(idx int, sm turnplayer.ScoredMove) string {
	return fmt.Sprintf("%-4d%-10s%-10.4f\n", idx+1, sm.Move.String(), sm.Equity)
}

func (sc *ShellController) generate(cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	numPlays, err := intArg(cmd.args, 0, defaultNumPlays)
	if err != nil {
		return nil, err
	}
	sc.curPlays = sc.aiplayer.GenerateMoves(sc.game, numPlays)
	if len(sc.curPlays) == 0 {
		return msg("No legal moves."), nil
	}
	var sb strings.Builder
	sb.WriteString(moveTableHeader())
	for i, sm := range sc.curPlays {
		sb.WriteString(moveTableRow(i, sm))
	}
	return msg(sb.String()), nil
}

// play accepts a move like r1x3, or #n for the nth move of the last gen.
func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	if len(cmd.args) != 1 {
		return nil, errUsage("play <r{rotations}x{column}> or play #<n>")
	}
	var m move.Move
	if idxStr, ok := strings.CutPrefix(cmd.args[0], "#"); ok {
		idx, err := strconv.Atoi(idxStr)
		if err != nil {
			return nil, err
		}
		if idx < 1 || idx > len(sc.curPlays) {
			return nil, fmt.Errorf("no generated move #%d", idx)
		}
		m = sc.curPlays[idx-1].Move
	} else {
		var err error
		m, err = move.FromString(cmd.args[0])
		if err != nil {
			return nil, err
		}
	}
	return sc.commit(m)
}

func (sc *ShellController) commit(m move.Move) (*Response, error) {
	if sc.game.GameOver() {
		return nil, errors.New("game is over")
	}
	if !sc.game.PlayMove(m) {
		return nil, fmt.Errorf("move %v does not fit", m)
	}
	sc.curPlays = nil
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) runner() *automatic.GameRunner {
	return automatic.NewGameRunnerFromParts(sc.game, sc.aiplayer, 0, nil)
}

func (sc *ShellController) aiplay(cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	if sc.game.GameOver() {
		return nil, errors.New("game is over")
	}
	m, ok := sc.runner().PlayBestTurn()
	sc.curPlays = nil
	if !ok {
		return msg("No legal move; dropped the piece one row.\n" + sc.game.ToDisplayText()), nil
	}
	return msg("Played " + m.String() + "\n" + sc.game.ToDisplayText()), nil
}

// autoplay lets the bot play n more moves, stopping early if the game ends.
func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	n, err := intArg(cmd.args, 0, defaultAutoplayMoves)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, errUsage("autoplay [n > 0]")
	}
	r := automatic.NewGameRunnerFromParts(sc.game, sc.aiplayer, sc.game.MovesPlayed()+n, nil)
	res := r.PlayGame(context.Background())
	sc.curPlays = nil
	return msg(fmt.Sprintf("%s\nScore %d after %d moves", sc.game.ToDisplayText(),
		res.Score, res.Moves)), nil
}

func (sc *ShellController) shift(cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	n, err := intArg(cmd.args, 0, 1)
	if err != nil {
		return nil, err
	}
	dx, dy := 0, 0
	switch cmd.cmd {
	case "left":
		dx = -1
	case "right":
		dx = 1
	case "down":
		dy = 1
	}
	moved := 0
	for ; moved < n; moved++ {
		if !sc.game.MovePiece(dx, dy) {
			break
		}
	}
	return msg(fmt.Sprintf("%s\nMoved %d", sc.game.ToDisplayText(), moved)), nil
}

func (sc *ShellController) rotate(cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	clockwise := !(len(cmd.args) > 0 && cmd.args[0] == "ccw")
	if !sc.game.RotatePiece(clockwise) {
		return nil, errors.New("piece cannot rotate here")
	}
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) hardDrop(cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	if sc.game.GameOver() {
		return nil, errors.New("game is over")
	}
	sc.game.HardDrop()
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) swap(cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	if !sc.game.SwapPiece() {
		return nil, errors.New("next piece does not fit here")
	}
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) tick(cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	n, err := intArg(cmd.args, 0, 1)
	if err != nil {
		return nil, err
	}
	drops := 0
	for i := 0; i < n; i++ {
		if sc.game.Tick() {
			drops++
		}
	}
	return msg(fmt.Sprintf("%s\nLevel %d, %d gravity drops", sc.game.ToDisplayText(),
		sc.game.Level(), drops)), nil
}

func (sc *ShellController) features(cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	w, err := equity.WeightsFromConfig(sc.config)
	if err != nil {
		return nil, err
	}
	f := equity.Extract(sc.game)
	return msg(fmt.Sprintf("Heights: %v\nAggregate height: %d\nComplete lines: %d\nHoles: %d\nBumpiness: %d\nScore with %v: %.4f",
		equity.ColumnHeights(sc.game.Board()), f.AggregateHeight, f.CompleteLines,
		f.Holes, f.Bumpiness, w, equity.Score(sc.game, w))), nil
}

// eval plays -games games with the current player and reports the lines
// cleared.
func (sc *ShellController) eval(cmd *shellcmd) (*Response, error) {
	numGames, err := intOption(cmd.options, "games", sc.config.GetInt(config.ConfigNumGames))
	if err != nil {
		return nil, err
	}
	p, err := turnplayer.NewFromConfig(sc.config)
	if err != nil {
		return nil, err
	}
	var seeds []uint64
	if seed, ok := sc.config.Seed(); ok {
		seeds = automatic.DeriveSeeds(seed, numGames)
	} else {
		seeds = automatic.GenerateSeeds(numGames)
	}
	res, err := automatic.Evaluate(context.Background(), p, seeds,
		automatic.EvalOptionsFromConfig(sc.config))
	if err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("Lines cleared: %v\nMoves: %v", &res.Score, &res.Moves)), nil
}

func (sc *ShellController) showSettings() string {
	keys := []string{config.ConfigRows, config.ConfigCols, config.ConfigGenerator,
		config.ConfigSeed, config.ConfigWeights, config.ConfigPlayer,
		config.ConfigBeamWidth, config.ConfigLookaheadThreads, config.ConfigEvalCache,
		config.ConfigGameOverPenalty, config.ConfigMaxMoves, config.ConfigNumGames,
		config.ConfigThreads}
	var sb strings.Builder
	sb.WriteString("Settings:\n")
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("  %s: %v\n", k, sc.config.Get(k)))
	}
	return sb.String()
}

// set changes a setting. Player settings take effect immediately; board
// and generator settings apply to the next new game.
func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(sc.showSettings()), nil
	}
	if len(cmd.args) != 2 {
		return nil, errUsage("set <key> <value>")
	}
	key, value := cmd.args[0], cmd.args[1]
	old := sc.config.Get(key)
	sc.config.Set(key, value)
	if _, err := equity.WeightsFromConfig(sc.config); err != nil {
		sc.config.Set(key, old)
		return nil, err
	}
	if sc.game != nil {
		p, err := turnplayer.NewFromConfig(sc.config)
		if err != nil {
			sc.config.Set(key, old)
			return nil, err
		}
		sc.aiplayer = p
	}
	return msg(fmt.Sprintf("set %s to %v", key, sc.config.Get(key))), nil
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(usage()), nil
	}
	return msg(usageTopic(cmd.args[0])), nil
}
