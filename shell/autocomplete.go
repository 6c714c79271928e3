package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/domino14/stacker/config"
)

// ShellCompleter completes command names, options and setting keys.
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

type CommandMetadata struct {
	Options []string
	Args    []string
}

var commandMetadata = map[string]CommandMetadata{
	"new":    {Options: []string{"-seed", "-generator"}},
	"rotate": {Args: []string{"cw", "ccw"}},
	"eval":   {Options: []string{"-games"}},
	"help":   {Args: []string{"moves", "settings"}},
	"set": {Args: []string{
		config.ConfigRows, config.ConfigCols, config.ConfigGenerator, config.ConfigSeed,
		config.ConfigWeights, config.ConfigPlayer, config.ConfigBeamWidth,
		config.ConfigLookaheadThreads, config.ConfigEvalCache, config.ConfigGameOverPenalty,
		config.ConfigMaxMoves, config.ConfigNumGames, config.ConfigThreads,
	}},
}

var commandNames = []string{
	"new", "show", "gen", "play", "aiplay", "autoplay", "left", "right", "down",
	"rotate", "drop", "swap", "tick", "features", "eval", "set", "help", "exit",
}

// Do implements the readline.AutoCompleter interface.
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])
	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string
	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}
		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}
		switch {
		case lastCompleteField == "-generator":
			completions = []string{"classic", "random"}
		case cmdName == "set" && lastCompleteField == config.ConfigPlayer:
			completions = []string{"static", "lookahead"}
		case cmdName == "set" && lastCompleteField == config.ConfigGenerator:
			completions = []string{"classic", "random"}
		default:
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else {
					completions = metadata.Args
				}
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}
	return matches, len(prefix)
}
