package shell

import "strings"

const usageText = `Commands:
  new [-seed N] [-generator classic|random]   start a game
  show                                        show the board
  gen [n]                                     list the player's n best moves
  play <rXxY> | play #<n>                     play a move, or the nth generated move
  aiplay                                      let the player make one move
  autoplay [n]                                let the player make n moves (default 100)
  left|right|down [n]                         shift the current piece
  rotate [ccw]                                rotate the current piece
  drop                                        hard-drop the current piece
  swap                                        swap the current and next pieces
  tick [n]                                    advance gravity by n frames
  features                                    show evaluator features of the board
  eval [-games N]                             play N games and report the results
  set [key value]                             show or change a setting
  help [topic]                                this text, or help on a topic
  exit                                        quit

Topics: moves, settings`

var topics = map[string]string{
	"moves": `A move is written r<rotations>x<column>: rotate the current piece clockwise
<rotations> times (0-3), put the left edge of its matrix at <column> (which
may be negative when the matrix has empty columns on the left), and
hard-drop it. r1x-2 stands a horizontal I piece up in the leftmost column.`,
	"settings": `Settings take the same names as the command-line flags, for example:
  set player lookahead
  set beam-width 5
  set weights -0.51,0.76,-0.36,-0.18
Player settings apply at once; board and generator settings apply to the
next new game.`,
}

func usage() string {
	return usageText
}

func usageTopic(topic string) string {
	if t, ok := topics[strings.ToLower(topic)]; ok {
		return t
	}
	return "There is no help text for the topic " + topic
}
