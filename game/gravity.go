package game

// MaxLevel is the highest level; gravity stops speeding up after it.
const MaxLevel = 29

// LinesPerLevel is how many cleared rows advance the level by one.
const LinesPerLevel = 10

// gravityFrames is the number of ticks a piece waits before falling one row,
// per level.
var gravityFrames = [MaxLevel + 1]int{
	48, 43, 38, 33, 28, 23, 18, 13, 8, 6,
	5, 5, 5, 4, 4, 4, 3, 3, 3, 2,
	2, 2, 2, 2, 2, 2, 2, 2, 2, 1,
}

// GravityFrames returns the ticks per row at the given level.
func GravityFrames(level int) int {
	if level < 0 {
		level = 0
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return gravityFrames[level]
}

// SetStartLevel sets the level the game starts at (and restarts at after
// Reset). It takes effect immediately.
func (g *Game) SetStartLevel(level int) {
	g.startLevel = min(max(level, 0), MaxLevel)
	g.updateLevel()
}

func (g *Game) Level() int {
	return g.level
}

func (g *Game) updateLevel() {
	g.level = min(max(g.startLevel, g.score/LinesPerLevel), MaxLevel)
}

// Tick advances the gravity timer by one frame and, when the current
// level's delay is reached, drops the piece one row. It returns true if the
// piece was dropped this tick. Ticking a finished game does nothing.
func (g *Game) Tick() bool {
	if g.playing == GameOver {
		return false
	}
	g.frames++
	if g.frames < GravityFrames(g.level) {
		return false
	}
	g.frames = 0
	g.DropPiece()
	return true
}
