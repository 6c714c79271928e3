package automatic

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/domino14/stacker/stats"
)

// AnalyzeLogFile reads a games CSV written by PlayGames and returns a
// summary of scores and game lengths.
func AnalyzeLogFile(filepath string) (string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return "", err
	}
	defer file.Close()
	r := csv.NewReader(file)

	// Record looks like:
	// gameID,seed,score,moves,gameover
	scoreStats := &stats.Statistic{}
	moveStats := &stats.Statistic{}
	toppedOut := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if record[0] == "gameID" {
			continue
		}
		score, err := strconv.Atoi(record[2])
		if err != nil {
			return "", err
		}
		moves, err := strconv.Atoi(record[3])
		if err != nil {
			return "", err
		}
		over, err := strconv.ParseBool(record[4])
		if err != nil {
			return "", err
		}
		scoreStats.Push(float64(score))
		moveStats.Push(float64(moves))
		if over {
			toppedOut++
		}
	}
	n := scoreStats.Iterations()
	if n == 0 {
		return "No games found\n", nil
	}

	lo, hi := scoreStats.ConfidenceInterval(95)
	out := fmt.Sprintf("Games played: %d\n", n)
	out += fmt.Sprintf("Topped out: %d (%.3f%%)\n", toppedOut, 100.0*float64(toppedOut)/float64(n))
	out += fmt.Sprintf("Lines cleared: mean %.3f  stdev %.3f  min %.0f  max %.0f\n",
		scoreStats.Mean(), scoreStats.Stdev(), scoreStats.Min(), scoreStats.Max())
	out += fmt.Sprintf("95%% confidence interval for the mean: [%.3f, %.3f]\n", lo, hi)
	out += fmt.Sprintf("Moves: mean %.3f  stdev %.3f\n", moveStats.Mean(), moveStats.Stdev())
	return out, nil
}
