package automatic

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/domino14/tenpai/stats"
)

// LogSummary holds what a self-play log says about the games in it.
type LogSummary struct {
	Games int
	Wins  int
	// WinTurn holds the winning turn of every won game.
	WinTurn stats.Statistic
	// LossShanten holds the final shanten number of every game not won.
	LossShanten stats.Statistic
}

func (s *LogSummary) String() string {
	p := message.NewPrinter(language.English)
	out := p.Sprintf("Games played: %d\n", s.Games)
	if s.Games == 0 {
		return out
	}
	out += p.Sprintf("Wins: %d (%.3f%%)\n", s.Wins, 100.0*float64(s.Wins)/float64(s.Games))
	out += fmt.Sprintf("Winning turn Mean: %.3f  Stdev: %.3f\n", s.WinTurn.Mean(), s.WinTurn.Stdev())
	out += fmt.Sprintf("Final shanten of other games Mean: %.3f  Stdev: %.3f\n",
		s.LossShanten.Mean(), s.LossShanten.Stdev())
	return out
}

type lastTurn struct {
	turn    int
	shanten int
}

// AnalyzeLog reads a self-play log. Turns of different games may be
// interleaved.
func AnalyzeLog(rd io.Reader) (*LogSummary, error) {
	r := csv.NewReader(rd)
	games := map[string]lastTurn{}
	var order []string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if record[0] == "gameID" {
			// this is the header line
			continue
		}
		turn, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, err
		}
		shanten, err := strconv.Atoi(record[5])
		if err != nil {
			return nil, err
		}
		prev, seen := games[record[0]]
		if !seen {
			order = append(order, record[0])
		}
		if !seen || turn > prev.turn {
			games[record[0]] = lastTurn{turn: turn, shanten: shanten}
		}
	}

	s := &LogSummary{Games: len(games)}
	for _, id := range order {
		g := games[id]
		if g.shanten == -1 {
			s.Wins++
			s.WinTurn.Push(float64(g.turn))
		} else {
			s.LossShanten.Push(float64(g.shanten))
		}
	}
	return s, nil
}

// AnalyzeLogFile analyzes the given self-play CSV file and returns its
// statistics as text.
func AnalyzeLogFile(filepath string) (string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return "", err
	}
	defer file.Close()
	s, err := AnalyzeLog(file)
	if err != nil {
		return "", err
	}
	return s.String(), nil
}
