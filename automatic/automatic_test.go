package automatic

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"lukechampine.com/frand"

	"github.com/domino14/tenpai/analyzer"
	"github.com/domino14/tenpai/pattern"
	"github.com/domino14/tenpai/shanten"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

var testPatterns = []pattern.WinPattern{pattern.DefaultStandard(), pattern.SevenPairs()}

func newTestAnalyzer(t *testing.T) *analyzer.Analyzer {
	an, err := analyzer.NewAnalyzer([]analyzer.Calculator{
		shanten.NewHeuristic(testPatterns[0]),
		shanten.NewHeuristic(testPatterns[1]),
	}, 2)
	if err != nil {
		t.Fatal(err)
	}
	return an
}

func seeded(b byte) *frand.RNG {
	seed := make([]byte, 32)
	seed[0] = b
	return frand.NewCustom(seed, 1024, 12)
}

func TestDeal(t *testing.T) {
	is := is.New(t)
	r := NewGameRunner(nil, newTestAnalyzer(t), testPatterns, 0)
	hand, draws, err := r.Deal(seeded(1))
	is.NoErr(err)
	is.Equal(hand.Size(), HandSize)
	is.Equal(len(draws), DefaultMaxTurns)
	all := hand
	for _, k := range draws {
		all[k]++
	}
	is.True(all.ValidHand())

	// The same seed deals the same hand.
	hand2, draws2, err := r.Deal(seeded(1))
	is.NoErr(err)
	is.Equal(hand, hand2)
	is.Equal(draws, draws2)
}

func TestPlayGame(t *testing.T) {
	is := is.New(t)
	logchan := make(chan string, 100)
	r := NewGameRunner(logchan, newTestAnalyzer(t), testPatterns, 10)
	res, err := r.PlayGame(context.Background(), "g1", seeded(2))
	is.NoErr(err)
	close(logchan)

	var lines []string
	for l := range logchan {
		lines = append(lines, l)
	}
	if res.WonAt > 0 {
		is.Equal(len(lines), res.WonAt)
		is.Equal(res.FinalShanten, -1)
	} else {
		is.Equal(len(lines), 10)
		is.True(res.FinalShanten >= 0)
	}
	for _, l := range lines {
		is.True(strings.HasPrefix(l, "g1,"))
		is.Equal(strings.Count(l, ","), 6)
	}
}

func TestPlayGameCancelled(t *testing.T) {
	is := is.New(t)
	r := NewGameRunner(nil, newTestAnalyzer(t), testPatterns, 5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.PlayGame(ctx, "g", seeded(3))
	is.True(err != nil)
}

func TestAnalyzeLog(t *testing.T) {
	is := is.New(t)
	log := LogHeader +
		"1,1,123m,0,9m,2,10\n" +
		"2,1,123m,0,9m,1,10\n" +
		"1,2,123m,0,-,-1,0\n" +
		"2,2,123m,0,8m,1,8\n"
	s, err := AnalyzeLog(strings.NewReader(log))
	is.NoErr(err)
	is.Equal(s.Games, 2)
	is.Equal(s.Wins, 1)
	is.Equal(s.WinTurn.Mean(), 2.0)
	is.Equal(s.LossShanten.Mean(), 1.0)
	assert.Contains(t, s.String(), "Wins: 1 (50.000%)")
}

func TestSelfPlayGames(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "games.csv")
	done, err := StartSelfPlayGames(context.Background(), newTestAnalyzer(t), testPatterns,
		Options{NumGames: 6, Threads: 2, MaxTurns: 6, Seeds: GenerateSeeds(3)}, path)
	is.NoErr(err)
	<-done

	s, err := os.ReadFile(path)
	is.NoErr(err)
	is.True(strings.HasPrefix(string(s), LogHeader))
	summary, err := AnalyzeLog(bytes.NewReader(s))
	is.NoErr(err)
	is.Equal(summary.Games, 6)
	is.Equal(GamesCounter.Value(), int64(6))

	_, err = StartSelfPlayGames(context.Background(), newTestAnalyzer(t), testPatterns, Options{}, path)
	is.True(err != nil)
}

func TestSeedsRoundTrip(t *testing.T) {
	is := is.New(t)
	seeds := GenerateSeeds(4)
	var buf bytes.Buffer
	is.NoErr(WriteSeeds(&buf, seeds))
	got, err := ReadSeeds(&buf)
	is.NoErr(err)
	is.Equal(got, seeds)

	_, err = ReadSeeds(strings.NewReader("c2hvcnQ\n"))
	is.True(err != nil)

	path := filepath.Join(t.TempDir(), "seeds.txt")
	is.NoErr(SaveSeeds(seeds, path))
	got, err = LoadSeeds(path)
	is.NoErr(err)
	is.Equal(got, seeds)
}

func TestDealDiffersBySeed(t *testing.T) {
	r := NewGameRunner(nil, newTestAnalyzer(t), testPatterns, 0)
	a, _, _ := r.Deal(seeded(4))
	b, _, _ := r.Deal(seeded(5))
	assert.NotEqual(t, a, b)
	assert.Equal(t, HandSize, a.Size())
}
