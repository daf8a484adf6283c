package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/tenpai/pattern"
	"github.com/domino14/tenpai/shanten"
	"github.com/domino14/tenpai/tilemapping"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func newTestAnalyzer(t *testing.T) *Analyzer {
	an, err := NewAnalyzer([]Calculator{
		shanten.NewHeuristic(pattern.DefaultStandard()),
		shanten.NewHeuristic(pattern.SevenPairs()),
	}, 4)
	if err != nil {
		t.Fatal(err)
	}
	return an
}

func TestAnalyzeNineGates(t *testing.T) {
	is := is.New(t)
	an := newTestAnalyzer(t)
	ds, err := an.Analyze(context.Background(), tilemapping.MustFromString("1112345678999m5z"), tilemapping.TileSet{})
	is.NoErr(err)
	is.Equal(len(ds), 10)

	best := ds[0]
	is.Equal(best.Tile, tilemapping.TileKind(31)) // 5z
	is.Equal(best.Shanten, 0)
	is.Equal(best.Useful.String(), "123456789m")
	is.Equal(best.UsefulCount, 23)
	is.Equal(best.Patterns, []int{0})

	for i := 1; i < len(ds); i++ {
		prev, cur := ds[i-1], ds[i]
		is.True(prev.Shanten < cur.Shanten ||
			prev.Shanten == cur.Shanten && prev.UsefulCount >= cur.UsefulCount)
	}
}

func TestVisibleTilesReduceCount(t *testing.T) {
	is := is.New(t)
	an := newTestAnalyzer(t)
	hand := tilemapping.MustFromString("1112345678999m")
	res, err := an.Evaluate(hand, tilemapping.TileSet{})
	is.NoErr(err)
	is.Equal(res.Shanten, 0)
	is.Equal(res.UsefulCount, 23)

	res, err = an.Evaluate(hand, tilemapping.MustFromString("555m"))
	is.NoErr(err)
	is.Equal(res.UsefulCount, 20)
}

func TestEvaluatePicksBestPattern(t *testing.T) {
	is := is.New(t)
	an := newTestAnalyzer(t)
	res, err := an.Evaluate(tilemapping.MustFromString("1122m3344p5566s77z"), tilemapping.TileSet{})
	is.NoErr(err)
	is.Equal(res.Shanten, shanten.Complete)
	is.Equal(res.Patterns, []int{1})
	is.Equal(res.UsefulCount, 0)

	// Seven pairs is a step behind here, so only the standard waits count.
	res, err = an.Evaluate(tilemapping.MustFromString("11266677788992m"), tilemapping.TileSet{})
	is.NoErr(err)
	is.Equal(res.Shanten, 0)
	is.Equal(res.Patterns, []int{0})
}

func TestAnalyzeErrors(t *testing.T) {
	is := is.New(t)
	_, err := NewAnalyzer(nil, 1)
	is.True(errors.Is(err, ErrNoCalculators))

	an := newTestAnalyzer(t)
	_, err = an.Analyze(context.Background(), tilemapping.TileSet{}, tilemapping.TileSet{})
	is.True(errors.Is(err, ErrEmptyHand))
	_, err = an.Analyze(context.Background(), tilemapping.MustFromString("111m"), tilemapping.MustFromString("11m"))
	is.True(errors.Is(err, ErrInvalidTiles))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = an.Analyze(ctx, tilemapping.MustFromString("123m"), tilemapping.TileSet{})
	is.True(errors.Is(err, context.Canceled))
}

func TestRendering(t *testing.T) {
	is := is.New(t)
	an := newTestAnalyzer(t)
	ds, err := an.Analyze(context.Background(), tilemapping.MustFromString("1112345678999m5z"), tilemapping.TileSet{})
	is.NoErr(err)
	table := Table(ds)
	lines := strings.Split(strings.TrimSpace(table), "\n")
	is.Equal(len(lines), 11)
	is.True(strings.HasPrefix(lines[1], "5z"))

	bts, err := JSON(ds)
	is.NoErr(err)
	var out []JsonDiscard
	is.NoErr(json.Unmarshal(bts, &out))
	is.Equal(out[0].Discard, "5z")
	is.Equal(out[0].UsefulCount, 23)
}
